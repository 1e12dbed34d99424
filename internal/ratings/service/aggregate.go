package service

import "github.com/shopspring/decimal"

// Mean is the aggregate rating: the score mean rounded half up to one
// decimal place, or 0 when there are no ratings.
func Mean(total, count int64) float64 {
	if count <= 0 {
		return 0
	}
	return decimal.NewFromInt(total).
		DivRound(decimal.NewFromInt(count), 1).
		InexactFloat64()
}
