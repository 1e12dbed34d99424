package service

import "testing"

func TestMean(t *testing.T) {
	tests := []struct {
		name         string
		total, count int64
		want         float64
	}{
		{"no ratings", 0, 0, 0},
		{"single", 4, 1, 4},
		{"four and two", 6, 2, 3.0},
		{"rounds down", 10, 3, 3.3},
		{"rounds half up", 29, 4, 7.3},
		{"two thirds", 14, 3, 4.7},
		{"all fives", 25, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mean(tt.total, tt.count); got != tt.want {
				t.Errorf("Mean(%d, %d) = %v, want %v", tt.total, tt.count, got, tt.want)
			}
		})
	}
}
