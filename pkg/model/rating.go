package model

import "time"

type RatingTarget string

const (
	RatingTargetService  RatingTarget = "service"
	RatingTargetProvider RatingTarget = "provider"
)

func (t RatingTarget) Valid() bool {
	return t == RatingTargetService || t == RatingTargetProvider
}

// Rating is a single score left by a rater on a target. For service ratings
// the rater is a user id; for provider ratings it is the rater's profile id.
type Rating struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty"`
	TargetID       string    `json:"target_id" bson:"target_id"`
	RaterID        string    `json:"rater_id" bson:"rater_id"`
	Score          int       `json:"score" bson:"score"`
	Comment        string    `json:"comment,omitempty" bson:"comment,omitempty"`
	LikedByUserIDs []string  `json:"liked_by_user_ids" bson:"liked_by_user_ids"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

type RatingRequest struct {
	TargetID string `json:"target_id" validate:"required,mongodb"`
	Score    int    `json:"score" validate:"required,min=1,max=5"`
	Comment  string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

type RatingUpdate struct {
	Score   *int    `json:"score,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

func (u *RatingUpdate) Empty() bool {
	return u.Score == nil && u.Comment == nil
}

// Aggregate is the result of recomputing a target's rating.
type Aggregate struct {
	Target   RatingTarget `json:"target"`
	TargetID string       `json:"target_id"`
	Count    int64        `json:"count"`
	Rating   float64      `json:"rating"`
	Previous float64      `json:"previous"`
}

func (a Aggregate) Drifted() bool {
	return a.Rating != a.Previous
}
