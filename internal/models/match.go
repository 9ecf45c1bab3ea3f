package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Match is a directed like edge: FirstUserID liked SecondUserID.
// Two reciprocal edges make a mutual match.
type Match struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	FirstUserID  int64              `bson:"first_user_id" json:"first_user_id"`
	SecondUserID int64              `bson:"second_user_id" json:"second_user_id"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// MatchEvent is pushed to both participants when a like completes a match.
type MatchEvent struct {
	Type        string    `json:"type"`
	UserID      int64     `json:"user_id"`
	MatchedWith int64     `json:"matched_with"`
	Timestamp   time.Time `json:"timestamp"`
}

const MatchEventTypeNew = "match"
