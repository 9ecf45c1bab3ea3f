package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a document in the users collection. UserID is the Telegram id and
// the only identity a user has.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	UserID    int64  `bson:"user_id" json:"user_id"`
	FirstName string `bson:"first_name" json:"first_name"`
	LastName  string `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Username  string `bson:"username,omitempty" json:"username,omitempty"`

	// Profile fields
	About         string `bson:"about,omitempty" json:"about,omitempty"`
	Age           *int   `bson:"age,omitempty" json:"age,omitempty"`
	WorkingName   string `bson:"working_name,omitempty" json:"working_name,omitempty"`
	TelegramPhoto string `bson:"telegram_photo,omitempty" json:"telegram_photo,omitempty"`
}

// UserWithLikes is a hub co-member as seen by the requesting user.
type UserWithLikes struct {
	User     `bson:",inline"`
	Like     bool `bson:"like" json:"like"`
	LikesYou bool `bson:"likes_you" json:"likes_you"`
}

// ProfileUpdate holds the user-editable profile fields. Nil means "leave as is".
type ProfileUpdate struct {
	About *string
	Age   *int
	Name  *string
}
