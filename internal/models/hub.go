package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hub is a community users join through an invite code. Hubs are created
// out of band; this service only reads them.
type Hub struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	HubID       int64              `bson:"hub_id" json:"hub_id"`
	Name        string             `bson:"hub_nm" json:"hub_nm"`
	OwnerUserID int64              `bson:"owner_user_id,omitempty" json:"owner_user_id,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// HubMembership links a user to a hub (hub_x_user). Rows are append-only.
type HubMembership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	HubID     int64              `bson:"hub_id" json:"hub_id"`
	UserID    int64              `bson:"user_id" json:"user_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
