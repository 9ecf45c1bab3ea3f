package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/AnshRaj112/hubmatch-backend/internal/database"
	"github.com/AnshRaj112/hubmatch-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// CreateUser inserts a user with the given Telegram id and first name.
func (f *Fixtures) CreateUser(ctx context.Context, userID int64, firstName string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		FirstName: firstName,
		Username:  firstName + "_tg",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection(database.UsersCollection).InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateHub inserts a hub.
func (f *Fixtures) CreateHub(ctx context.Context, hubID int64, name string) models.Hub {
	f.t.Helper()

	now := time.Now().UTC()
	hub := models.Hub{
		ID:          primitive.NewObjectID(),
		HubID:       hubID,
		Name:        name,
		OwnerUserID: 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection(database.HubsCollection).InsertOne(ctx, hub); err != nil {
		f.t.Fatalf("failed to create test hub: %v", err)
	}
	return hub
}

// CreateMembership links a user to a hub with an explicit creation time.
func (f *Fixtures) CreateMembership(ctx context.Context, hubID, userID int64, createdAt time.Time) models.HubMembership {
	f.t.Helper()

	m := models.HubMembership{
		ID:        primitive.NewObjectID(),
		HubID:     hubID,
		UserID:    userID,
		CreatedAt: createdAt.UTC(),
	}
	if _, err := f.db.Collection(database.MembershipsCollection).InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateLike inserts the directed edge from → to.
func (f *Fixtures) CreateLike(ctx context.Context, from, to int64) {
	f.t.Helper()

	m := models.Match{
		ID:           primitive.NewObjectID(),
		FirstUserID:  from,
		SecondUserID: to,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := f.db.Collection(database.MatchesCollection).InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test like: %v", err)
	}
}
