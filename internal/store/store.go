// Package store is the MongoDB data-access layer for users, hubs, hub
// memberships and like edges.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/AnshRaj112/hubmatch-backend/internal/database"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	// ErrNotFound is returned when a user, hub or membership does not exist.
	ErrNotFound = errors.New("not found")
	// ErrSelfLike is returned when a user tries to like themselves.
	ErrSelfLike = errors.New("cannot like yourself")
)

type Store struct {
	db          *mongo.Database
	users       *mongo.Collection
	hubs        *mongo.Collection
	memberships *mongo.Collection
	matches     *mongo.Collection

	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{
		db:          db,
		users:       db.Collection(database.UsersCollection),
		hubs:        db.Collection(database.HubsCollection),
		memberships: db.Collection(database.MembershipsCollection),
		matches:     db.Collection(database.MatchesCollection),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Ping checks that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
