package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnshRaj112/hubmatch-backend/internal/database"
	"github.com/AnshRaj112/hubmatch-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetHub loads a hub by id.
func (s *Store) GetHub(ctx context.Context, hubID int64) (*models.Hub, error) {
	var h models.Hub
	if err := s.hubs.FindOne(ctx, bson.M{"hub_id": hubID}).Decode(&h); err != nil {
		return nil, notFound(err)
	}
	return &h, nil
}

// GetUserHub resolves the hub a request acts in. When hubID is given, the
// user is a member of it and the hub still exists, that hub wins. Otherwise
// the user's earliest membership (created_at, then _id) whose hub exists is
// used. ErrNotFound when no such hub is left.
func (s *Store) GetUserHub(ctx context.Context, userID int64, hubID *int64) (*models.Hub, error) {
	if hubID != nil {
		var m models.HubMembership
		err := s.memberships.FindOne(ctx, bson.M{"user_id": userID, "hub_id": *hubID}).Decode(&m)
		switch {
		case err == nil:
			hub, hubErr := s.GetHub(ctx, m.HubID)
			if !errors.Is(hubErr, ErrNotFound) {
				return hub, hubErr
			}
		case !errors.Is(err, mongo.ErrNoDocuments):
			return nil, err
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.memberships.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list memberships for user %d: %w", userID, err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var m models.HubMembership
		if err := cursor.Decode(&m); err != nil {
			return nil, err
		}
		hub, err := s.GetHub(ctx, m.HubID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return hub, err
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return nil, ErrNotFound
}

// joinHub creates the (hub, user) membership if the hub exists and the row is
// not there yet. Unknown hubs are ignored.
func (s *Store) joinHub(ctx context.Context, hubID, userID int64) error {
	if _, err := s.GetHub(ctx, hubID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	filter := bson.M{"hub_id": hubID, "user_id": userID}
	update := bson.M{"$setOnInsert": bson.M{"hub_id": hubID, "user_id": userID, "created_at": s.now()}}
	_, err := s.memberships.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil && !database.IsDuplicateKey(err) {
		return fmt.Errorf("join hub %d for user %d: %w", hubID, userID, err)
	}
	return nil
}
