package database

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names shared by the store and the index bootstrap.
const (
	UsersCollection       = "users"
	HubsCollection        = "hubs"
	MembershipsCollection = "hub_x_user"
	MatchesCollection     = "matches"
)

// EnsureIndexes creates the indexes the store relies on. The unique ones
// enforce identity: one user per user_id, one membership per (hub, user),
// one like edge per (first, second). CreateMany is idempotent for identical
// definitions, so this runs on every startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetName("uniq_user_id").SetUnique(true),
			},
		},
		HubsCollection: {
			{
				Keys:    bson.D{{Key: "hub_id", Value: 1}},
				Options: options.Index().SetName("uniq_hub_id").SetUnique(true),
			},
		},
		MembershipsCollection: {
			{
				Keys:    bson.D{{Key: "hub_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().SetName("uniq_hub_user").SetUnique(true),
			},
			{
				// hub fallback: earliest membership of a user
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("idx_user_created"),
			},
		},
		MatchesCollection: {
			{
				Keys:    bson.D{{Key: "first_user_id", Value: 1}, {Key: "second_user_id", Value: 1}},
				Options: options.Index().SetName("uniq_first_second").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "second_user_id", Value: 1}},
				Options: options.Index().SetName("idx_second"),
			},
		},
	}

	var problems []string
	for _, name := range []string{UsersCollection, HubsCollection, MembershipsCollection, MatchesCollection} {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, specs[name]); err != nil {
			problems = append(problems, name+": "+err.Error())
			continue
		}
		logger.Debug("indexes ensured", zap.String("collection", name), zap.Int("count", len(specs[name])))
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// IsDuplicateKey reports whether err is a MongoDB duplicate key error (E11000).
func IsDuplicateKey(err error) bool {
	return err != nil && mongo.IsDuplicateKeyError(err)
}
