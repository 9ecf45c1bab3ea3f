package store

import (
	"context"
	"fmt"

	"github.com/AnshRaj112/hubmatch-backend/internal/database"
	"github.com/AnshRaj112/hubmatch-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ToggleLike removes the edge from → to if it exists and inserts it otherwise.
// It reports whether, after the toggle, both from → to and to → from exist.
//
// The delete/insert and the reverse lookup are separate operations; two
// concurrent toggles of the same pair may observe each other's intermediate
// state. The unique (first, second) index keeps the edge set free of
// duplicates.
func (s *Store) ToggleLike(ctx context.Context, from, to int64) (bool, error) {
	if from == to {
		return false, ErrSelfLike
	}
	if _, err := s.GetUser(ctx, to); err != nil {
		return false, err
	}

	edge := bson.M{"first_user_id": from, "second_user_id": to}
	res, err := s.matches.DeleteOne(ctx, edge)
	if err != nil {
		return false, fmt.Errorf("unlike %d -> %d: %w", from, to, err)
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	_, err = s.matches.InsertOne(ctx, models.Match{
		FirstUserID:  from,
		SecondUserID: to,
		CreatedAt:    s.now(),
	})
	if err != nil && !database.IsDuplicateKey(err) {
		return false, fmt.Errorf("like %d -> %d: %w", from, to, err)
	}

	return s.hasEdge(ctx, to, from)
}

func (s *Store) hasEdge(ctx context.Context, from, to int64) (bool, error) {
	n, err := s.matches.CountDocuments(ctx,
		bson.M{"first_user_id": from, "second_user_id": to},
		options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListOtherUsers returns every member of hubID except userID, each flagged
// with whether userID liked them (Like) and whether they liked userID
// (LikesYou). Results are sorted by user_id.
func (s *Store) ListOtherUsers(ctx context.Context, userID, hubID int64) ([]models.UserWithLikes, error) {
	edgeLookup := func(as string, first, second interface{}) bson.D {
		return bson.D{{Key: "$lookup", Value: bson.M{
			"from": database.MatchesCollection,
			"let":  bson.M{"other": "$user_id"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$first_user_id", first}},
					bson.M{"$eq": bson.A{"$second_user_id", second}},
				}}}},
				bson.M{"$limit": 1},
			},
			"as": as,
		}}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"hub_id": hubID, "user_id": bson.M{"$ne": userID}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.UsersCollection,
			"localField":   "user_id",
			"foreignField": "user_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: "$user"}},
		edgeLookup("liked", userID, "$$other"),
		edgeLookup("liked_by", "$$other", userID),
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": bson.M{"$mergeObjects": bson.A{
			"$user",
			bson.M{
				"like":      bson.M{"$gt": bson.A{bson.M{"$size": "$liked"}, 0}},
				"likes_you": bson.M{"$gt": bson.A{bson.M{"$size": "$liked_by"}, 0}},
			},
		}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "user_id", Value: 1}}}},
	}

	cur, err := s.memberships.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list users of hub %d: %w", hubID, err)
	}
	defer cur.Close(ctx)

	users := []models.UserWithLikes{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
