package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/AnshRaj112/hubmatch-backend/internal/database"
	"github.com/AnshRaj112/hubmatch-backend/internal/models"
	"github.com/AnshRaj112/hubmatch-backend/pkg/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetUser loads a user by Telegram id. Returns ErrNotFound when absent.
func (s *Store) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"user_id": userID}).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// UpsertUser records a successful Telegram login.
//
// Name and username are refreshed on every call, the photo only when the bot
// photo lookup succeeded. about and working_name are filled only while empty so
// that edits made through UpdateUser survive later logins. When the login
// carries a hub invite for an existing hub, the membership is created once.
func (s *Store) UpsertUser(ctx context.Context, tu models.TelegramUser, info models.BotInfoResult) (*models.User, error) {
	now := s.now()
	filter := bson.M{"user_id": tu.ID}

	set := bson.M{
		"first_name": tu.FirstName,
		"last_name":  tu.LastName,
		"username":   tu.Username,
		"updated_at": now,
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"user_id": tu.ID, "created_at": now},
	}
	if info.Enriched && info.PhotoKnown {
		if info.Info.Photo != "" {
			set["telegram_photo"] = info.Info.Photo
		} else {
			update["$unset"] = bson.M{"telegram_photo": ""}
		}
	}

	_, err := s.users.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if database.IsDuplicateKey(err) {
		// a concurrent first login inserted the row; apply as a plain update
		_, err = s.users.UpdateOne(ctx, filter, update)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert user %d: %w", tu.ID, err)
	}

	if info.Enriched {
		if about := utils.SanitizeText(info.Info.About, utils.MaxAboutLength); about != "" {
			if err := s.fillIfEmpty(ctx, tu.ID, "about", about); err != nil {
				return nil, err
			}
		}
	}
	if name := utils.SanitizeText(tu.FirstName, utils.MaxNameLength); name != "" {
		if err := s.fillIfEmpty(ctx, tu.ID, "working_name", name); err != nil {
			return nil, err
		}
	}

	if tu.StartParam != nil {
		if err := s.joinHub(ctx, *tu.StartParam, tu.ID); err != nil {
			return nil, err
		}
	}

	return s.GetUser(ctx, tu.ID)
}

// fillIfEmpty sets field only when it is missing, null or "". The filter makes
// the check and the write a single atomic document update.
func (s *Store) fillIfEmpty(ctx context.Context, userID int64, field, value string) error {
	filter := bson.M{
		"user_id": userID,
		"$or":     bson.A{bson.M{field: nil}, bson.M{field: ""}},
	}
	if _, err := s.users.UpdateOne(ctx, filter, bson.M{"$set": bson.M{field: value}}); err != nil {
		return fmt.Errorf("fill %s for user %d: %w", field, userID, err)
	}
	return nil
}

// UpdateUser applies a profile edit. Text is sanitized and capped before it is
// stored; updated_at is always refreshed.
func (s *Store) UpdateUser(ctx context.Context, userID int64, upd models.ProfileUpdate) (*models.User, error) {
	set := bson.M{"updated_at": s.now()}

	if upd.About != nil {
		set["about"] = utils.SanitizeText(*upd.About, utils.MaxAboutLength)
	}
	if upd.Name != nil {
		name := utils.SanitizeText(*upd.Name, utils.MaxNameLength)
		if strings.TrimSpace(name) == "" {
			return nil, &utils.ValidationError{Field: "name", Message: "Name must not be empty"}
		}
		set["working_name"] = name
	}
	if upd.Age != nil {
		if err := utils.ValidateAge(*upd.Age); err != nil {
			return nil, err
		}
		set["age"] = *upd.Age
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	if err := s.users.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, bson.M{"$set": set}, opts).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}
