package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/AnshRaj112/hubmatch-backend/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// BotAPI is the part of the Telegram Bot API the fetcher needs.
// *tgbotapi.BotAPI satisfies it.
type BotAPI interface {
	GetChat(config tgbotapi.ChatInfoConfig) (tgbotapi.Chat, error)
	GetUserProfilePhotos(config tgbotapi.UserProfilePhotosConfig) (tgbotapi.UserProfilePhotos, error)
	GetFileDirectURL(fileID string) (string, error)
}

// BotInfoFetcher enriches a Telegram identity with the bio and profile photo
// the bot can see.
type BotInfoFetcher struct {
	bot    BotAPI
	photos PhotoStorage
	client *http.Client
	logger *zap.Logger
}

func NewBotInfoFetcher(bot BotAPI, photos PhotoStorage, client *http.Client, logger *zap.Logger) *BotInfoFetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &BotInfoFetcher{bot: bot, photos: photos, client: client, logger: logger}
}

// LoadUserInfo never fails: when the chat lookup fails the result is marked
// as not enriched and carries the reason. A failed photo lookup leaves
// PhotoKnown unset. Photo download problems only cost the photo file, the
// reference is still returned.
func (f *BotInfoFetcher) LoadUserInfo(ctx context.Context, userID int64) models.BotInfoResult {
	chat, err := f.bot.GetChat(tgbotapi.ChatInfoConfig{ChatConfig: tgbotapi.ChatConfig{ChatID: userID}})
	if err != nil {
		f.logger.Warn("bot chat lookup failed", zap.Int64("user_id", userID), zap.Error(err))
		return models.BotInfoResult{Reason: "chat lookup failed: " + err.Error()}
	}

	result := models.BotInfoResult{Enriched: true, Info: models.BotInfo{About: chat.Bio}}

	photos, err := f.bot.GetUserProfilePhotos(tgbotapi.UserProfilePhotosConfig{UserID: userID, Limit: 1})
	if err != nil {
		f.logger.Warn("bot profile photos lookup failed", zap.Int64("user_id", userID), zap.Error(err))
		return result
	}
	result.PhotoKnown = true
	if len(photos.Photos) == 0 || len(photos.Photos[0]) == 0 {
		return result
	}

	ref := strconv.FormatInt(userID, 10)
	result.Info.Photo = ref

	if err := f.storePhoto(ctx, largest(photos.Photos[0]), PhotoFileName(ref)); err != nil {
		f.logger.Warn("profile photo not stored", zap.Int64("user_id", userID), zap.Error(err))
	}
	return result
}

func largest(sizes []tgbotapi.PhotoSize) tgbotapi.PhotoSize {
	best := sizes[0]
	for _, s := range sizes[1:] {
		if s.Width*s.Height > best.Width*best.Height {
			best = s
		}
	}
	return best
}

// storePhoto downloads the photo unless a file with that name is already kept.
func (f *BotInfoFetcher) storePhoto(ctx context.Context, size tgbotapi.PhotoSize, name string) error {
	exists, err := f.photos.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	fileURL, err := f.bot.GetFileDirectURL(size.FileID)
	if err != nil {
		return fmt.Errorf("resolve file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download photo: unexpected status %d", resp.StatusCode)
	}
	return f.photos.Save(ctx, name, resp.Body)
}
