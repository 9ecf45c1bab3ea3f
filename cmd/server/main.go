package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AnshRaj112/hubmatch-backend/internal/config"
	"github.com/AnshRaj112/hubmatch-backend/internal/database"
	"github.com/AnshRaj112/hubmatch-backend/internal/handlers"
	"github.com/AnshRaj112/hubmatch-backend/internal/middleware"
	"github.com/AnshRaj112/hubmatch-backend/internal/routes"
	"github.com/AnshRaj112/hubmatch-backend/internal/services"
	"github.com/AnshRaj112/hubmatch-backend/internal/store"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// MongoDB
	mongoClient, db, err := database.Connect(cfg.MongoURI, cfg.DatabaseName, logger)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer database.Disconnect(mongoClient)

	idxCtx, idxCancel := context.WithTimeout(ctx, 30*time.Second)
	err = database.EnsureIndexes(idxCtx, db, logger)
	idxCancel()
	if err != nil {
		logger.Fatal("failed to ensure MongoDB indexes", zap.Error(err))
	}
	logger.Info("✅ MongoDB indexes ensured")

	// Redis is optional: without it match events stay on this instance and
	// the development rate limiter is off.
	rdb, err := database.ConnectRedis(cfg.RedisURI, logger)
	if err != nil {
		logger.Warn("⚠️  Redis unavailable, continuing without it", zap.String("uri", database.MaskURI(cfg.RedisURI)), zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// Photo storage
	var photos services.PhotoStorage
	switch cfg.StorageType {
	case "cloudinary":
		cs, err := services.NewCloudinaryPhotoStorage(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			logger.Fatal("failed to initialize Cloudinary", zap.Error(err))
		}
		photos = cs
		logger.Info("✅ Cloudinary photo storage initialized", zap.String("folder", cfg.CloudinaryFolder))
	default:
		ls, err := services.NewLocalPhotoStorage(cfg.PhotoDir)
		if err != nil {
			logger.Fatal("failed to initialize photo storage", zap.Error(err))
		}
		photos = ls

		sweeper, err := services.StartMaintenance(cfg.PhotoSweepSchedule, ls, logger)
		if err != nil {
			logger.Fatal("failed to schedule maintenance", zap.Error(err))
		}
		defer sweeper.Stop()
		logger.Info("✅ Local photo storage initialized", zap.String("dir", cfg.PhotoDir))
	}

	// Telegram bot
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, &http.Client{Timeout: 15 * time.Second})
	if err != nil {
		logger.Fatal("failed to initialize Telegram bot", zap.Error(err))
	}
	logger.Info("✅ Telegram bot authorized", zap.String("bot", bot.Self.UserName))

	tokens, err := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL)
	if err != nil {
		logger.Fatal("failed to create token issuer", zap.Error(err))
	}

	st := store.New(db)
	matches := services.NewMatchHub(rdb, logger)
	matches.Start(ctx)

	h := &handlers.Handler{
		Store:          st,
		Bot:            services.NewBotInfoFetcher(bot, photos, nil, logger),
		Tokens:         tokens,
		Photos:         photos,
		Matches:        matches,
		Log:            logger,
		BotToken:       cfg.BotToken,
		InitDataMaxAge: cfg.TelegramAuthAge,
		StaticPrefix:   cfg.StaticPrefix,
	}

	// Setup router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger, cfg.TrustProxy))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	opts := routes.Options{
		Auth:      &middleware.Auth{Tokens: tokens, Users: st, Logger: logger},
		LikeLimit: middleware.UserRateLimit(middleware.NewKeyedLimiter(ctx, 200*time.Millisecond, 20), "Too many likes. Please slow down."),
	}

	// Production: SecurityHeaders → HostCheck → per-IP limit, stricter on /auth
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.HostCheck(cfg.AllowedHost))
		r.Use(middleware.IPRateLimit(middleware.NewKeyedLimiter(ctx, time.Second, 10), cfg.TrustProxy, "Too many requests. Please slow down."))
		opts.AuthLimit = middleware.IPRateLimit(middleware.NewKeyedLimiter(ctx, 5*time.Second, 3), cfg.TrustProxy, "Too many login attempts. Please try again later.")
		logger.Info("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else if rdb != nil {
		r.Use(middleware.NewRedisRateLimiter(rdb, cfg.TrustProxy, logger).Middleware)
	}

	routes.SetupRoutes(r, h, opts)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("🚀 Hub match backend running", zap.String("addr", srv.Addr), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
