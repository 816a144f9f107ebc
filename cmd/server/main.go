package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/takaki719/emoguchi/internal/config"
	"github.com/takaki719/emoguchi/internal/modules/game/domain"
	gamedb "github.com/takaki719/emoguchi/internal/modules/game/repository/db"
	gamememory "github.com/takaki719/emoguchi/internal/modules/game/repository/memory"
	gameredis "github.com/takaki719/emoguchi/internal/modules/game/repository/redis"
	gameusecase "github.com/takaki719/emoguchi/internal/modules/game/usecase"
	gatewayhttp "github.com/takaki719/emoguchi/internal/modules/gateway/adapter/http"
	"github.com/takaki719/emoguchi/internal/modules/gateway/ws"
	solohttp "github.com/takaki719/emoguchi/internal/modules/solo/adapter/http"
	solousecase "github.com/takaki719/emoguchi/internal/modules/solo/usecase"
	"github.com/takaki719/emoguchi/internal/services/classifier"
	"github.com/takaki719/emoguchi/internal/services/phrase"
	"github.com/takaki719/emoguchi/internal/services/storage"
	"github.com/takaki719/emoguchi/internal/services/voice"
	"github.com/takaki719/emoguchi/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.InitWithFile(cfg.LogFile, cfg.LogLevel, cfg.LogFormat)
	defer logger.Flush()

	ctx := context.Background()
	logger.Info(ctx).Str("state_store", cfg.StateStore).Msg("🚀 starting emoguchi server")

	// State store
	var store domain.StateStore
	switch cfg.StateStore {
	case "postgres":
		gdb, err := gamedb.Open(cfg.Postgres)
		if err != nil {
			logger.Fatal(ctx).Err(err).Msg("failed to open postgres store")
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			logger.Fatal(ctx).Err(err).Msg("failed to get database handle")
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
		defer sqlDB.Close()
		store = gamedb.NewStateStore(gdb)
		logger.Info(ctx).Msg("✅ postgres store ready")

	case "redis":
		rdb, err := gameredis.Open(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal(ctx).Err(err).Msg("failed to connect redis")
		}
		defer rdb.Close()
		store = gameredis.NewStateStore(rdb)
		logger.Info(ctx).Msg("✅ redis store ready")

	default:
		store = gamememory.NewStateStore()
		logger.Info(ctx).Msg("✅ in-memory store ready")
	}

	// Blob storage
	var blobs domain.BlobStorage
	if cfg.StorageType == "s3" {
		s3Store, err := storage.NewS3(ctx, cfg)
		if err != nil {
			logger.Fatal(ctx).Err(err).Msg("failed to init s3 storage")
		}
		blobs = s3Store
		logger.Info(ctx).Str("bucket", cfg.S3Bucket).Msg("✅ s3 storage ready")
	} else {
		localStore, err := storage.NewLocal(cfg.StorageDir)
		if err != nil {
			logger.Fatal(ctx).Err(err).Msg("failed to init local storage")
		}
		blobs = localStore
		logger.Info(ctx).Str("dir", cfg.StorageDir).Msg("✅ local storage ready")
	}

	phrases := phrase.NewGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	voices := voice.NewTransformer()
	grader := classifier.NewClient(cfg.InferenceAPIURL)

	// Gateway
	wsManager := ws.NewManager()

	gameUC := gameusecase.NewGameUseCase(store, phrases, voices, blobs, wsManager)
	soloUC := solousecase.NewSoloUseCase(store, phrases, blobs, grader)

	wsManager.OnDisconnect(func(roomID, playerID string) {
		dctx := logger.WithRequestID(context.Background(), logger.GenerateRequestID())
		if err := gameUC.Disconnect(dctx, roomID, playerID); err != nil {
			logger.Error(dctx).Err(err).Str("room_id", roomID).Str("player_id", playerID).Msg("disconnect handling failed")
		}
	})
	go wsManager.Run()

	createLimit := rate.NewLimiter(rate.Limit(cfg.RoomCreateRPS), cfg.RoomCreateBurst)
	gatewayHandler := gatewayhttp.NewHandler(gameUC, wsManager, createLimit)
	soloHandler := solohttp.NewHandler(soloUC)

	// HTTP server
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	gatewayHandler.RegisterRoutes(router)
	soloHandler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info(ctx).Str("port", cfg.Port).Msg("🎭 emoguchi listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx).Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown: stop accepting requests first, then drop the
	// websockets.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx).Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx).Err(err).Msg("http server forced to shutdown")
	}

	wsManager.Shutdown()
	logger.Info(ctx).Msg("server exited")
}
