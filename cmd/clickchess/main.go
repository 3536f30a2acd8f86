package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/Cheese-ClickChess/internal/adapter/chesspresenter"
	"github.com/park285/Cheese-ClickChess/internal/archive"
	appcfg "github.com/park285/Cheese-ClickChess/internal/config"
	"github.com/park285/Cheese-ClickChess/internal/msgcat"
	"github.com/park285/Cheese-ClickChess/internal/obslog"
	"github.com/park285/Cheese-ClickChess/internal/relay"
	"github.com/park285/Cheese-ClickChess/internal/render"
	"github.com/park285/Cheese-ClickChess/internal/session"
	"github.com/park285/Cheese-ClickChess/internal/store"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		logger.Fatal("catalog_init_failed", zap.Error(err))
	}

	if cfg.PiecesDir != "" {
		n, err := render.LoadPieceSet(cfg.PiecesDir)
		if err != nil {
			logger.Fatal("piece_set_load_failed", zap.String("dir", cfg.PiecesDir), zap.Error(err))
		}
		logger.Info("piece_set_loaded", zap.String("dir", cfg.PiecesDir), zap.Int("pieces", n))
	}
	if err := render.Preload(cfg.BoardSquareSize); err != nil {
		logger.Fatal("piece_preload_failed", zap.Error(err))
	}

	gameStore, closeStore := openStore(cfg, logger)
	defer closeStore()
	repo, closeRepo := openArchive(cfg, logger)
	defer closeRepo()

	svc, err := session.NewService(gameStore, repo, render.NewPNGRenderer(), catalog, session.Config{
		SquareSize:   cfg.BoardSquareSize,
		HistoryLimit: cfg.HistoryLimit,
		AllowedRooms: cfg.AllowedRooms,
	}, logger.Named("session"))
	if err != nil {
		logger.Fatal("service_init_failed", zap.Error(err))
	}
	rctx, rcancel := context.WithTimeout(context.Background(), 10*time.Second)
	restored, err := svc.Restore(rctx)
	rcancel()
	if err != nil {
		logger.Warn("game_restore_failed", zap.Error(err))
	}
	logger.Info("games_restored", zap.Int("rooms", restored))

	headers := func() map[string]string {
		h := map[string]string{}
		if cfg.XUserID != "" {
			h["X-User-Id"] = cfg.XUserID
		}
		if cfg.XSessionID != "" {
			h["X-Session-Id"] = cfg.XSessionID
		}
		return h
	}
	client := relay.NewClient(cfg.RelayBaseURL, relay.WithHeaderProvider(headers))
	ws := relay.NewWebSocket(cfg.RelayWSURL, 5, time.Second)
	ws.SetHeaderProvider(headers)
	ws.SetLogger(logger.Named("relay"))
	egress := relay.NewEgress(cfg.RelayEgress, cfg.RelayDryRun, client, ws, logger.Named("egress"))

	h := &handler{
		svc:       svc,
		presenter: chesspresenter.NewPresenter(egress),
		formatter: chesspresenter.NewFormatter(catalog, cfg.BotPrefix),
		allowed:   cfg.RoomAllowed,
		logger:    logger.Named("bot"),
		timeout:   15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	logger.Info("clickchess_started",
		zap.String("egress", cfg.RelayEgress),
		zap.Bool("dryrun", cfg.RelayDryRun),
		zap.Strings("allowed_rooms", cfg.AllowedRooms),
		zap.Int("square_size", cfg.BoardSquareSize),
	)
	if err := serve(ctx, ws, h); err != nil {
		logger.Error("relay_ws_failed", zap.String("url", cfg.RelayWSURL), zap.Error(err))
		return
	}
	logger.Info("clickchess_stopped")
}

func openStore(cfg *appcfg.AppConfig, logger *zap.Logger) (store.Store, func()) {
	if cfg.RedisURL == "" {
		logger.Warn("redis_disabled", zap.String("reason", "REDIS_URL not set; games are kept in memory"))
		return store.NewMemoryStore(), func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rs, err := store.Dial(ctx, cfg.RedisURL, time.Duration(cfg.GameTTLSec)*time.Second)
	if err != nil {
		logger.Fatal("redis_connect_failed", zap.Error(err))
	}
	return rs, func() { _ = rs.Close() }
}

func openArchive(cfg *appcfg.AppConfig, logger *zap.Logger) (archive.Repository, func()) {
	if cfg.DatabaseURL == "" {
		logger.Warn("archive_in_memory", zap.String("reason", "DATABASE_URL not set"))
		return archive.NewMemoryRepository(), func() {}
	}
	db, err := archive.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("postgres_connect_failed", zap.Error(err))
	}
	return archive.NewRepository(db), func() { _ = db.Close() }
}
