package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"squad-arena/internal"
	"squad-arena/internal/game"
	"squad-arena/internal/store"
)

func main() {
	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := internal.NewLogger(cfg.LogMode)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	if cfg.LogMode != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	var db *store.Store
	if cfg.DatabaseURL != "" {
		db, err = store.OpenPostgres(ctx, cfg.DatabaseURL)
	} else {
		logger.Warn("DATABASE_URL not set, using sqlite", zap.String("path", cfg.DBPath))
		db, err = store.OpenSQLite(ctx, cfg.DBPath)
	}
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	catalog, err := store.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		logger.Fatal("load catalog", zap.Error(err))
	}
	if n, err := db.SeedCatalog(ctx, catalog); err != nil {
		logger.Fatal("seed catalog", zap.Error(err))
	} else if n > 0 {
		logger.Info("catalog seeded", zap.Int("players", n))
	}

	sessions, closeSessions, err := internal.NewAdminSessions(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal("admin sessions", zap.Error(err))
	}
	defer closeSessions()

	app := &internal.App{
		Store:        db,
		Rules:        cfg.Rules(),
		Rand:         game.Shared(),
		Log:          logger,
		Metrics:      internal.NewMetrics(),
		Sessions:     sessions,
		Secret:       cfg.JWTSecret,
		TokenTTL:     cfg.TokenTTL,
		AdminID:      cfg.AdminID,
		AdminPW:      cfg.AdminPW,
		CookieSecure: cfg.CookieSecure,
		LobbyWindow:  cfg.LobbyWindow,
	}

	r := internal.NewRouter(app)

	logger.Info("listening", zap.String("port", cfg.Port), zap.String("db", string(db.Dialect())))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
