package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/binword/assets"
	"github.com/robalobadob/binword/internal/config"
	"github.com/robalobadob/binword/internal/game"
	"github.com/robalobadob/binword/internal/history"
	"github.com/robalobadob/binword/internal/httpserver"
	"github.com/robalobadob/binword/internal/metrics"
	"github.com/robalobadob/binword/internal/store"
	"github.com/robalobadob/binword/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadOptional(getEnv("CONFIG_FILE", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		log.Fatal().Err(err).Msg("invalid environment")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	table, err := cfg.WordTable()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}
	engine, err := game.NewEngine(game.Config{
		MaxRounds:         cfg.Game.MaxRounds,
		DefaultDifficulty: words.Tier(cfg.Game.DefaultDifficulty),
		Table:             table,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build engine")
	}
	log.Info().Interface("pools", table.Stats()).Int("max_rounds", engine.MaxRounds()).Msg("word table loaded")

	sessions := openSessionStore(cfg)

	db := openHistory(cfg.Database.Path)
	defer db.Close()

	srv := httpserver.New(httpserver.Options{
		Engine:        engine,
		Store:         sessions,
		History:       history.NewStore(db),
		Metrics:       metrics.NewMetrics("binword", nil),
		Secret:        cfg.Session.Secret,
		CookieName:    cfg.Session.CookieName,
		CookieTTL:     cfg.Session.TTL(),
		SecureCookies: cfg.Session.Secure,
		ClientOrigin:  cfg.Server.ClientOrigin,
		Timeout:       cfg.Server.TimeoutDuration(),
	})

	addr := cfg.Server.Addr()
	log.Info().Str("addr", addr).Str("store", cfg.Store.Driver).Msg("starting binword server")
	if err := srv.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func openSessionStore(cfg *config.Config) store.Store {
	if cfg.Store.Driver != config.DriverRedis {
		return store.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Store.Redis.Addr,
		Password: cfg.Store.Redis.Password,
		DB:       cfg.Store.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Store.Redis.Addr).Msg("redis unreachable")
	}
	return store.NewRedisStore(client, cfg.Session.TTL())
}

func openHistory(path string) *sql.DB {
	db, err := history.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to open history db")
	}
	migrations, err := assets.Migrations()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read migrations")
	}
	if err := history.Migrate(db, migrations); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate history db")
	}
	return db
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
