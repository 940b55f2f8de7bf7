package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/auradash/aura-metals-backend/internal/api"
	"github.com/auradash/aura-metals-backend/internal/config"
	"github.com/auradash/aura-metals-backend/internal/feed"
	"github.com/auradash/aura-metals-backend/internal/httputil"
	"github.com/auradash/aura-metals-backend/internal/notifications"
	"github.com/auradash/aura-metals-backend/internal/poller"
	"github.com/auradash/aura-metals-backend/internal/store"
)

const banner = `
╔══════════════════════════════════════╗
║     Aura Metals Price Backend        ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	// Optional Redis snapshot cache; warn and continue without it.
	var cache *feed.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("redis connection failed, continuing without cache")
			_ = rdb.Close()
		} else {
			cache = feed.NewCache(rdb, cfg.RefreshInterval())
			defer rdb.Close()
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis connected")
		}
	}

	client := feed.NewClient(feed.Options{
		GoldURL:   cfg.GoldFeedURL,
		SilverURL: cfg.SilverFeedURL,
		Timeout:   cfg.FeedTimeout(),
		Retry: httputil.RetryConfig{
			MaxAttempts: cfg.RetryMaxAttempts,
			BaseDelay:   time.Duration(cfg.RetryBaseDelayMS) * time.Millisecond,
			MaxDelay:    time.Duration(cfg.RetryMaxDelayMS) * time.Millisecond,
		},
	})

	notify := notifications.NewSender(cfg.WebhookURL, cfg.AppName)
	snapshots := store.New()

	p := poller.New(client, snapshots, cache, notify, poller.Config{
		Interval:     cfg.RefreshInterval(),
		FetchTimeout: cfg.FeedTimeout() * 3,
	})

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p.Start()
	defer p.Stop()

	srv := api.NewServer(snapshots, p, client.SourceURL, cfg.Port, cfg.APIKey, cfg.CORSAllowOrigin)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("API server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
}
