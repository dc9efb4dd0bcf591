package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pdf-toolbox-bot/internal/bootstrap"
	"pdf-toolbox-bot/internal/config"
	"pdf-toolbox-bot/internal/server"
	"pdf-toolbox-bot/internal/tracer"
	"pdf-toolbox-bot/pkg/database"

	"github.com/fatih/color"
	"github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	// 0. Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		color.Red("Invalid configuration:\n%v", err)
		os.Exit(1)
	}

	// 2. Database (optional)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction(), database.DefaultPool())
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	} else {
		color.Yellow("DB_CONNECTION_STRING is not set: subscribers, languages and stats are kept in memory")
	}

	// 3. Dependencies
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Fatalf("Failed to bootstrap: %v", err)
	}
	defer container.Close()
	defer func() { _ = container.Logger.Sync() }()

	srv := server.New(cfg, container)

	color.Cyan("🤖 PDF Toolbox Bot")
	color.Green("mode=%s env=%s temp=%s", cfg.Bot.Mode, cfg.App.Environment, cfg.Files.TempDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Background work
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		container.WebSocketHub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		if err := container.ConsumerService.Consume(gctx); err != nil {
			return err
		}
		container.ConsumerService.Wait()
		return nil
	})

	g.Go(func() error {
		if err := container.StatsService.Start(gctx); err != nil {
			container.Logger.Warn("StatsService", "Event consumer not started", map[string]interface{}{"error": err.Error()})
		}
		return nil
	})

	g.Go(func() error {
		container.Workspace.RunSweeper(gctx, cfg.Files.SweepInterval, cfg.Files.TempMaxAge, func(removed int, err error) {
			if err != nil {
				container.Logger.Warn("Sweeper", "Temp sweep failed", map[string]interface{}{"error": err.Error()})
				return
			}
			if removed > 0 {
				container.Logger.Info("Sweeper", "Removed stale temp files", map[string]interface{}{"removed": removed})
			}
		})
		return nil
	})

	// 5. HTTP server: health, admin API and the webhook endpoint
	g.Go(func() error {
		return srv.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown()
	})

	// 6. Telegram updates
	g.Go(func() error {
		return runBot(gctx, container.Bot, cfg)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Stopped with error: %v", err)
	}
	container.Dispatcher.Wait()
	color.Yellow("Shutdown complete")
}

func runBot(ctx context.Context, b *bot.Bot, cfg *config.Config) error {
	defer func() {
		// The parent context is gone by now.
		cleanup, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if cfg.Bot.Mode == config.ModeWebhook {
			if _, err := b.DeleteWebhook(cleanup, &bot.DeleteWebhookParams{}); err != nil {
				log.Printf("Failed to delete webhook: %v", err)
			}
		}
	}()

	if cfg.Bot.Mode == config.ModeWebhook {
		if _, err := b.SetWebhook(ctx, &bot.SetWebhookParams{
			URL:         cfg.Bot.WebhookURL,
			SecretToken: cfg.Bot.WebhookSecret,
		}); err != nil {
			return err
		}
		log.Printf("✅ Webhook set to %s", cfg.Bot.WebhookURL)
		b.StartWebhook(ctx)
		return nil
	}

	if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{}); err != nil {
		log.Printf("Failed to clear webhook before polling: %v", err)
	}
	log.Println("✅ Polling for updates")
	b.Start(ctx)
	return nil
}
