package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"matchmate/catalog"
	"matchmate/config"
	"matchmate/feed"
	"matchmate/middleware"
	"matchmate/notify"
	"matchmate/routes"
	"matchmate/services"
	"matchmate/store"
	"matchmate/utils"
	"matchmate/worker"
)

const (
	Version = "1.0.0"
	appName = "matchmate"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Match roster and invitation backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, live feeds and readiness worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setup(); err != nil {
				return err
			}
			return config.MigrateDB(config.DB)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

// setup loads configuration, configures logging and Sentry, and connects
// to the database.
func setup() error {
	if err := config.LoadConfig(); err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	utils.SetupLogger(config.AppConfig.LogLevel, config.AppConfig.Environment)

	if dsn := config.AppConfig.SentryDSN; dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         dsn,
			Environment: config.AppConfig.Environment,
			Release:     appName + "@" + Version,
		}); err != nil {
			logrus.WithError(err).Warn("Sentry disabled")
		}
	}

	if err := config.ConnectDB(); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	return nil
}

func serve() error {
	if err := setup(); err != nil {
		return err
	}
	defer sentry.Flush(2 * time.Second)

	if err := config.MigrateDB(config.DB); err != nil {
		return err
	}

	cat, err := catalog.Default()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Change feed and rate limit storage share one Redis client when enabled.
	var (
		broker       feed.Broker = feed.NewMemory()
		limitStorage fiber.Storage
	)
	if rdb := config.NewRedisClient(config.AppConfig.Redis); rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		broker = feed.NewRedis(rdb)
		limitStorage = middleware.NewRedisStorage(rdb)
		defer rdb.Close()
		logrus.WithField("address", config.AppConfig.Redis.Address).Info("Using Redis change feed")
	}
	defer broker.Close()

	repo := store.NewGormRepository(config.DB, broker)

	var matches *services.MatchService
	hub := notify.NewHub(func(ctx context.Context, matchID string) ([]string, error) {
		return matches.RosterOf(ctx, matchID)
	})
	notifiers := notify.Multi{hub, notify.NewLogNotifier()}
	if url := config.AppConfig.NATSURL; url != "" {
		nn, err := notify.DialNATS(url)
		if err != nil {
			return err
		}
		notifiers = append(notifiers, nn)
		logrus.WithField("url", url).Info("Publishing notifications to NATS")
	}
	defer notifiers.Close()

	readyWorker := worker.NewReadyWorker(repo, notifiers, config.AppConfig.ReadyPollInterval)
	matches = services.NewMatchService(repo, notifiers, cat, services.Options{
		Attempts:     config.AppConfig.OptimisticRetries,
		OnBecameFull: func(string) { readyWorker.Trigger() },
	})
	profiles := services.NewProfileService(repo, cat, config.AppConfig.OptimisticRetries)

	go readyWorker.Start(ctx)

	app := fiber.New(fiber.Config{AppName: appName})
	routes.SetupRoutes(app, routes.Deps{
		Repo:             repo,
		Matches:          matches,
		Profiles:         profiles,
		Catalog:          cat,
		Hub:              hub,
		RateLimitStorage: limitStorage,
		InviteLimit:      config.AppConfig.RateLimitInvites,
		CORSOrigins:      config.AppConfig.CORSOrigins,
	})

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("🚀 Server starting on port %s", config.AppConfig.ServerPort)
		errCh <- app.Listen(":" + config.AppConfig.ServerPort)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	logrus.Info("Shutting down...")
	return app.ShutdownWithTimeout(10 * time.Second)
}
