package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amaumene/browsefilms/internal/api"
	"github.com/amaumene/browsefilms/internal/catalog"
	"github.com/amaumene/browsefilms/internal/config"
	"github.com/amaumene/browsefilms/internal/controllers"
	"github.com/amaumene/browsefilms/internal/metrics"
	"github.com/amaumene/browsefilms/internal/scheduler"
	"github.com/amaumene/browsefilms/internal/services/tmdb"
	"github.com/amaumene/browsefilms/internal/session"
	"github.com/amaumene/browsefilms/internal/utils"
	"github.com/amaumene/browsefilms/internal/views"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

var rootCmd = &cobra.Command{
	Use:   "browsefilms",
	Short: "Server-rendered movie browser backed by TMDB",
	Long: `browsefilms serves themed movie categories, movie details and a
per-session wishlist, fetching catalogue data from The Movie Database.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.String("port", "", "HTTP port (overrides SERVER_PORT)")
	flags.String("log-level", "", "log level (overrides LOG_LEVEL)")
	flags.String("config-dir", "", "directory holding categories.yaml (overrides CONFIG_DIR)")

	_ = viper.BindPFlag("SERVER_PORT", flags.Lookup("port"))
	_ = viper.BindPFlag("LOG_LEVEL", flags.Lookup("log-level"))
	_ = viper.BindPFlag("CONFIG_DIR", flags.Lookup("config-dir"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewFileLogger(cfg.LogLevel, cfg.LogFile)
	logger.Info("Starting browsefilms")
	logger.WithField("config_dir", cfg.ConfigDir).Info("Configuration loaded")

	if viper.ConfigFileUsed() != "" {
		viper.OnConfigChange(func(e fsnotify.Event) {
			utils.SetLevel(logger, viper.GetString("LOG_LEVEL"))
			logger.WithFields(logrus.Fields{
				"file":  e.Name,
				"level": logger.GetLevel().String(),
			}).Info("Configuration reloaded")
		})
		viper.WatchConfig()
	}

	// 3. Tracing and metrics
	tp := utils.NewTracerProvider(logger, cfg.TracingEnabled)
	otel.SetTracerProvider(tp)
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Warn("Failed to shut down tracer provider")
		}
	}()
	m := metrics.New()

	// 4. Load categories
	categories, err := catalog.Load(cfg.CategoriesFile)
	if err != nil {
		logger.WithError(err).Warn("Failed to load categories, using defaults")
		categories = catalog.Default()
	}
	logger.WithField("count", categories.Len()).Info("Categories loaded")

	// 5. Initialize services
	tmdbClient, err := tmdb.NewClient(cfg, logger,
		tmdb.WithTracerProvider(tp),
		tmdb.WithMetrics(m),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize TMDB client: %w", err)
	}
	logger.Info("TMDB client initialized")

	sessions := session.NewRegistry(cfg.SessionTTL, logger)

	// 6. Initialize controllers and views
	browseCtrl := controllers.NewBrowseController(tmdbClient, categories, cfg.CategoryConcurrency, logger)
	wishlistCtrl := controllers.NewWishlistController(m, logger)
	renderer, err := views.NewRenderer(cfg.TMDBImageBaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	logger.Info("Controllers initialized")

	// 7. Initialize scheduler
	sched := scheduler.NewScheduler(sessions, m, cfg.SessionSweepCron, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 8. Initialize HTTP server
	server := api.NewServer(cfg, browseCtrl, wishlistCtrl, renderer, sessions, m, logger)

	// Start server in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start returns once the server fails or has shut down after ctx is cancelled
	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.Start(ctx)
	}()

	// 9. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("browsefilms is running")

	select {
	case err := <-serverErrChan:
		return err
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := <-serverErrChan; err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("browsefilms stopped")
	return nil
}
