package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cultivation_monitor/internal/handlers"
	"cultivation_monitor/internal/logger"
	"cultivation_monitor/internal/repository"
	"cultivation_monitor/internal/server"
	"cultivation_monitor/internal/service"
	"cultivation_monitor/internal/store"

	"github.com/spf13/viper"
)

const (
	defaultAggregateTick = 30 * time.Second
	defaultForecastTick  = time.Hour
	defaultPollTick      = 15 * time.Second
)

// @title        Cultivation Monitor API
// @version      1.0
// @description  Zone health fusion, alerting, and inventory depletion forecasts for an indoor cultivation system.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// load config.yml first so the log level comes from it
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(viper.GetString("log_level"))

	cfg, err := service.LoadConfig()
	if err != nil {
		log.Fatalw("invalid configuration", "err", err)
	}

	// open DB for the audit trail and users
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// in-memory stores for the hot path
	zones := store.NewZoneStore(cfg.WindowCapacity)
	items := store.NewInventoryStore()
	items.Seed(cfg.Inventory.Resources, time.Now().UTC())

	// wire dependencies
	repos := repository.NewRepository(db)
	services := service.NewService(repos, zones, items, cfg, log)
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// periodic aggregation + forecasting
	go services.Scheduler.Run(ctx, tickOrDefault("scheduler.aggregate_interval", defaultAggregateTick), tickOrDefault("scheduler.forecast_interval", defaultForecastTick))

	// producers only run when a source is configured
	if cfg.Telemetry.Source == "simulated" {
		go services.Poller.Run(ctx, tickOrDefault("telemetry.poll_interval", defaultPollTick))
	} else {
		log.Infow("no telemetry source configured; push-only ingestion", "source", cfg.Telemetry.Source)
	}

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "cultivation.db")
		dbPath = "cultivation.db"
	}
	return repository.InitDB(dbPath)
}

func tickOrDefault(key string, fallback time.Duration) time.Duration {
	if d := viper.GetDuration(key); d > 0 {
		return d
	}
	return fallback
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop pollers and schedulers before the listener
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
