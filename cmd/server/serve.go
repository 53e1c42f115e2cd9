package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"domain-portfolio/internal/api"
	"domain-portfolio/internal/config"
	"domain-portfolio/internal/database"
	"domain-portfolio/internal/fixtures"
	"domain-portfolio/internal/logging"
	"domain-portfolio/internal/scheduler"
	"domain-portfolio/internal/services"
	"domain-portfolio/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "run the HTTP API",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to the YAML config file",
				Aliases: []string{"c"},
				EnvVars: []string{"CONFIG_PATH"},
				Value:   "config/config.yaml",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log Level, overrides log.level",
				Aliases: []string{"l"},
			},
			&cli.BoolFlag{
				Name:  "log-caller",
				Usage: "log the caller (aka line number and file)",
			},
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port for the HTTP server, overrides server.port",
			},
		},
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.String("port")
	}
	if err := logging.Setup(cfg.Log, c.Bool("log-caller")); err != nil {
		return err
	}

	log := logrus.WithField("command", "serve")

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()
		log.Infof("Database initialized at %s", cfg.Database.Path)
	}

	seed, err := loadSeed(ctx, cfg, db, log)
	if err != nil {
		return err
	}

	// Initialize stores and services
	var passwords store.PasswordBackend
	if cfg.Auth.InitialPassword != "" {
		ps, err := services.NewPasswordService(cfg.Auth.InitialPassword, 0)
		if err != nil {
			return err
		}
		passwords = ps
	} else {
		log.Warn("No initial password configured, password changes are not verified")
	}

	exporters := []store.InvoiceExporter{services.NewLogInvoiceExporter()}
	if db != nil {
		exporters = append(exporters, db)
	}

	domains := store.NewDomainStore(seed.Domains, seed.History, seed.MXRecords)
	profile := store.NewProfileStore(seed.User, seed.Billing, passwords, services.NewInvoiceService(exporters...))

	if db != nil {
		mirror(db, domains, profile)
	}

	// Initialize scheduler
	if cfg.Renewal.Enabled {
		sched := scheduler.NewScheduler(services.NewRenewalService(domains, cfg.Renewal.WindowDays))
		if err := sched.Start(cfg.Renewal.CheckInterval); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()
	}

	// Setup Gin
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	httpLog := logrus.WithField("component", "http")
	r := gin.New()
	r.Use(logging.Middleware(httpLog), logging.Recovery(httpLog), cors())

	handler := api.NewHandler(domains, profile, services.NewSearchService(cfg.Search.Extensions, cfg.Search.Delay))
	api.SetupRoutes(r, handler)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loadSeed prefers the state saved in the database and falls back to the
// fixtures, which are then saved so the next start resumes from them
func loadSeed(ctx context.Context, cfg *config.Config, db *database.DB, log *logrus.Entry) (*fixtures.Seed, error) {
	if db != nil {
		seed, ok, err := db.LoadSeed(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load saved state: %w", err)
		}
		if ok {
			log.Infof("Loaded %d domains from database", len(seed.Domains))
			return seed, nil
		}
	}

	seed, err := fixtures.Load(cfg.Fixtures.Path)
	if err != nil {
		return nil, err
	}
	log.Infof("Loaded %d domains from fixtures", len(seed.Domains))
	return seed, nil
}

// mirror saves the current state of both stores and keeps the database in
// step with every later change
func mirror(db *database.DB, domains *store.DomainStore, profile *store.ProfileStore) {
	log := logrus.WithField("component", "mirror")
	ctx := context.Background()

	domains.Subscribe(func(snap store.DomainSnapshot) {
		if err := db.SaveDomainSnapshot(ctx, snap); err != nil {
			log.WithError(err).Error("Failed to save domain snapshot")
		}
	})
	profile.Subscribe(func(snap store.ProfileSnapshot) {
		if err := db.SaveProfileSnapshot(ctx, snap); err != nil {
			log.WithError(err).Error("Failed to save profile snapshot")
		}
	})

	if err := db.SaveDomainSnapshot(ctx, domains.Snapshot()); err != nil {
		log.WithError(err).Error("Failed to save domain snapshot")
	}
	if err := db.SaveProfileSnapshot(ctx, profile.Snapshot()); err != nil {
		log.WithError(err).Error("Failed to save profile snapshot")
	}
}

// cors allows the dashboard to call the API from another origin
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
