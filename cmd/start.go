package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"condi-loader/core/fetch"
	"condi-loader/core/loader"
	"condi-loader/core/logger"
	"condi-loader/core/middleware/auth"
	"condi-loader/core/middleware/rayid"
	"condi-loader/feature/history"
	"condi-loader/feature/integrity"
	"condi-loader/feature/manifests"
	"condi-loader/feature/pages"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "condi-loader/docs/swagger"
)

// @title condi-loader API
// @version 1.0
// @description Conditional stylesheet and script loading for HTML pages.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the loader server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(false)
		if err != nil {
			return err
		}
		logg := e.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)
		cfg := e.cfg

		store, err := e.storage()
		if err != nil {
			return err
		}
		db := e.history()

		fetchTimeout := time.Duration(cfg.Loader.FetchTimeoutSeconds) * time.Second
		transport := fetch.NewDefaultTransport(fetch.NewHTTPClient(fetchTimeout), store, cfg.Storage.Bucket)

		manifestFeature := manifests.NewFeature(store, cfg.Storage, logg)
		historyFeature := history.NewFeature(db, logg)
		pageService := pages.NewService(transport, manifestFeature.Store(), historyFeature.Repository(), cfg.Loader, logg)
		integrityService := integrity.NewService(store, cfg.Storage.Bucket,
			integrity.RequiredFolders(cfg.Storage, cfg.Loader),
			manifestFeature.Store(), db, cfg.Loader, logg)

		mgr := loader.NewManager(logg)
		mgr.Register(manifestFeature)
		mgr.Register(pages.NewFeature(pageService))
		mgr.Register(integrity.NewFeature(integrityService))
		mgr.Register(historyFeature)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		// RayID first so every later log line carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger stays public
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server",
				zap.String("port", cfg.Server.Port),
				zap.Bool("auth", cfg.Server.AuthEnabled()))
			errCh <- app.Listen(":" + cfg.Server.Port)
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return fmt.Errorf("server failed to start: %w", err)
		case <-sig:
		}

		logg.Info("Shutting down server...")
		return app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout())
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
