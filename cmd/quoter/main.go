package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/flowshift/quoter/cmd/quoter/container"
	"github.com/flowshift/quoter/cmd/quoter/handlers"
	quotermw "github.com/flowshift/quoter/cmd/quoter/middleware"
	"github.com/flowshift/quoter/cmd/quoter/routes"
	"github.com/flowshift/quoter/common/bootstrap"
	"github.com/flowshift/quoter/common/db"
	"github.com/flowshift/quoter/common/logger"
	"github.com/flowshift/quoter/common/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bootstrap common components (config, logger, DB, Redis, telemetry)
	components, err := bootstrap.Setup(ctx, "quoter", bootstrap.WithDBInitHook(func(database *db.DB) error {
		return database.EnsureSchema(ctx)
	}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap quoter: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(context.Background())

	// Initialize service container (singleton pattern - all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		components.Logger.Error("failed to initialize service container", "error", err)
		os.Exit(1)
	}

	e := setupEcho()
	setupMiddleware(e, components)
	registerRoutes(e, serviceContainer)

	srv := server.New("quoter", components.Config.Service.Port, e, components.Logger)
	if err := srv.Start(ctx); err != nil {
		components.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewRequestValidator()
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo, components *bootstrap.Components) {
	cfg := components.Config

	e.Use(middleware.RequestID())
	e.Use(quotermw.RequestIDToContext())
	e.Use(requestLogger(components.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.Service.CORSOrigins,
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-Session-ID"},
		ExposeHeaders: []string{"X-Session-ID", "Retry-After", "X-RateLimit-Limit"},
	}))

	// A full batch of maximum-size files plus multipart framing
	limitKB := cfg.Limits.MaxFileSizeBytes*int64(cfg.Limits.MaxFilesPerBatch)/1000 + 1024
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dK", limitKB)))
}

func requestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				log.LogAttrs(c.Request().Context(), slog.LevelError, "request failed", attrs...)
				return nil
			}
			log.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	})
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, serviceContainer *container.Container) {
	routes.RegisterHealthRoutes(e, serviceContainer)
	routes.RegisterSessionRoutes(e, serviceContainer)
	routes.RegisterQuoteRoutes(e, serviceContainer)
}
