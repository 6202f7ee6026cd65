package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/anisurarzu/hotelseashore/api"
	"github.com/anisurarzu/hotelseashore/config"
	"github.com/anisurarzu/hotelseashore/internal/metrics"
	"github.com/anisurarzu/hotelseashore/internal/middleware"
	"github.com/anisurarzu/hotelseashore/internal/service/inventory"
	"github.com/anisurarzu/hotelseashore/internal/service/reservation"
	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Services struct {
	Inventory    inventory.InventoryUseCase
	Reservations reservation.ReservationUseCase
	// Metrics is optional; /metrics is not mounted without it.
	Metrics *metrics.Metrics
	Health  map[string]HealthCheck
}

// Run serves the HTTP API and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           NewRouter(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("http server listening addr=%s", cfg.HTTP.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSeconds)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewRouter(svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())
	if svc.Metrics != nil {
		router.Use(svc.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(svc.Metrics.Handler()))
	}

	router.GET("/healthz", healthHandler(svc.Health))

	v1 := router.Group("/api/v1")
	api.NewHotelHandler(svc.Inventory, svc.Reservations).Register(v1.Group("/hotels"))
	api.NewReservationHandler(svc.Reservations).Register(v1.Group("/reservations"))

	return router
}

func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		result := gin.H{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				result[name] = err.Error()
				continue
			}
			result[name] = "ok"
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": result})
	}
}
