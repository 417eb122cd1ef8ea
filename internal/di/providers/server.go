package providers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/listenupapp/staff-directory/internal/api"
	"github.com/listenupapp/staff-directory/internal/auth"
	"github.com/listenupapp/staff-directory/internal/config"
	"github.com/listenupapp/staff-directory/internal/metrics"
	"github.com/listenupapp/staff-directory/internal/ratelimit"
	"github.com/listenupapp/staff-directory/internal/service"
)

// RateLimiterHandle wraps the per-client limiter so its sweeper stops on shutdown.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	if h.KeyedRateLimiter != nil {
		h.Stop()
	}
	return nil
}

// ProvideRateLimiter provides the per-IP request limiter. A non-positive
// RATE_LIMIT_RPS disables limiting.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	if cfg.Server.RateLimitRPS <= 0 {
		return &RateLimiterHandle{}, nil
	}
	return &RateLimiterHandle{KeyedRateLimiter: ratelimit.NewWithOptions(ratelimit.Options{
		RPS:     float64(cfg.Server.RateLimitRPS),
		Burst:   cfg.Server.RateLimitBurst,
		IdleTTL: 10 * time.Minute,
	})}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideAPIServer provides the routed API handler.
func ProvideAPIServer(i do.Injector) (*api.Server, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	notifyHandle := do.MustInvoke[*NotifyManagerHandle](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*slog.Logger](i)

	services := &api.Services{
		Tags:      do.MustInvoke[*service.TagService](i),
		Praise:    do.MustInvoke[*service.PraiseService](i),
		Filter:    do.MustInvoke[*service.TagFilterService](i),
		Directory: do.MustInvoke[*service.DirectoryService](i),
		Lookup:    do.MustInvoke[*service.LookupService](i),
		Profiles:  do.MustInvoke[*service.ProfileService](i),
		Search:    do.MustInvoke[*service.SearchService](i),
	}

	opts := api.Options{
		CORSOrigins:   cfg.Server.CORSOrigins,
		Limiter:       limiter.KeyedRateLimiter,
		Notifications: notifyHandle.Manager,
	}
	if cfg.Server.MetricsEnabled {
		opts.Metrics = do.MustInvoke[*metrics.Metrics](i)
	}

	return api.NewServer(storeHandle.Store, services, tokens, opts, log), nil
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	handler := do.MustInvoke[*api.Server](i)
	log := do.MustInvoke[*slog.Logger](i)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
