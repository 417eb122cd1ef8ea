package providers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/listenupapp/staff-directory/internal/cache"
	"github.com/listenupapp/staff-directory/internal/config"
	"github.com/listenupapp/staff-directory/internal/notify"
	"github.com/listenupapp/staff-directory/internal/store/sqlite"
)

// NotifyManagerHandle wraps the notification manager with its context for lifecycle management.
type NotifyManagerHandle struct {
	*notify.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *NotifyManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideNotifyManager provides the server-sent notification manager.
func ProvideNotifyManager(i do.Injector) (*NotifyManagerHandle, error) {
	log := do.MustInvoke[*slog.Logger](i)

	manager := notify.NewManager(log)

	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("Notification manager started")

	return &NotifyManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	dbPath := cfg.Data.DatabasePath()
	db, err := sqlite.Open(dbPath, log)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// CacheHandle wraps the configured page cache with shutdown capability.
type CacheHandle struct {
	cache.Cache
}

// Shutdown implements do.Shutdownable.
func (h *CacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideCache provides the page cache selected by configuration.
func ProvideCache(i do.Injector) (*CacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	switch cfg.Cache.Backend {
	case config.CacheNone:
		log.Info("Page cache disabled")
		return &CacheHandle{Cache: cache.NewNoop()}, nil

	case config.CacheRedis:
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		c, err := cache.NewRedis(ctx, cache.RedisOptions{
			Addr: cfg.Cache.RedisAddr,
			DB:   cfg.Cache.RedisDB,
		}, log)
		if err != nil {
			return nil, err
		}
		return &CacheHandle{Cache: c}, nil

	case config.CacheMemory:
		c, err := cache.NewBadger(log)
		if err != nil {
			return nil, err
		}
		log.Info("In-memory page cache ready", "ttl", cfg.Cache.TTL)
		return &CacheHandle{Cache: c}, nil
	}

	return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}
