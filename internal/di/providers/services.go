package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/listenupapp/staff-directory/internal/config"
	"github.com/listenupapp/staff-directory/internal/metrics"
	"github.com/listenupapp/staff-directory/internal/service"
)

// ProvideMetrics provides the Prometheus collectors.
func ProvideMetrics(i do.Injector) (*metrics.Metrics, error) {
	return metrics.New(), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	notifyHandle := do.MustInvoke[*NotifyManagerHandle](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewTagService(storeHandle.Store, cacheHandle.Cache, indexHandle.SearchIndex,
		notifyHandle.Manager, m, log), nil
}

// ProvidePraiseService provides the thanks service.
func ProvidePraiseService(i do.Injector) (*service.PraiseService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	notifyHandle := do.MustInvoke[*NotifyManagerHandle](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewPraiseService(storeHandle.Store, cacheHandle.Cache, notifyHandle.Manager, m,
		cfg.Directory.ThanksPageSize, cfg.Directory.ThanksPageWindow, log), nil
}

// ProvideTagFilterService provides the tag filter service.
func ProvideTagFilterService(i do.Injector) (*service.TagFilterService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewTagFilterService(storeHandle.Store, cacheHandle.Cache, m,
		cfg.Directory.RelatedTagLimit, cfg.Cache.TTL, log), nil
}

// ProvideDirectoryService provides the browse service.
func ProvideDirectoryService(i do.Injector) (*service.DirectoryService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	opts := service.DefaultDirectoryOptions()
	opts.RelatedTagLimit = cfg.Directory.RelatedTagLimit
	opts.PopularTagMinCount = cfg.Directory.PopularTagMinCount
	opts.RecentProfileLimit = cfg.Directory.RecentProfileLimit
	opts.CacheTTL = cfg.Cache.TTL

	return service.NewDirectoryService(storeHandle.Store, cacheHandle.Cache, opts, log), nil
}

// ProvideLookupService provides the email lookup service.
func ProvideLookupService(i do.Injector) (*service.LookupService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewLookupService(storeHandle.Store, log), nil
}

// ProvideProfileService provides the profile editing service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewProfileService(storeHandle.Store, cacheHandle.Cache, indexHandle.SearchIndex, log), nil
}
