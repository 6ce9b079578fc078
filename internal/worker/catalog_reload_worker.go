package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/grocery_api/internal/service"
	"github.com/GTDGit/grocery_api/internal/utils"
)

// Reloader is satisfied by *service.CatalogService.
type Reloader interface {
	Reload(ctx context.Context) (*service.ReloadResult, error)
}

// CatalogReloadWorker periodically reloads the catalog from its source.
type CatalogReloadWorker struct {
	catalogs Reloader
	interval time.Duration
}

// NewCatalogReloadWorker constructs a CatalogReloadWorker.
func NewCatalogReloadWorker(catalogs Reloader, interval time.Duration) *CatalogReloadWorker {
	return &CatalogReloadWorker{
		catalogs: catalogs,
		interval: interval,
	}
}

// Enabled reports whether the worker has a positive interval.
func (w *CatalogReloadWorker) Enabled() bool {
	return w.interval > 0
}

// Start runs the reload loop until ctx is cancelled. The initial load happens
// at boot, so the first reload waits one interval.
func (w *CatalogReloadWorker) Start(ctx context.Context) {
	if !w.Enabled() {
		log.Info().Msg("Catalog reload worker disabled")
		return
	}
	log.Info().Dur("interval", w.interval).Msg("Starting catalog reload worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Catalog reload worker stopped")
			return
		}
	}
}

func (w *CatalogReloadWorker) run(ctx context.Context) {
	res, err := w.catalogs.Reload(ctx)
	switch {
	case errors.Is(err, utils.ErrReloadInProgress):
		log.Debug().Msg("Catalog reload already running, skipping tick")
	case err != nil:
		// logged and notified by CatalogService; the old snapshot stays
	default:
		log.Debug().Uint64("version", res.Version).Dur("duration", res.Duration).Msg("Scheduled catalog reload completed")
	}
}
