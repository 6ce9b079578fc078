package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/grocery_api/internal/catalog"
	"github.com/GTDGit/grocery_api/internal/models"
	"github.com/GTDGit/grocery_api/internal/sse"
	"github.com/GTDGit/grocery_api/internal/utils"
)

// RetryPolicy controls how often a catalog load is attempted.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy: 3 attempts, exponential backoff from 500ms capped at 5s.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second}

// ReloadResult describes a successful catalog reload.
type ReloadResult struct {
	Source   string                 `json:"source"`
	Version  uint64                 `json:"version"`
	Stats    catalog.NormalizeStats `json:"stats"`
	Duration time.Duration          `json:"duration"`
}

// CatalogService loads the catalog from its source and publishes snapshots.
type CatalogService struct {
	store     *catalog.Store
	source    catalog.Source
	retry     RetryPolicy
	notifier  sse.CatalogNotifier
	reloading atomic.Bool
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(store *catalog.Store, source catalog.Source) *CatalogService {
	return &CatalogService{
		store:    store,
		source:   source,
		retry:    DefaultRetryPolicy,
		notifier: sse.NopNotifier{},
	}
}

// SetNotifier sets the SSE notifier for catalog events.
func (s *CatalogService) SetNotifier(notifier sse.CatalogNotifier) {
	s.notifier = notifier
}

// SetRetryPolicy overrides DefaultRetryPolicy.
func (s *CatalogService) SetRetryPolicy(p RetryPolicy) {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	s.retry = p
}

// Snapshot returns the current catalog snapshot.
func (s *CatalogService) Snapshot() *catalog.Catalog {
	return s.store.Snapshot()
}

// Reload fetches the catalog from the source, normalizes it and swaps it in.
// The previous snapshot stays active when loading fails. Only one reload runs
// at a time; a concurrent call returns utils.ErrReloadInProgress.
func (s *CatalogService) Reload(ctx context.Context) (*ReloadResult, error) {
	if !s.reloading.CompareAndSwap(false, true) {
		return nil, utils.ErrReloadInProgress
	}
	defer s.reloading.Store(false)

	start := time.Now()
	raw, err := s.loadWithRetry(ctx)
	if err != nil {
		log.Error().Err(err).Str("source", s.source.Name()).Msg("catalog reload failed")
		s.notifier.NotifyCatalogReloadFailed(sse.CatalogReloadFailedEvent{
			Source:    s.source.Name(),
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return nil, err
	}

	products, stats := catalog.Normalize(raw)
	snap := s.store.Replace(products)

	res := &ReloadResult{
		Source:   s.source.Name(),
		Version:  snap.Version(),
		Stats:    stats,
		Duration: time.Since(start),
	}
	log.Info().
		Str("source", res.Source).
		Uint64("version", res.Version).
		Int("products", stats.Kept).
		Int("invalid", stats.Invalid).
		Int("duplicates", stats.Duplicates).
		Dur("duration", res.Duration).
		Msg("catalog loaded")

	s.notifier.NotifyCatalogReloaded(sse.CatalogReloadedEvent{
		Source:     res.Source,
		Version:    res.Version,
		Products:   stats.Kept,
		Invalid:    stats.Invalid,
		Duplicates: stats.Duplicates,
		Timestamp:  time.Now(),
	})
	return res, nil
}

func (s *CatalogService) loadWithRetry(ctx context.Context) ([]models.Product, error) {
	var lastErr error
	for attempt := 1; attempt <= s.retry.MaxAttempts; attempt++ {
		products, err := s.source.Load(ctx)
		if err == nil {
			return products, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Str("source", s.source.Name()).Msg("catalog load attempt failed")

		if attempt == s.retry.MaxAttempts {
			break
		}
		if err := s.wait(ctx, attempt); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s after %d attempts: %w", utils.ErrCatalogSource, s.source.Name(), s.retry.MaxAttempts, lastErr)
}

func (s *CatalogService) wait(ctx context.Context, attempt int) error {
	d := s.retry.BaseDelay << (attempt - 1)
	if s.retry.MaxDelay > 0 && d > s.retry.MaxDelay {
		d = s.retry.MaxDelay
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
