package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/GTDGit/grocery_api/internal/catalog"
	"github.com/GTDGit/grocery_api/internal/models"
	"github.com/GTDGit/grocery_api/internal/service"
	"github.com/GTDGit/grocery_api/internal/sse"
	"github.com/GTDGit/grocery_api/internal/utils"
)

type flakySource struct {
	mu       sync.Mutex
	failures int
	calls    int
	products []models.Product
	started  chan struct{}
	block    chan struct{}
}

func (f *flakySource) Name() string { return "fake" }

func (f *flakySource) Load(ctx context.Context) ([]models.Product, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("source offline")
	}
	return f.products, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	reloaded []sse.CatalogReloadedEvent
	failed   []sse.CatalogReloadFailedEvent
}

func (r *recordingNotifier) NotifyCatalogReloaded(e sse.CatalogReloadedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reloaded = append(r.reloaded, e)
}

func (r *recordingNotifier) NotifyCatalogReloadFailed(e sse.CatalogReloadFailedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, e)
}

var fastRetry = service.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestCatalogServiceReload(t *testing.T) {
	c := qt.New(t)

	src := &flakySource{
		failures: 2,
		products: []models.Product{item("A", "Milk"), item("A", "Dup"), {ID: "", Price: 1}, item("B", "Bread")},
	}
	notifier := &recordingNotifier{}
	svc := service.NewCatalogService(catalog.NewStore(), src)
	svc.SetRetryPolicy(fastRetry)
	svc.SetNotifier(notifier)

	res, err := svc.Reload(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(src.calls, qt.Equals, 3)
	c.Assert(res.Version, qt.Equals, uint64(1))
	c.Assert(res.Stats, qt.DeepEquals, catalog.NormalizeStats{Total: 4, Kept: 2, Invalid: 1, Duplicates: 1})
	c.Assert(svc.Snapshot().Len(), qt.Equals, 2)

	c.Assert(notifier.reloaded, qt.HasLen, 1)
	c.Assert(notifier.reloaded[0].Products, qt.Equals, 2)
}

func TestCatalogServiceReloadFailureKeepsSnapshot(t *testing.T) {
	c := qt.New(t)

	store := catalog.NewStore()
	store.Replace([]models.Product{item("A", "Milk")})

	src := &flakySource{failures: 10}
	notifier := &recordingNotifier{}
	svc := service.NewCatalogService(store, src)
	svc.SetRetryPolicy(fastRetry)
	svc.SetNotifier(notifier)

	_, err := svc.Reload(context.Background())
	c.Assert(errors.Is(err, utils.ErrCatalogSource), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, "CATALOG_SOURCE_UNAVAILABLE: fake after 3 attempts: source offline")
	c.Assert(src.calls, qt.Equals, 3)

	c.Assert(svc.Snapshot().Len(), qt.Equals, 1)
	c.Assert(svc.Snapshot().Version(), qt.Equals, uint64(1))
	c.Assert(notifier.failed, qt.HasLen, 1)
}

func TestCatalogServiceReloadCancelled(t *testing.T) {
	c := qt.New(t)

	svc := service.NewCatalogService(catalog.NewStore(), &flakySource{failures: 10})
	svc.SetRetryPolicy(service.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Reload(ctx)
	c.Assert(err, qt.Equals, context.Canceled)
}

func TestCatalogServiceSingleReload(t *testing.T) {
	c := qt.New(t)

	src := &flakySource{
		started:  make(chan struct{}),
		block:    make(chan struct{}),
		products: []models.Product{item("A", "Milk")},
	}
	svc := service.NewCatalogService(catalog.NewStore(), src)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Reload(context.Background())
		done <- err
	}()
	<-src.started

	_, err := svc.Reload(context.Background())
	c.Assert(err, qt.Equals, utils.ErrReloadInProgress)

	close(src.block)
	c.Assert(<-done, qt.IsNil)
	c.Assert(svc.Snapshot().Len(), qt.Equals, 1)
}
