package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/grocery_api/internal/cache"
	"github.com/GTDGit/grocery_api/internal/catalog"
	"github.com/GTDGit/grocery_api/internal/models"
)

const (
	// DefaultSimilarCount is the number of substitutes returned when the caller
	// does not ask for a specific amount.
	DefaultSimilarCount = 3

	// Shared category codes this short or shorter are too generic to count.
	minCategoryCodeLen = 3
)

// CatalogAccessor is the read access the ranker needs from a catalog snapshot.
type CatalogAccessor interface {
	GetProductByID(id string) (models.Product, bool)
	GetProducts(page int) models.PageResult
}

// SnapshotProvider hands out the current catalog snapshot.
type SnapshotProvider interface {
	Snapshot() *catalog.Catalog
}

// SimilarCache caches rankings per catalog fingerprint.
type SimilarCache interface {
	Get(ctx context.Context, fingerprint, productID string, count int) ([]string, error)
	Set(ctx context.Context, fingerprint, productID string, count int, ids []string) error
}

type candidate struct {
	product         models.Product
	categoryMatches int
	nameMatches     int
}

// RankSimilar scores every catalog product against the source product and
// returns up to desiredCount substitutes, best first. Ordering is by number
// of shared category codes, then by number of source name tokens found in
// the candidate name, then by catalog order.
//
// An unknown productID or a non-positive desiredCount yields an empty list.
func RankSimilar(accessor CatalogAccessor, productID string, desiredCount int) []models.Product {
	out := []models.Product{}
	if desiredCount <= 0 {
		return out
	}

	source, ok := accessor.GetProductByID(productID)
	if !ok {
		return out
	}

	tokens := catalog.Tokens(catalog.DisplayName(&source))
	sourceCodes := make(map[string]struct{}, len(source.Categories))
	for _, code := range source.CategoryCodes() {
		sourceCodes[code] = struct{}{}
	}

	pool := accessor.GetProducts(catalog.AllPages).Data
	candidates := make([]candidate, 0, len(pool))
	for _, p := range pool {
		if p.ID == source.ID {
			continue
		}
		cand := candidate{
			product:         p,
			categoryMatches: countSharedCodes(&p, sourceCodes),
			nameMatches:     countNameMatches(&p, tokens),
		}
		if cand.categoryMatches == 0 && cand.nameMatches == 0 {
			continue
		}
		candidates = append(candidates, cand)
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		if a.categoryMatches != b.categoryMatches {
			return b.categoryMatches - a.categoryMatches
		}
		return b.nameMatches - a.nameMatches
	})

	for _, cand := range candidates[:min(desiredCount, len(candidates))] {
		out = append(out, cand.product)
	}
	return out
}

func countSharedCodes(p *models.Product, sourceCodes map[string]struct{}) int {
	n := 0
	for _, c := range p.Categories {
		if utf8.RuneCountInString(c.Code) <= minCategoryCodeLen {
			continue
		}
		if _, ok := sourceCodes[c.Code]; ok {
			n++
		}
	}
	return n
}

// countNameMatches counts source tokens that occur in the candidate display
// name. Each token counts at most once.
func countNameMatches(p *models.Product, tokens []string) int {
	if len(tokens) == 0 {
		return 0
	}
	lowered := catalog.Lower(catalog.DisplayName(p))
	n := 0
	for _, t := range tokens {
		if strings.Contains(lowered, t) {
			n++
		}
	}
	return n
}

// SimilarityService finds substitute products on the current catalog snapshot.
type SimilarityService struct {
	catalogs SnapshotProvider
	cache    SimilarCache
}

// NewSimilarityService constructs a SimilarityService. cache may be nil.
func NewSimilarityService(catalogs SnapshotProvider, cache SimilarCache) *SimilarityService {
	return &SimilarityService{catalogs: catalogs, cache: cache}
}

// FindSimilarProducts returns up to desiredCount substitutes for productID.
// A single snapshot is used for the whole call.
func (s *SimilarityService) FindSimilarProducts(ctx context.Context, productID string, desiredCount int) []models.Product {
	return s.FindSimilarIn(ctx, s.catalogs.Snapshot(), productID, desiredCount)
}

// FindSimilarIn ranks on snap, for callers that must keep several lookups on
// one snapshot.
func (s *SimilarityService) FindSimilarIn(ctx context.Context, snap *catalog.Catalog, productID string, desiredCount int) []models.Product {
	if desiredCount <= 0 {
		return []models.Product{}
	}

	if s.cache != nil {
		if products, ok := s.fromCache(ctx, snap, productID, desiredCount); ok {
			return products
		}
	}

	products := RankSimilar(snap, productID, desiredCount)

	if s.cache != nil {
		ids := make([]string, 0, len(products))
		for _, p := range products {
			ids = append(ids, p.ID)
		}
		if err := s.cache.Set(ctx, snap.Fingerprint(), productID, desiredCount, ids); err != nil {
			log.Warn().Err(err).Str("product_id", productID).Msg("failed to cache similar products")
		}
	}
	return products
}

func (s *SimilarityService) fromCache(ctx context.Context, snap *catalog.Catalog, productID string, count int) ([]models.Product, bool) {
	ids, err := s.cache.Get(ctx, snap.Fingerprint(), productID, count)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn().Err(err).Str("product_id", productID).Msg("similar products cache unavailable")
		}
		return nil, false
	}

	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := snap.GetProductByID(id)
		if !ok {
			return nil, false
		}
		products = append(products, p)
	}
	return products, true
}
