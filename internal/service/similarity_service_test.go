package service_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/GTDGit/grocery_api/internal/cache"
	"github.com/GTDGit/grocery_api/internal/catalog"
	"github.com/GTDGit/grocery_api/internal/models"
	"github.com/GTDGit/grocery_api/internal/service"
)

func item(id, enName string, codes ...string) models.Product {
	p := models.Product{ID: id}
	if enName != "" {
		p.Names = models.TranslatedNames{{Value: enName, Language: "en"}}
	}
	for _, code := range codes {
		p.Categories = append(p.Categories, models.ProductCategory{Code: code, Name: code})
	}
	return p
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func dairyCatalog() *catalog.Catalog {
	return catalog.New([]models.Product{
		item("A", "Whole Milk", "DAIRY"),
		item("B", "Oat Milk", "DAIRY"),
		item("C", "Bread", "BAK"),
	})
}

func TestRankSimilarScenarios(t *testing.T) {
	tests := []struct {
		name    string
		catalog *catalog.Catalog
		id      string
		count   int
		want    []string
	}{
		{name: "shared category and name token", catalog: dairyCatalog(), id: "A", count: 3, want: []string{"B"}},
		{name: "zero count", catalog: dairyCatalog(), id: "A", count: 0, want: []string{}},
		{name: "negative count", catalog: dairyCatalog(), id: "A", count: -1, want: []string{}},
		{name: "unknown id", catalog: dairyCatalog(), id: "Z", count: 3, want: []string{}},
		{
			name:    "no names and no categories",
			catalog: catalog.New([]models.Product{item("D", ""), item("E", "Milk", "DAIRY")}),
			id:      "D",
			count:   3,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(ids(service.RankSimilar(tt.catalog, tt.id, tt.count)), qt.DeepEquals, tt.want)
		})
	}
}

func TestRankSimilarOrdering(t *testing.T) {
	c := qt.New(t)

	cat := catalog.New([]models.Product{
		item("src", "Organic Whole Milk", "DAIRY", "MILKS", "ORGANIC"),
		item("nameOnly", "Organic Whole Milk Large"),
		item("oneCatNoName", "Butter", "DAIRY"),
		item("twoCats", "Cheese", "DAIRY", "ORGANIC"),
		item("oneCatTwoNames", "Whole milk drink", "MILKS"),
		item("threeCats", "Yoghurt", "DAIRY", "MILKS", "ORGANIC"),
		item("unrelated", "Bread", "BAKERY"),
	})

	got := ids(service.RankSimilar(cat, "src", 10))
	c.Assert(got, qt.DeepEquals, []string{
		"threeCats",      // 3 categories
		"twoCats",        // 2 categories
		"oneCatTwoNames", // 1 category, 2 name tokens
		"oneCatNoName",   // 1 category, 0 name tokens
		"nameOnly",       // 0 categories, 3 name tokens
	})
}

func TestRankSimilarCategoryBeatsName(t *testing.T) {
	c := qt.New(t)

	cat := catalog.New([]models.Product{
		item("src", "Whole Milk", "DAIRY"),
		item("nameHeavy", "Whole Milk"),
		item("category", "Quark", "DAIRY"),
	})

	c.Assert(ids(service.RankSimilar(cat, "src", 3)), qt.DeepEquals, []string{"category", "nameHeavy"})
}

func TestRankSimilarNameTieBreak(t *testing.T) {
	c := qt.New(t)

	cat := catalog.New([]models.Product{
		item("src", "Whole Milk", "DAIRY"),
		item("Y", "Cream", "DAIRY"),
		item("X", "Whole Milk 2l", "DAIRY"),
	})

	c.Assert(ids(service.RankSimilar(cat, "src", 3)), qt.DeepEquals, []string{"X", "Y"})
}

func TestRankSimilarShortCodesIgnored(t *testing.T) {
	c := qt.New(t)

	cat := catalog.New([]models.Product{
		item("src", "Apple", "FRU", "FOOD"),
		item("short", "Pear", "FRU"),
		item("long", "Plum", "FOOD"),
	})

	// "FRU" has three characters and never counts; "FOOD" has four.
	c.Assert(ids(service.RankSimilar(cat, "src", 3)), qt.DeepEquals, []string{"long"})
}

func TestRankSimilarStableOnTies(t *testing.T) {
	c := qt.New(t)

	cat := catalog.New([]models.Product{
		item("t1", "Milk", "DAIRY"),
		item("src", "Milk", "DAIRY"),
		item("t2", "Milk", "DAIRY"),
		item("t3", "Milk", "DAIRY"),
	})

	c.Assert(ids(service.RankSimilar(cat, "src", 2)), qt.DeepEquals, []string{"t1", "t2"})
}

func TestRankSimilarRepeatedTokensCountPerToken(t *testing.T) {
	c := qt.New(t)

	cat := catalog.New([]models.Product{
		item("src", "Milk Milk Chocolate"),
		item("once", "Chocolate"),
		item("milky", "Milk"),
	})

	// "milk" appears twice in the token list, so "Milk" scores 2 and beats "Chocolate".
	c.Assert(ids(service.RankSimilar(cat, "src", 3)), qt.DeepEquals, []string{"milky", "once"})
}

func TestRankSimilarEmptyNamesStillMatchOnCategories(t *testing.T) {
	c := qt.New(t)

	cat := catalog.New([]models.Product{
		item("src", "", "DAIRY"),
		item("other", "", "DAIRY"),
		item("named", "Milk"),
	})

	c.Assert(ids(service.RankSimilar(cat, "src", 3)), qt.DeepEquals, []string{"other"})
}

func TestRankSimilarProperties(t *testing.T) {
	cat := catalog.New([]models.Product{
		item("1", "Whole Milk", "DAIRY", "MILKS"),
		item("2", "Oat Milk", "DAIRY", "VEGAN"),
		item("3", "Soy Milk", "VEGAN"),
		item("4", "Butter", "DAIRY"),
		item("5", "Bread", "BAKERY"),
		item("6", "Milk Bread", "BAKERY"),
	})

	for _, p := range cat.GetProducts(catalog.AllPages).Data {
		for n := 0; n <= 6; n++ {
			first := service.RankSimilar(cat, p.ID, n)
			second := service.RankSimilar(cat, p.ID, n)

			if len(first) > n {
				t.Fatalf("%s/%d: got %d results", p.ID, n, len(first))
			}
			if !slices.Equal(ids(first), ids(second)) {
				t.Fatalf("%s/%d: ranking is not deterministic", p.ID, n)
			}
			for _, r := range first {
				if r.ID == p.ID {
					t.Fatalf("%s/%d: source returned as its own substitute", p.ID, n)
				}
			}
		}
	}
}

type memoryCache struct {
	entries map[string][]string
	sets    int
	err     error
}

func key(fingerprint, id string, count int) string {
	return fmt.Sprintf("%s|%s|%d", fingerprint, id, count)
}

func (m *memoryCache) Get(_ context.Context, fingerprint, id string, count int) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.entries[key(fingerprint, id, count)]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (m *memoryCache) Set(_ context.Context, fingerprint, id string, count int, ids []string) error {
	m.sets++
	if m.err != nil {
		return m.err
	}
	m.entries[key(fingerprint, id, count)] = ids
	return nil
}

func TestSimilarityServiceUsesCache(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	store := catalog.NewStore()
	store.Replace([]models.Product{
		item("A", "Whole Milk", "DAIRY"),
		item("B", "Oat Milk", "DAIRY"),
	})
	mc := &memoryCache{entries: map[string][]string{}}
	svc := service.NewSimilarityService(store, mc)

	c.Assert(ids(svc.FindSimilarProducts(ctx, "A", 3)), qt.DeepEquals, []string{"B"})
	c.Assert(mc.sets, qt.Equals, 1)

	// served from cache: no second write
	c.Assert(ids(svc.FindSimilarProducts(ctx, "A", 3)), qt.DeepEquals, []string{"B"})
	c.Assert(mc.sets, qt.Equals, 1)

	// a reload with new content forces a fresh ranking
	store.Replace([]models.Product{
		item("A", "Whole Milk", "DAIRY"),
		item("B", "Oat Milk", "DAIRY"),
		item("C", "Whole Milk Lactose Free", "DAIRY"),
	})
	c.Assert(ids(svc.FindSimilarProducts(ctx, "A", 3)), qt.DeepEquals, []string{"C", "B"})
	c.Assert(mc.sets, qt.Equals, 2)
}

func TestSimilarityServiceCacheFailureFallsBack(t *testing.T) {
	c := qt.New(t)

	store := catalog.NewStore()
	store.Replace(dairyCatalog().GetProducts(catalog.AllPages).Data)
	svc := service.NewSimilarityService(store, &memoryCache{entries: map[string][]string{}, err: errors.New("connection refused")})

	c.Assert(ids(svc.FindSimilarProducts(context.Background(), "A", 3)), qt.DeepEquals, []string{"B"})
}

func TestSimilarityServiceWithoutCache(t *testing.T) {
	c := qt.New(t)

	store := catalog.NewStore()
	svc := service.NewSimilarityService(store, nil)
	c.Assert(svc.FindSimilarProducts(context.Background(), "A", 3), qt.HasLen, 0)

	store.Replace(dairyCatalog().GetProducts(catalog.AllPages).Data)
	c.Assert(ids(svc.FindSimilarProducts(context.Background(), "A", 0)), qt.DeepEquals, []string{})
	c.Assert(ids(svc.FindSimilarProducts(context.Background(), "A", 1)), qt.DeepEquals, []string{"B"})
}

func TestSimilarityServiceSharedCacheAcrossStores(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	shared := &memoryCache{entries: map[string][]string{}}

	first := catalog.NewStore()
	first.Replace([]models.Product{
		item("A", "Whole Milk", "DAIRY"),
		item("B", "Oat Milk", "DAIRY"),
	})
	c.Assert(ids(service.NewSimilarityService(first, shared).FindSimilarProducts(ctx, "A", 3)), qt.DeepEquals, []string{"B"})

	// another process, same version number, different catalog
	second := catalog.NewStore()
	second.Replace([]models.Product{
		item("A", "Whole Milk", "DAIRY"),
		item("B", "Oat Milk", "DAIRY"),
		item("C", "Whole Milk Lactose Free", "DAIRY"),
	})
	c.Assert(second.Snapshot().Version(), qt.Equals, first.Snapshot().Version())

	want := ids(service.RankSimilar(second.Snapshot(), "A", 3))
	c.Assert(want, qt.DeepEquals, []string{"C", "B"})
	c.Assert(ids(service.NewSimilarityService(second, shared).FindSimilarProducts(ctx, "A", 3)), qt.DeepEquals, want)
	c.Assert(shared.sets, qt.Equals, 2)

	// a third process with the first catalog reuses its entry
	third := catalog.NewStore()
	third.Replace([]models.Product{
		item("A", "Whole Milk", "DAIRY"),
		item("B", "Oat Milk", "DAIRY"),
	})
	c.Assert(ids(service.NewSimilarityService(third, shared).FindSimilarProducts(ctx, "A", 3)), qt.DeepEquals, []string{"B"})
	c.Assert(shared.sets, qt.Equals, 2)
}
