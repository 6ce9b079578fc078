package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/GTDGit/grocery_api/internal/models"
)

const (
	// PageSize is the fixed number of products per page.
	PageSize = 20
	// AllPages requests the whole catalog from GetProducts.
	AllPages = -1
	// SearchLimit caps the number of products returned by SearchProducts.
	SearchLimit = 50
)

// Catalog is an immutable, in-memory snapshot of the product catalog.
// It is safe for concurrent use.
type Catalog struct {
	products    []models.Product
	byID        map[string]int
	version     uint64
	fingerprint string
	loadedAt    time.Time
}

// New builds a snapshot from products, preserving their order.
func New(products []models.Product) *Catalog {
	return newCatalog(products, 0, time.Now())
}

func newCatalog(products []models.Product, version uint64, loadedAt time.Time) *Catalog {
	c := &Catalog{
		products: slices.Clone(products),
		byID:     make(map[string]int, len(products)),
		version:  version,
		loadedAt: loadedAt,
	}
	c.fingerprint = fingerprint(c.products)
	for i, p := range c.products {
		// first occurrence wins
		if _, ok := c.byID[p.ID]; !ok {
			c.byID[p.ID] = i
		}
	}
	return c
}

// Len returns the number of products in the snapshot.
func (c *Catalog) Len() int { return len(c.products) }

// Version identifies the snapshot within its Store. Zero for catalogs built with New.
func (c *Catalog) Version() uint64 { return c.version }

// Fingerprint is a content hash of the snapshot's products and their order.
// Two snapshots with equal fingerprints rank identically, whichever process or
// reload built them.
func (c *Catalog) Fingerprint() string { return c.fingerprint }

func fingerprint(products []models.Product) string {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(products); err != nil {
		// NaN prices cannot be JSON encoded
		h.Reset()
		fmt.Fprintf(h, "%#v", products)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// LoadedAt is when the snapshot was built.
func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

// GetProductByID returns the product with the given id. The boolean is false
// when no such product exists.
func (c *Catalog) GetProductByID(id string) (models.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// GetProducts returns the zero-based page of the catalog, or everything for
// AllPages. Pages past the end yield an empty Data slice.
func (c *Catalog) GetProducts(page int) models.PageResult {
	res := models.PageResult{
		Data:     []models.Product{},
		Page:     page,
		Total:    len(c.products),
		PageSize: PageSize,
	}
	if page == AllPages {
		res.Data = slices.Clone(c.products)
		return res
	}
	if page < 0 {
		return res
	}
	start := page * PageSize
	if start >= len(c.products) {
		return res
	}
	end := min(start+PageSize, len(c.products))
	res.Data = slices.Clone(c.products[start:end])
	return res
}

// SearchProducts returns products for which every whitespace-separated token
// of query occurs in at least one localized name. Matching is
// case-insensitive, results keep catalog order and are capped at SearchLimit.
func (c *Catalog) SearchProducts(query string) []models.Product {
	tokens := Tokens(query)
	out := make([]models.Product, 0)
	for i := range c.products {
		if len(out) == SearchLimit {
			break
		}
		if matchesAll(&c.products[i], tokens) {
			out = append(out, c.products[i])
		}
	}
	return out
}

func matchesAll(p *models.Product, tokens []string) bool {
	for _, t := range tokens {
		if !anyNameContains(p, t) {
			return false
		}
	}
	return true
}

func anyNameContains(p *models.Product, token string) bool {
	for _, n := range p.Names {
		if ContainsFold(n.Value, token) {
			return true
		}
	}
	return false
}
