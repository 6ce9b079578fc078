package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/grocery_api/internal/models"
)

var validate = validator.New()

// ErrNoProducts is returned by Decode for an object document without a
// "products" field.
var ErrNoProducts = errors.New("catalog document has no products field")

// Decode parses a catalog document. Both a bare JSON array of products and an
// object of the form {"products": [...]} are accepted.
func Decode(r io.Reader) ([]models.Product, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	raw = bytes.TrimSpace(raw)

	if len(raw) > 0 && raw[0] == '[' {
		var products []models.Product
		if err := json.Unmarshal(raw, &products); err != nil {
			return nil, fmt.Errorf("failed to decode catalog: %w", err)
		}
		return products, nil
	}

	var doc struct {
		Products *[]models.Product `json:"products"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if doc.Products == nil {
		return nil, ErrNoProducts
	}
	return *doc.Products, nil
}

// NormalizeStats summarizes what Normalize kept and dropped.
type NormalizeStats struct {
	Total      int `json:"total"`
	Kept       int `json:"kept"`
	Invalid    int `json:"invalid"`
	Duplicates int `json:"duplicates"`
}

// Normalize drops records that fail validation (missing id, negative price)
// and every record whose id was already seen. Order is preserved.
func Normalize(products []models.Product) ([]models.Product, NormalizeStats) {
	stats := NormalizeStats{Total: len(products)}
	seen := make(map[string]struct{}, len(products))
	out := make([]models.Product, 0, len(products))

	for i, p := range products {
		if err := validate.Struct(&p); err != nil {
			stats.Invalid++
			log.Warn().Err(err).Int("index", i).Str("product_id", p.ID).Msg("skipping invalid catalog record")
			continue
		}
		if _, dup := seen[p.ID]; dup {
			stats.Duplicates++
			log.Warn().Int("index", i).Str("product_id", p.ID).Msg("skipping duplicate catalog record")
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	stats.Kept = len(out)
	return out, stats
}
