package service

import (
	"context"

	"github.com/GTDGit/grocery_api/internal/catalog"
)

// DefaultSubstitutesPerLine is the number of replacements offered for each
// missing order line.
const DefaultSubstitutesPerLine = 2

// OrderLine is one line of an order after picking.
type OrderLine struct {
	ProductID       string `json:"productId" binding:"required"`
	OrderedQuantity int    `json:"orderedQuantity" binding:"gte=0"`
	PickedQuantity  int    `json:"pickedQuantity" binding:"gte=0"`
}

// Replacement is a suggested substitute product.
type Replacement struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MissingItem is an order line that could not be fully picked, together with
// suggested replacements.
type MissingItem struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	OrderedQuantity int           `json:"orderedQuantity"`
	PickedQuantity  int           `json:"pickedQuantity"`
	MissingQuantity int           `json:"missingQuantity"`
	Replacements    []Replacement `json:"replacements"`
}

// SubstituteService suggests replacements for unfulfilled order lines.
type SubstituteService struct {
	catalogs   SnapshotProvider
	similarity *SimilarityService
}

// NewSubstituteService constructs a SubstituteService.
func NewSubstituteService(catalogs SnapshotProvider, similarity *SimilarityService) *SubstituteService {
	return &SubstituteService{catalogs: catalogs, similarity: similarity}
}

// ForOrderLines returns one MissingItem per line whose picked quantity is
// below the ordered quantity, in input order. perLine <= 0 uses
// DefaultSubstitutesPerLine.
func (s *SubstituteService) ForOrderLines(ctx context.Context, lines []OrderLine, perLine int) []MissingItem {
	if perLine <= 0 {
		perLine = DefaultSubstitutesPerLine
	}
	snap := s.catalogs.Snapshot()

	items := []MissingItem{}
	for _, line := range lines {
		missing := line.OrderedQuantity - line.PickedQuantity
		if missing <= 0 {
			continue
		}

		item := MissingItem{
			ID:              line.ProductID,
			OrderedQuantity: line.OrderedQuantity,
			PickedQuantity:  line.PickedQuantity,
			MissingQuantity: missing,
			Replacements:    []Replacement{},
		}
		if p, ok := snap.GetProductByID(line.ProductID); ok {
			item.Name = catalog.DisplayName(&p)
		}
		for _, r := range s.similarity.FindSimilarIn(ctx, snap, line.ProductID, perLine) {
			item.Replacements = append(item.Replacements, Replacement{ID: r.ID, Name: catalog.DisplayName(&r)})
		}
		items = append(items, item)
	}
	return items
}
