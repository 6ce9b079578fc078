package catalog_test

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/GTDGit/grocery_api/internal/catalog"
	"github.com/GTDGit/grocery_api/internal/models"
)

const envelopeDoc = `{
  "products": [
    {
      "id": "A",
      "names": [{"value": "Whole Milk", "language": "en"}],
      "categories": [{"code": "DAIRY", "name": "Dairy"}],
      "price": 1.29,
      "ean": "6408430000012",
      "vendor": {"code": "V1", "name": "Valio"},
      "image": "https://example.com/a.png"
    }
  ]
}`

func TestDecode(t *testing.T) {
	c := qt.New(t)

	products, err := catalog.Decode(strings.NewReader(envelopeDoc))
	c.Assert(err, qt.IsNil)
	c.Assert(products, qt.DeepEquals, []models.Product{{
		ID:         "A",
		Names:      models.TranslatedNames{{Value: "Whole Milk", Language: "en"}},
		Categories: models.Categories{{Code: "DAIRY", Name: "Dairy"}},
		Price:      1.29,
		EAN:        "6408430000012",
		Vendor:     models.Vendor{Code: "V1", Name: "Valio"},
		Image:      "https://example.com/a.png",
	}})
}

func TestDecodeShapes(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantLen int
		wantErr string
	}{
		{name: "bare array", doc: ` [{"id":"A"},{"id":"B"}]`, wantLen: 2},
		{name: "empty envelope list", doc: `{"products": []}`, wantLen: 0},
		{name: "missing products field", doc: `{"items": []}`, wantErr: catalog.ErrNoProducts.Error()},
		{name: "malformed json", doc: `{"products": [`, wantErr: "failed to decode catalog: .*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			products, err := catalog.Decode(strings.NewReader(tt.doc))
			if tt.wantErr != "" {
				c.Assert(err, qt.ErrorMatches, tt.wantErr)
				return
			}
			c.Assert(err, qt.IsNil)
			c.Assert(products, qt.HasLen, tt.wantLen)
		})
	}
}

func TestNormalize(t *testing.T) {
	c := qt.New(t)

	in := []models.Product{
		{ID: "A", Price: 1},
		{ID: "", Price: 1},
		{ID: "B", Price: -0.5},
		{ID: "A", Price: 2},
		{ID: "C"},
	}

	out, stats := catalog.Normalize(in)
	c.Assert(ids(out), qt.DeepEquals, []string{"A", "C"})
	c.Assert(out[0].Price, qt.Equals, 1.0)
	c.Assert(stats, qt.DeepEquals, catalog.NormalizeStats{Total: 5, Kept: 2, Invalid: 2, Duplicates: 1})
}
