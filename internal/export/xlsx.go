// Package export renders catalog snapshots for warehouse staff.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/GTDGit/grocery_api/internal/catalog"
	"github.com/GTDGit/grocery_api/internal/models"
)

// SheetName is the worksheet products are written to.
const SheetName = "Sheet1"

// Header is the first row of every export.
var Header = []any{"ID", "Name", "Categories", "Price", "EAN", "Vendor"}

// WriteXLSX writes one row per product, in catalog order, after Header.
func WriteXLSX(w io.Writer, products []models.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(SheetName, "A1", &Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range products {
		p := &products[i]
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			p.ID,
			catalog.DisplayName(p),
			strings.Join(p.CategoryCodes(), ", "),
			p.Price,
			p.EAN,
			p.Vendor.Name,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write product %s: %w", p.ID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
