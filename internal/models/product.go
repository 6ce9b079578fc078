package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// LanguageEnglish is the language tag preferred when resolving display names.
const LanguageEnglish = "en"

// TranslatedName is one localized display name of a product.
type TranslatedName struct {
	Value    string `json:"value"`
	Language string `json:"language"`
}

// ProductCategory is a classification tag. Code is the comparable key,
// Name is display-only.
type ProductCategory struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Vendor is the supplier reference of a product.
type Vendor struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Product represents an entry in the grocery catalog.
// Fields are tagged for DB scanning, JSON serialization and load-time validation.
type Product struct {
	ID         string          `db:"id" json:"id" validate:"required"`
	Names      TranslatedNames `db:"names" json:"names"`
	Categories Categories      `db:"categories" json:"categories"`
	Price      float64         `db:"price" json:"price" validate:"gte=0"`
	EAN        string          `db:"ean" json:"ean"`
	Vendor     Vendor          `db:"vendor" json:"vendor"`
	Image      string          `db:"image" json:"image,omitempty"`
}

// CategoryCodes returns every category code of the product in stored order.
func (p *Product) CategoryCodes() []string {
	codes := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		codes = append(codes, c.Code)
	}
	return codes
}

// PriceString formats the unit price for display, e.g. "1.99 €".
func (p *Product) PriceString() string {
	return fmt.Sprintf("%.2f €", p.Price)
}

// PageResult is a page of catalog entries plus the total catalog size.
type PageResult struct {
	Data     []Product `json:"data"`
	Page     int       `json:"page"`
	Total    int       `json:"total"`
	PageSize int       `json:"pageSize"`
}

// TranslatedNames is stored as a JSONB array.
type TranslatedNames []TranslatedName

// Categories is stored as a JSONB array.
type Categories []ProductCategory

// Value implements driver.Valuer.
func (n TranslatedNames) Value() (driver.Value, error) {
	if n == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(n)
}

// Scan implements sql.Scanner.
func (n *TranslatedNames) Scan(src any) error {
	return scanJSON(src, n)
}

// Value implements driver.Valuer.
func (c Categories) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner.
func (c *Categories) Scan(src any) error {
	return scanJSON(src, c)
}

// Value implements driver.Valuer.
func (v Vendor) Value() (driver.Value, error) {
	return json.Marshal(v)
}

// Scan implements sql.Scanner.
func (v *Vendor) Scan(src any) error {
	return scanJSON(src, v)
}

func scanJSON(src any, dst any) error {
	switch b := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(b, dst)
	case string:
		return json.Unmarshal([]byte(b), dst)
	default:
		return fmt.Errorf("unsupported JSON column type %T", src)
	}
}
