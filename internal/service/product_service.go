package service

import (
	"time"

	"github.com/GTDGit/grocery_api/internal/catalog"
	"github.com/GTDGit/grocery_api/internal/models"
)

// ProductService provides read access to the current catalog snapshot.
type ProductService struct {
	catalogs SnapshotProvider
}

// NewProductService constructs a ProductService.
func NewProductService(catalogs SnapshotProvider) *ProductService {
	return &ProductService{catalogs: catalogs}
}

// GetProductByID returns a product by id. The boolean is false when unknown.
func (s *ProductService) GetProductByID(id string) (models.Product, bool) {
	return s.catalogs.Snapshot().GetProductByID(id)
}

// GetProducts returns a zero-based page of the catalog, or all of it for catalog.AllPages.
func (s *ProductService) GetProducts(page int) models.PageResult {
	return s.catalogs.Snapshot().GetProducts(page)
}

// SearchProducts filters the catalog by name tokens.
func (s *ProductService) SearchProducts(query string) []models.Product {
	return s.catalogs.Snapshot().SearchProducts(query)
}

// Stats reports the size and version of the current snapshot.
func (s *ProductService) Stats() CatalogStats {
	snap := s.catalogs.Snapshot()
	return CatalogStats{Products: snap.Len(), Version: snap.Version(), LoadedAt: snap.LoadedAt()}
}

// CatalogStats summarizes the active catalog snapshot.
type CatalogStats struct {
	Products int       `json:"products"`
	Version  uint64    `json:"version"`
	LoadedAt time.Time `json:"loadedAt"`
}

var _ CatalogAccessor = (*catalog.Catalog)(nil)
