package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/GTDGit/grocery_api/internal/models"
)

// Source supplies the raw catalog records.
type Source interface {
	Load(ctx context.Context) ([]models.Product, error)
	Name() string
}

// FileSource reads a JSON catalog document from disk.
type FileSource struct {
	Path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string { return "file:" + s.Path }

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// ProductLister lists every stored product in catalog order.
type ProductLister interface {
	ListAll(ctx context.Context) ([]models.Product, error)
}

// RepositorySource reads the catalog from a product repository.
type RepositorySource struct {
	repo ProductLister
}

// NewRepositorySource creates a RepositorySource backed by repo.
func NewRepositorySource(repo ProductLister) *RepositorySource {
	return &RepositorySource{repo: repo}
}

func (s *RepositorySource) Name() string { return "postgres" }

// Load implements Source.
func (s *RepositorySource) Load(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}
