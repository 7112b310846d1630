package datastore

import (
	"fmt"
	"strings"

	"cennik/internal/models"
)

// Catalog reads a manufacturer's catalog file.
func (s *Store) Catalog(dataFile string) (*models.Catalog, error) {
	var catalog models.Catalog
	if err := s.readJSON(dataFile, &catalog); err != nil {
		return nil, err
	}
	if catalog.Categories == nil {
		catalog.Categories = map[string]map[string]*models.Product{}
	}
	return &catalog, nil
}

// SaveCatalog replaces a catalog file wholesale.
func (s *Store) SaveCatalog(dataFile string, catalog *models.Catalog) error {
	if catalog == nil {
		return fmt.Errorf("%w: empty catalog", ErrInvalid)
	}
	l := s.lock(dataFile)
	l.Lock()
	defer l.Unlock()
	return s.writeJSON(dataFile, catalog)
}

// UpdateCatalog runs fn on the current catalog and writes the result back.
// Nothing is written when fn returns an error.
func (s *Store) UpdateCatalog(dataFile string, fn func(*models.Catalog) error) error {
	l := s.lock(dataFile)
	l.Lock()
	defer l.Unlock()

	catalog, err := s.Catalog(dataFile)
	if err != nil {
		return err
	}
	if err := fn(catalog); err != nil {
		return err
	}
	return s.writeJSON(dataFile, catalog)
}

// ProductUpdate describes an edit of one product. NewName renames the product
// when it differs from Name; Data replaces its content when set.
type ProductUpdate struct {
	Category string
	Name     string
	NewName  string
	Data     *models.Product
}

// UpdateProduct applies u to the catalog of the given data file and returns
// the final name and data of the product.
func (s *Store) UpdateProduct(dataFile string, u ProductUpdate) (string, *models.Product, error) {
	var (
		finalName string
		result    *models.Product
	)
	err := s.UpdateCatalog(dataFile, func(c *models.Catalog) error {
		var err error
		finalName, result, err = ApplyProductUpdate(c, u)
		return err
	})
	if err != nil {
		return "", nil, err
	}
	return finalName, result, nil
}

// ApplyProductUpdate edits c in place. A rename deletes the old key and
// inserts the data under the new key.
func ApplyProductUpdate(c *models.Catalog, u ProductUpdate) (string, *models.Product, error) {
	if u.Category == "" || u.Name == "" {
		return "", nil, fmt.Errorf("%w: category and productName are required", ErrInvalid)
	}
	products, ok := c.Categories[u.Category]
	if !ok {
		return "", nil, fmt.Errorf("category %q: %w", u.Category, ErrNotFound)
	}
	current, ok := products[u.Name]
	if !ok {
		return "", nil, fmt.Errorf("product %q in %q: %w", u.Name, u.Category, ErrNotFound)
	}

	data := current
	if u.Data != nil {
		data = u.Data.Clone()
	}

	newName := strings.TrimSpace(u.NewName)
	if newName == "" || newName == u.Name {
		products[u.Name] = data
		return u.Name, data, nil
	}
	if _, exists := products[newName]; exists {
		return "", nil, fmt.Errorf("%w: product %q already exists in %q", ErrConflict, newName, u.Category)
	}
	delete(products, u.Name)
	products[newName] = data
	return newName, data, nil
}

// DeleteProduct removes category/name from the catalog.
func (s *Store) DeleteProduct(dataFile, category, name string) error {
	return s.UpdateCatalog(dataFile, func(c *models.Catalog) error {
		products, ok := c.Categories[category]
		if !ok {
			return fmt.Errorf("category %q: %w", category, ErrNotFound)
		}
		if _, ok := products[name]; !ok {
			return fmt.Errorf("product %q in %q: %w", name, category, ErrNotFound)
		}
		delete(products, name)
		return nil
	})
}
