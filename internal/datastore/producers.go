package datastore

import (
	"errors"
	"fmt"
	"strings"

	"cennik/internal/models"
)

// Producers returns the registry. A missing producers.json is an empty registry.
func (s *Store) Producers() ([]models.Producer, error) {
	var producers []models.Producer
	if err := s.readJSON(ProducersFile, &producers); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []models.Producer{}, nil
		}
		return nil, err
	}
	return producers, nil
}

// Producer finds one registry entry by slug.
func (s *Store) Producer(slug string) (*models.Producer, error) {
	producers, err := s.Producers()
	if err != nil {
		return nil, err
	}
	for i := range producers {
		if producers[i].Slug == slug {
			return &producers[i], nil
		}
	}
	return nil, fmt.Errorf("producer %q: %w", slug, ErrNotFound)
}

// SaveProducers replaces the whole registry after validating it.
func (s *Store) SaveProducers(producers []models.Producer) error {
	if err := ValidateProducers(producers); err != nil {
		return err
	}
	l := s.lock(ProducersFile)
	l.Lock()
	defer l.Unlock()
	return s.writeJSON(ProducersFile, producers)
}

// ValidateProducers checks slugs are present and unique and data files are
// plain file names.
func ValidateProducers(producers []models.Producer) error {
	seen := make(map[string]bool, len(producers))
	for i, p := range producers {
		slug := strings.TrimSpace(p.Slug)
		if slug == "" {
			return fmt.Errorf("%w: producer #%d has no slug", ErrInvalid, i)
		}
		if seen[slug] {
			return fmt.Errorf("%w: duplicate slug %q", ErrInvalid, slug)
		}
		seen[slug] = true
		if p.DataFile == "" || strings.ContainsAny(p.DataFile, `/\`) || !strings.HasSuffix(p.DataFile, ".json") {
			return fmt.Errorf("%w: producer %q has invalid dataFile %q", ErrInvalid, slug, p.DataFile)
		}
		if p.PriceFactor < 0 {
			return fmt.Errorf("%w: producer %q has negative priceFactor", ErrInvalid, slug)
		}
	}
	return nil
}
