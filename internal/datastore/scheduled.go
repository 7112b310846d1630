package datastore

import (
	"errors"

	"cennik/internal/models"
)

// ScheduledChanges returns the change log; a missing file is an empty log.
func (s *Store) ScheduledChanges() ([]models.ScheduledChange, error) {
	var changes []models.ScheduledChange
	if err := s.readJSON(ScheduledChangesFile, &changes); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []models.ScheduledChange{}, nil
		}
		return nil, err
	}
	return changes, nil
}

// UpdateScheduledChanges runs fn on the change log and persists the result.
func (s *Store) UpdateScheduledChanges(fn func([]models.ScheduledChange) ([]models.ScheduledChange, error)) error {
	l := s.lock(ScheduledChangesFile)
	l.Lock()
	defer l.Unlock()

	changes, err := s.ScheduledChanges()
	if err != nil {
		return err
	}
	updated, err := fn(changes)
	if err != nil {
		return err
	}
	return s.writeJSON(ScheduledChangesFile, updated)
}
