package datastore

import (
	"errors"

	"cennik/internal/models"
)

// Credentials returns the accounts of credentials.json. A missing file means
// nobody can log in.
func (s *Store) Credentials() ([]models.Credential, error) {
	var creds []models.Credential
	if err := s.readJSON(CredentialsFile, &creds); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return creds, nil
}
