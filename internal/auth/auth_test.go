package auth

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cennik/internal/datastore"
	"cennik/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()

	hash, err := HashPassword("sekret")
	require.NoError(t, err)
	creds := []models.Credential{
		{Username: "ania", Password: "tajne", Role: models.RoleAdmin},
		{Username: "bartek", Password: hash, Role: models.RoleAdmin},
		{Username: "cezary", Password: "haslo", Role: models.RoleEditor},
	}
	data, err := json.Marshal(creds)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, datastore.CredentialsFile), data, 0644))

	return NewService(datastore.New(dir))
}

func TestService_Login(t *testing.T) {
	s := newService(t)

	token, user, err := s.Login("ania", "tajne")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())
	assert.NotEmpty(t, token)

	_, _, err = s.Login("bartek", "sekret")
	require.NoError(t, err, "bcrypt hashes are accepted")

	_, _, err = s.Login("ania", "zle")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.Login("nikt", "tajne")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.Login("", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Authenticate(t *testing.T) {
	s := newService(t)

	token, _, err := s.Login("cezary", "haslo")
	require.NoError(t, err)
	user, err := s.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "cezary", user.Username)
	assert.False(t, user.IsAdmin())

	forged := EncodeToken(&User{Username: "cezary", Role: models.RoleAdmin}, time.Now())
	_, err = s.Authenticate(forged)
	assert.ErrorIs(t, err, ErrInvalidToken, "role must match credentials.json")

	_, err = s.Authenticate("not base64!")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRoundTrip(t *testing.T) {
	issued := time.UnixMilli(1767225600000)
	token := EncodeToken(&User{Username: "jan:kowalski", Role: "admin"}, issued)

	raw, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Regexp(t, `^jan:kowalski:admin:1767225600000:[0-9a-f]{12}$`, string(raw))

	user, at, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, "jan:kowalski", user.Username)
	assert.Equal(t, "admin", user.Role)
	assert.True(t, at.Equal(issued))
}
