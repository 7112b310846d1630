// Package auth checks back-office logins against credentials.json and issues
// the opaque session token the admin routes expect.
//
// The token only encodes who logged in and when; it carries no signature and
// is re-validated against credentials.json on every request.
package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cennik/internal/datastore"
	"cennik/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Role == models.RoleAdmin
}

type Service struct {
	store *datastore.Store
	now   func() time.Time
}

func NewService(store *datastore.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Login checks the password and returns a token for the account.
func (s *Service) Login(username, password string) (string, *User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	cred, err := s.find(username)
	if err != nil {
		return "", nil, err
	}
	if cred == nil || !passwordMatches(cred.Password, password) {
		return "", nil, ErrInvalidCredentials
	}

	user := &User{Username: cred.Username, Role: cred.Role}
	return EncodeToken(user, s.now()), user, nil
}

// Authenticate decodes a token and checks the account still exists with the
// same role.
func (s *Service) Authenticate(token string) (*User, error) {
	user, _, err := DecodeToken(token)
	if err != nil {
		return nil, err
	}

	cred, err := s.find(user.Username)
	if err != nil {
		return nil, err
	}
	if cred == nil || cred.Role != user.Role {
		return nil, ErrInvalidToken
	}
	return user, nil
}

func (s *Service) find(username string) (*models.Credential, error) {
	creds, err := s.store.Credentials()
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}
	for i := range creds {
		if creds[i].Username == username {
			return &creds[i], nil
		}
	}
	return nil, nil
}

// passwordMatches accepts bcrypt hashes as well as plain passwords.
func passwordMatches(stored, given string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

// EncodeToken builds base64(username:role:timestampMillis:random).
func EncodeToken(user *User, issued time.Time) string {
	nonce := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	raw := fmt.Sprintf("%s:%s:%d:%s", user.Username, user.Role, issued.UnixMilli(), nonce)
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// DecodeToken reverses EncodeToken. Usernames may themselves contain colons.
func DecodeToken(token string) (*User, time.Time, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return nil, time.Time{}, ErrInvalidToken
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) < 4 {
		return nil, time.Time{}, ErrInvalidToken
	}
	n := len(parts)
	millis, err := strconv.ParseInt(parts[n-2], 10, 64)
	if err != nil {
		return nil, time.Time{}, ErrInvalidToken
	}

	user := &User{
		Username: strings.Join(parts[:n-3], ":"),
		Role:     parts[n-3],
	}
	if user.Username == "" || user.Role == "" {
		return nil, time.Time{}, ErrInvalidToken
	}
	return user, time.UnixMilli(millis), nil
}

// HashPassword returns a bcrypt hash suitable for credentials.json.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
