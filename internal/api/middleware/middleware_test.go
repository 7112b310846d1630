package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"cennik/internal/auth"
	"cennik/internal/datastore"
	"cennik/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func adminRouter(t *testing.T) (*gin.Engine, *auth.Service) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, datastore.CredentialsFile), []byte(
		`[{"username":"ania","password":"tajne","role":"admin"},{"username":"ola","password":"x","role":"editor"}]`), 0644))
	svc := auth.NewService(datastore.New(dir))

	r := gin.New()
	r.Use(Recovery(logger.Nop()))
	r.GET("/admin", RequireAdmin(svc, logger.Nop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUser(c).Username})
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r, svc
}

func TestRequireAdmin(t *testing.T) {
	r, svc := adminRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _, err := svc.Login("ania", "tajne")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ania")

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookie, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	editorToken, _, err := svc.Login("ola", "x")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+editorToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRecovery(t *testing.T) {
	r, _ := adminRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://cennik.example.com"}))
	r.GET("/api/producers", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/producers", nil)
	req.Header.Set("Origin", "https://cennik.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://cennik.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
