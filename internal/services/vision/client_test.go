package vision

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cennik/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestClient_ExtractText(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "test-model", gjson.GetBytes(body, "model").String())
		doc := gjson.GetBytes(body, "messages.0.content.0")
		assert.Equal(t, "document", doc.Get("type").String())
		assert.Equal(t, base64.StdEncoding.EncodeToString(pdf), doc.Get("source.data").String())

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Fotel Nidzica;1200;1350"}]}`))
	}))
	defer server.Close()

	c := NewClient("secret", "test-model", logger.Nop()).WithBaseURL(server.URL)
	text, err := c.ExtractText(context.Background(), pdf)
	require.NoError(t, err)
	assert.Equal(t, "Fotel Nidzica;1200;1350", text)
}

func TestClient_ExtractTextAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad pdf"}}`))
	}))
	defer server.Close()

	c := NewClient("secret", "m", logger.Nop()).WithBaseURL(server.URL)
	_, err := c.ExtractText(context.Background(), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad pdf")
}

func TestClient_NotConfigured(t *testing.T) {
	_, err := NewClient("", "m", logger.Nop()).ExtractText(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, ErrNotConfigured)
}
