// Package vision sends scanned price-list PDFs to the Anthropic Messages API
// and returns the transcribed text.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cennik/internal/logger"

	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL   = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
	maxTokens        = 8192
)

var ErrNotConfigured = errors.New("vision API key not configured")

const transcribePrompt = "Przepisz całą treść tego cennika jako zwykły tekst. " +
	"Każdy wiersz tabeli zapisz w osobnej linii, a kolumny rozdziel średnikiem (;). " +
	"Nie dodawaj komentarzy ani formatowania Markdown."

type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(apiKey, model string, logger *logger.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

// WithBaseURL points the client at another endpoint. Used by tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimRight(url, "/")
	return c
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *blockSource `json:"source,omitempty"`
}

type blockSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

// ExtractText asks the model to transcribe the PDF document.
func (c *Client) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	request := messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []message{
			{
				Role: "user",
				Content: []contentBlock{
					{
						Type: "document",
						Source: &blockSource{
							Type:      "base64",
							MediaType: "application/pdf",
							Data:      base64.StdEncoding.EncodeToString(pdf),
						},
					},
					{Type: "text", Text: transcribePrompt},
				},
			},
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	c.logger.Debug("Sending %d byte PDF to vision model %s", len(pdf), c.model)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = string(body)
		}
		return "", fmt.Errorf("vision API error (%d): %s", resp.StatusCode, msg)
	}

	var parts []string
	gjson.GetBytes(body, "content").ForEach(func(_, block gjson.Result) bool {
		if block.Get("type").String() == "text" {
			parts = append(parts, block.Get("text").String())
		}
		return true
	})
	if len(parts) == 0 {
		return "", fmt.Errorf("no text in vision response")
	}

	return strings.Join(parts, "\n"), nil
}
