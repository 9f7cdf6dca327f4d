package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	libreTranslateBackend = "libretranslate"

	// DefaultMaxResponseSize caps a LibreTranslate response body
	DefaultMaxResponseSize = 8 << 20
)

// LibreTranslate calls the /translate endpoint of a LibreTranslate server
type LibreTranslate struct {
	httpClient      *http.Client
	endpoint        string
	apiKey          string
	maxResponseSize int64
}

func NewLibreTranslate(httpClient *http.Client, baseURL, apiKey string) *LibreTranslate {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &LibreTranslate{
		httpClient:      httpClient,
		endpoint:        strings.TrimRight(baseURL, "/") + "/translate",
		apiKey:          apiKey,
		maxResponseSize: DefaultMaxResponseSize,
	}
}

type libreTranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreTranslateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

func (l *LibreTranslate) Translate(ctx context.Context, text, target string) (string, error) {
	body, err := json.Marshal(libreTranslateRequest{
		Q:      text,
		Source: "auto",
		Target: target,
		Format: "html",
		APIKey: l.apiKey,
	})
	if err != nil {
		return "", l.fail(fmt.Errorf("failed to encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", l.fail(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", l.fail(fmt.Errorf("failed to call translation service: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxResponseSize+1))
	if err != nil {
		return "", l.fail(fmt.Errorf("failed to read response body: %w", err))
	}
	if int64(len(data)) > l.maxResponseSize {
		return "", l.fail(fmt.Errorf("response body exceeds %d bytes", l.maxResponseSize))
	}

	var result libreTranslateResponse
	if err := json.Unmarshal(data, &result); err != nil && resp.StatusCode == http.StatusOK {
		return "", l.fail(fmt.Errorf("failed to decode response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		if result.Error != "" {
			return "", l.fail(fmt.Errorf("HTTP error: %d: %s", resp.StatusCode, result.Error))
		}
		return "", l.fail(fmt.Errorf("HTTP error: %d", resp.StatusCode))
	}

	if result.TranslatedText == "" {
		return "", l.fail(fmt.Errorf("empty translation"))
	}

	return result.TranslatedText, nil
}

func (l *LibreTranslate) fail(err error) error {
	return &TranslationError{Backend: libreTranslateBackend, Err: err}
}
