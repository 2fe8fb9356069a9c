// Package gateway wraps the remote JSON blob store that holds the shared
// game document. The store has no schema versioning and no field-level
// merge: every fetch is a full read and every push a full replace.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BibaPutt/vibeathon-arena/internal/models"
)

const defaultTimeout = 10 * time.Second

// Config holds the blob store endpoint and credentials.
type Config struct {
	// BaseURL is the bin endpoint. Fetches read <BaseURL>/latest, pushes
	// PUT <BaseURL>.
	BaseURL string
	// MasterKey, when set, is sent as X-Master-Key on every request.
	MasterKey string
	Timeout   time.Duration
}

// Client talks to the remote blob store.
type Client struct {
	baseURL string
	headers map[string]string
	client  *http.Client
}

// NewClient creates a blob store client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	headers := map[string]string{
		// Ask the bin for the raw document, without metadata envelope.
		"X-Bin-Meta": "false",
	}
	if cfg.MasterKey != "" {
		headers["X-Master-Key"] = cfg.MasterKey
	}
	return &Client{
		baseURL: cfg.BaseURL,
		headers: headers,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchShared reads the latest shared document. Any transport, status, or
// decode failure is returned as an error; callers treat that as "no data"
// and keep their in-memory state.
func (c *Client) FetchShared(ctx context.Context) (*models.SharedState, error) {
	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/latest", nil)
	if err != nil {
		return nil, err
	}

	var shared models.SharedState
	if err := json.Unmarshal(body, &shared); err != nil {
		return nil, fmt.Errorf("failed to decode shared state: %w", err)
	}
	// A null or empty document decodes to a roster-less zero value; merging
	// it would wipe the local roster. Treat it as unreadable instead.
	if shared.Players == nil {
		return nil, fmt.Errorf("shared state document has no players: %q", string(body))
	}
	return &shared, nil
}

// PushShared replaces the remote document wholesale. Failures are the
// caller's to log; nothing is retried or queued here.
func (c *Client) PushShared(ctx context.Context, shared *models.SharedState) error {
	payload, err := json.Marshal(shared)
	if err != nil {
		return fmt.Errorf("failed to encode shared state: %w", err)
	}

	if _, err := c.do(ctx, http.MethodPut, c.baseURL, bytes.NewReader(payload)); err != nil {
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(resp.Body)
		log.Debug().
			Int("status", resp.StatusCode).
			Str("method", method).
			Msg("blob store rejected request")
		return nil, fmt.Errorf("blob store returned status code: %d, response: %s", resp.StatusCode, string(responseBody))
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return responseBody, nil
}
