// Package upstream implements the HTTP client for the clinic backend that
// serves the raw report collections.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/smilecare/clinic-admin-api/internal/api/metrics"
	"github.com/smilecare/clinic-admin-api/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

// Config captures the settings for reaching the clinic backend.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client fetches collection endpoints shaped as {"<collection>": [...]},
// authenticated with a bearer token. An optional SourceCache short-circuits
// repeat fetches; cache failures are invisible to callers.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	cache      ports.SourceCache
	log        zerolog.Logger
}

func NewClient(cfg Config, cache ports.SourceCache, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		log:        log,
	}
}

// FetchCollection retrieves one raw collection. Non-2xx responses and
// malformed payloads surface as errors; the report service downgrades them
// to empty data.
func (c *Client) FetchCollection(ctx context.Context, name string) ([]map[string]any, error) {
	if c.cache != nil {
		if payload, ok := c.cache.Get(ctx, name); ok {
			var records []map[string]any
			if err := json.Unmarshal(payload, &records); err == nil {
				metrics.SourceCacheTotal.WithLabelValues("hit").Inc()
				return records, nil
			}
			c.log.Debug().Str("source", name).Msg("discarding undecodable cache entry")
		}
		metrics.SourceCacheTotal.WithLabelValues("miss").Inc()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+name, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", name, err)
	}

	records, raw, err := decodeEnvelope(body, name)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}

	if c.cache != nil {
		c.cache.Set(ctx, name, raw)
	}
	return records, nil
}

// decodeEnvelope unwraps {"<name>": [...]}. When the expected key is
// absent it falls back to the first value that decodes as a record array;
// a bare top-level array is accepted too.
func decodeEnvelope(body []byte, name string) ([]map[string]any, []byte, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		var records []map[string]any
		if arrErr := json.Unmarshal(body, &records); arrErr == nil {
			return records, body, nil
		}
		return nil, nil, fmt.Errorf("malformed payload: %w", err)
	}

	if raw, ok := envelope[name]; ok {
		var records []map[string]any
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, nil, fmt.Errorf("malformed collection %q: %w", name, err)
		}
		return records, raw, nil
	}

	for _, raw := range envelope {
		var records []map[string]any
		if err := json.Unmarshal(raw, &records); err == nil {
			return records, raw, nil
		}
	}
	return nil, nil, fmt.Errorf("no collection payload in response")
}
