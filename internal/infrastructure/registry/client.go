// Package registry fetches the remote plugin catalog and install-count
// stats, and caches both behind independent freshness windows.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pluginforge.dev/cli/internal/core/domain/plugin"
)

// Client fetches the catalog and stats documents over HTTP.
type Client struct {
	registryURL    string
	statsURL       string
	catalogTimeout time.Duration
	statsTimeout   time.Duration
	client         *http.Client
}

// NewClient creates a registry client. Each fetch carries its own
// timeout; the catalog is the critical path, stats are best-effort.
func NewClient(registryURL, statsURL string, catalogTimeout, statsTimeout time.Duration) *Client {
	return &Client{
		registryURL:    registryURL,
		statsURL:       statsURL,
		catalogTimeout: catalogTimeout,
		statsTimeout:   statsTimeout,
		client:         &http.Client{},
	}
}

// FetchCatalog downloads and decodes the catalog document.
func (c *Client) FetchCatalog(ctx context.Context) (*plugin.Catalog, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.catalogTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, "GET", c.registryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("registry returned %d: %s", resp.StatusCode, string(body))
	}

	var catalog plugin.Catalog
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to decode registry: %w", err)
	}

	for i := range catalog.Plugins {
		if catalog.Plugins[i].Icon == "" {
			catalog.Plugins[i].Icon = plugin.DefaultIcon
		}
		if catalog.Plugins[i].PluginPath == "" {
			catalog.Plugins[i].PluginPath = "."
		}
	}

	return &catalog, nil
}

// statsDocument is the wire shape of the stats endpoint.
type statsDocument struct {
	Counts map[string]int `json:"counts"`
}

// FetchStats downloads the install-count mapping.
func (c *Client) FetchStats(ctx context.Context) (map[string]int, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.statsTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, "GET", c.statsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats endpoint returned %d", resp.StatusCode)
	}

	var doc statsDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}
	if doc.Counts == nil {
		doc.Counts = make(map[string]int)
	}

	return doc.Counts, nil
}
