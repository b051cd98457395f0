// ABOUTME: Catalog source backed by another analyzer's catalog API
// ABOUTME: Optionally tunnels through an SSH jumpbox via SOCKS5 (CATALOG_ALL_PROXY)

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	proxy "github.com/cloudfoundry/socks5-proxy"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

// RemoteSource reads /api/v1/catalog/* from a central analyzer deployment.
type RemoteSource struct {
	baseURL string
	client  *http.Client
}

// NewRemoteSource creates a remote source. allProxy, when set, has the form
// ssh+socks5://user@host:port?private-key=/path/to/key.
func NewRemoteSource(baseURL, allProxy string) *RemoteSource {
	transport := &http.Transport{
		TLSHandshakeTimeout: 30 * time.Second,
	}

	if allProxy != "" {
		dialContextFunc := createSOCKS5DialContextFunc(allProxy)
		if dialContextFunc != nil {
			transport.DialContext = dialContextFunc
		}
	}

	return &RemoteSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// SetHTTPClient allows overriding the HTTP client (useful for testing)
func (s *RemoteSource) SetHTTPClient(client *http.Client) {
	s.client = client
}

func (s *RemoteSource) Name() string { return "remote" }

func (s *RemoteSource) Providers(ctx context.Context) ([]models.Provider, error) {
	var providers []models.Provider
	if err := s.get(ctx, "/api/v1/catalog/providers", nil, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

func (s *RemoteSource) Regions(ctx context.Context, providerID string) ([]models.Region, error) {
	var regions []models.Region
	q := url.Values{"cloud": {providerID}}
	if err := s.get(ctx, "/api/v1/catalog/regions", q, &regions); err != nil {
		return nil, err
	}
	return regions, nil
}

// LookupCatalog fetches instance types priced for region. The remote resolves
// prices, so each entry carries a single price keyed by region, or a default
// price when no region is given.
func (s *RemoteSource) LookupCatalog(ctx context.Context, providerID, region string) ([]models.CatalogEntry, error) {
	q := url.Values{"cloud": {providerID}}
	if region != "" {
		q.Set("region", region)
	}

	var instances []models.InstanceSummary
	if err := s.get(ctx, "/api/v1/catalog/instances", q, &instances); err != nil {
		return nil, err
	}

	out := make([]models.CatalogEntry, len(instances))
	for i, inst := range instances {
		entry := models.CatalogEntry{
			ProviderID: providerID,
			InstanceID: inst.ID,
			Name:       inst.Name,
			Cores:      inst.Cores,
			MemoryGB:   inst.MemoryGB,
		}
		if region != "" {
			entry.HourlyUSDByRegion = map[string]float64{region: inst.HourlyUSD}
		} else {
			entry.DefaultHourlyUSD = models.Some(inst.HourlyUSD)
		}
		out[i] = entry
	}
	return out, nil
}

func (s *RemoteSource) get(ctx context.Context, path string, query url.Values, out any) error {
	u := s.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrProviderNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("catalog API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// createSOCKS5DialContextFunc creates a dial function for SSH+SOCKS5 proxy connections.
// Supports format: ssh+socks5://user@host:port?private-key=/path/to/key
func createSOCKS5DialContextFunc(allProxy string) func(ctx context.Context, network, address string) (net.Conn, error) {
	allProxy = strings.TrimPrefix(allProxy, "ssh+")

	proxyURL, err := url.Parse(allProxy)
	if err != nil {
		slog.Error("Failed to parse CATALOG_ALL_PROXY URL", "error", err)
		return nil
	}

	username := ""
	if proxyURL.User != nil {
		username = proxyURL.User.Username()
	}

	proxySSHKeyPath := proxyURL.Query().Get("private-key")
	if proxySSHKeyPath == "" {
		slog.Error("CATALOG_ALL_PROXY missing required 'private-key' query param")
		return nil
	}

	proxySSHKey, err := os.ReadFile(proxySSHKeyPath)
	if err != nil {
		slog.Error("Failed to read SSH private key", "path", proxySSHKeyPath, "error", err)
		return nil
	}

	socks5Proxy := proxy.NewSocks5Proxy(proxy.NewHostKey(), log.Default(), 1*time.Minute)

	var (
		dialer proxy.DialFunc
		mut    sync.RWMutex
	)

	return func(ctx context.Context, network, address string) (net.Conn, error) {
		mut.RLock()
		haveDialer := dialer != nil
		mut.RUnlock()

		if haveDialer {
			return dialer(network, address)
		}

		mut.Lock()
		defer mut.Unlock()
		if dialer == nil {
			proxyDialer, err := socks5Proxy.Dialer(username, string(proxySSHKey), proxyURL.Host)
			if err != nil {
				return nil, fmt.Errorf("error creating SOCKS5 dialer: %w", err)
			}
			dialer = proxyDialer
		}
		return dialer(network, address)
	}
}
