// ABOUTME: Instance catalog types shared by catalog sources and the recommendation search
// ABOUTME: Resolves a regional hourly price with default and first-region fallbacks

package models

import (
	"sort"
	"strings"
)

// Provider is a cloud or on-prem offering with its own instance catalog.
type Provider struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Region is a pricing region within a provider.
type Region struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CatalogEntry is a priced, sized instance type. Entries are read-only once
// handed to the engine.
type CatalogEntry struct {
	ProviderID        string             `json:"provider_id"`
	InstanceID        string             `json:"instance_id"`
	Name              string             `json:"name"`
	Cores             int                `json:"cores"`
	MemoryGB          float64            `json:"memory_gb"`
	HourlyUSDByRegion map[string]float64 `json:"hourly_usd_by_region,omitempty"`
	DefaultHourlyUSD  Optional[float64]  `json:"default_hourly_usd,omitzero"`
}

// HourlyUSD resolves the price for region: the regional price when listed,
// then the default price, then the price of the lexically first region.
// ok is false when the entry carries no price at all.
func (e CatalogEntry) HourlyUSD(region string) (price float64, ok bool) {
	if region != "" {
		if p, found := e.HourlyUSDByRegion[region]; found {
			return p, true
		}
	}
	if p, found := e.DefaultHourlyUSD.Get(); found {
		return p, true
	}
	if len(e.HourlyUSDByRegion) == 0 {
		return 0, false
	}
	regions := make([]string, 0, len(e.HourlyUSDByRegion))
	for r := range e.HourlyUSDByRegion {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return e.HourlyUSDByRegion[regions[0]], true
}

// InstanceSummary is a catalog entry with its price resolved for one region.
type InstanceSummary struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Cores     int     `json:"cores"`
	MemoryGB  float64 `json:"memory_gb"`
	HourlyUSD float64 `json:"hourly_usd"`
}

// Summarize resolves entries against region, dropping entries without a price.
func Summarize(entries []CatalogEntry, region string) []InstanceSummary {
	out := make([]InstanceSummary, 0, len(entries))
	for _, e := range entries {
		price, ok := e.HourlyUSD(region)
		if !ok {
			continue
		}
		out = append(out, InstanceSummary{
			ID:        e.InstanceID,
			Name:      e.Name,
			Cores:     e.Cores,
			MemoryGB:  e.MemoryGB,
			HourlyUSD: RoundPrice(price),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].ID, out[j].ID) < 0
	})
	return out
}
