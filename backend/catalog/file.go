// ABOUTME: Catalog source backed by provider documents on disk or embedded defaults
// ABOUTME: One YAML or JSON document per provider, loaded once at startup

package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

//go:embed data/*.yaml
var defaultData embed.FS

// providerDocument is the on-disk shape of one provider's catalog.
type providerDocument struct {
	ID            string             `json:"id" yaml:"id"`
	Name          string             `json:"name" yaml:"name"`
	Regions       []regionDocument   `json:"regions" yaml:"regions"`
	InstanceTypes []instanceDocument `json:"instance_types" yaml:"instance_types"`
}

type regionDocument struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type instanceDocument struct {
	ID        string                   `json:"id" yaml:"id"`
	Name      string                   `json:"name" yaml:"name"`
	Cores     int                      `json:"cores" yaml:"cores"`
	MemoryGB  float64                  `json:"memory_gb" yaml:"memory_gb"`
	HourlyUSD models.Optional[float64] `json:"hourly_usd" yaml:"hourly_usd"`
	Prices    map[string]float64       `json:"prices" yaml:"prices"`
}

// FileSource serves provider documents held in memory.
type FileSource struct {
	name      string
	providers map[string]providerDocument
}

// NewFileSource loads every *.yaml, *.yml, and *.json document in dir. An
// empty dir loads the embedded default catalogs.
func NewFileSource(dir string) (*FileSource, error) {
	if dir == "" {
		sub, err := fs.Sub(defaultData, "data")
		if err != nil {
			return nil, fmt.Errorf("opening embedded catalogs: %w", err)
		}
		return loadFileSource("embedded", sub)
	}
	return loadFileSource("file:"+dir, os.DirFS(dir))
}

func loadFileSource(name string, fsys fs.FS) (*FileSource, error) {
	files, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading catalog directory: %w", err)
	}

	src := &FileSource{name: name, providers: make(map[string]providerDocument)}
	for _, f := range files {
		ext := strings.ToLower(path.Ext(f.Name()))
		if f.IsDir() || (ext != ".yaml" && ext != ".yml" && ext != ".json") {
			continue
		}

		data, err := fs.ReadFile(fsys, f.Name())
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name(), err)
		}

		doc, err := parseProviderDocument(data, ext)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f.Name(), err)
		}
		if doc.ID == "" {
			doc.ID = strings.TrimSuffix(f.Name(), path.Ext(f.Name()))
		}
		if doc.Name == "" {
			doc.Name = strings.ToUpper(doc.ID)
		}
		if err := checkDocument(doc); err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name(), err)
		}
		if _, dup := src.providers[doc.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate provider %q", f.Name(), doc.ID)
		}
		src.providers[doc.ID] = doc
	}
	return src, nil
}

func parseProviderDocument(data []byte, ext string) (providerDocument, error) {
	var doc providerDocument
	if ext == ".json" {
		err := json.Unmarshal(data, &doc)
		return doc, err
	}
	err := yaml.Unmarshal(data, &doc)
	return doc, err
}

func checkDocument(doc providerDocument) error {
	seen := make(map[string]bool)
	for _, inst := range doc.InstanceTypes {
		if inst.ID == "" {
			return fmt.Errorf("instance type without id")
		}
		if seen[inst.ID] {
			return fmt.Errorf("duplicate instance type %q", inst.ID)
		}
		seen[inst.ID] = true
		if inst.Cores <= 0 || inst.MemoryGB <= 0 {
			return fmt.Errorf("instance type %q: cores and memory_gb must be positive", inst.ID)
		}
	}
	return nil
}

func (s *FileSource) Name() string { return s.name }

func (s *FileSource) Providers(_ context.Context) ([]models.Provider, error) {
	out := make([]models.Provider, 0, len(s.providers))
	for _, p := range s.providers {
		out = append(out, models.Provider{ID: p.ID, Name: p.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *FileSource) Regions(_ context.Context, providerID string) ([]models.Region, error) {
	p, ok := s.providers[providerID]
	if !ok {
		return nil, ErrProviderNotFound
	}
	out := make([]models.Region, len(p.Regions))
	for i, r := range p.Regions {
		name := r.Name
		if name == "" {
			name = r.ID
		}
		out[i] = models.Region{ID: r.ID, Name: name}
	}
	return out, nil
}

// LookupCatalog returns every instance type for the provider. Region does not
// filter entries; prices are resolved per region by the caller.
func (s *FileSource) LookupCatalog(_ context.Context, providerID, _ string) ([]models.CatalogEntry, error) {
	p, ok := s.providers[providerID]
	if !ok {
		return nil, ErrProviderNotFound
	}
	out := make([]models.CatalogEntry, len(p.InstanceTypes))
	for i, inst := range p.InstanceTypes {
		name := inst.Name
		if name == "" {
			name = inst.ID
		}
		prices := make(map[string]float64, len(inst.Prices))
		for r, price := range inst.Prices {
			prices[r] = price
		}
		out[i] = models.CatalogEntry{
			ProviderID:        p.ID,
			InstanceID:        inst.ID,
			Name:              name,
			Cores:             inst.Cores,
			MemoryGB:          inst.MemoryGB,
			HourlyUSDByRegion: prices,
			DefaultHourlyUSD:  inst.HourlyUSD,
		}
	}
	return out, nil
}
