// ABOUTME: On-prem catalog source built from vCenter host inventory via govmomi
// ABOUTME: Each distinct host shape per cluster becomes an instance priced per core and GB

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/find"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/mo"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

// VSphereProviderID is the provider id served by VSphereSource.
const VSphereProviderID = "vsphere"

// VSphereCredentials holds vCenter connection info
type VSphereCredentials struct {
	Host       string
	Username   string
	Password   string
	Datacenter string
	Insecure   bool
}

// VSpherePricing converts host capacity into an internal hourly chargeback rate.
type VSpherePricing struct {
	CoreHourlyUSD     float64
	MemoryGBHourlyUSD float64
}

func (p VSpherePricing) hourly(cores int, memoryGB float64) float64 {
	return float64(cores)*p.CoreHourlyUSD + memoryGB*p.MemoryGBHourlyUSD
}

// hostShape is the hardware of one ESXi host.
type hostShape struct {
	Cluster  string
	Cores    int
	MemoryGB float64
}

// VSphereSource lists host shapes from one vCenter datacenter.
type VSphereSource struct {
	creds   VSphereCredentials
	pricing VSpherePricing

	mu     sync.Mutex
	client *govmomi.Client
	finder *find.Finder
}

// NewVSphereSource creates a source; it connects lazily on first use.
func NewVSphereSource(creds VSphereCredentials, pricing VSpherePricing) *VSphereSource {
	return &VSphereSource{creds: creds, pricing: pricing}
}

func (v *VSphereSource) Name() string { return VSphereProviderID }

// Connect establishes connection to vCenter
func (v *VSphereSource) Connect(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.connectLocked(ctx)
}

func (v *VSphereSource) connectLocked(ctx context.Context) error {
	if v.client != nil {
		return nil
	}

	host := v.creds.Host
	if !strings.HasPrefix(host, "https://") && !strings.HasPrefix(host, "http://") {
		host = "https://" + host
	}

	u, err := url.Parse(strings.TrimSuffix(host, "/sdk") + "/sdk")
	if err != nil {
		return fmt.Errorf("invalid vCenter URL '%s': %w", v.creds.Host, err)
	}
	u.User = url.UserPassword(v.creds.Username, v.creds.Password)

	client, err := govmomi.NewClient(ctx, u, v.creds.Insecure)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "connection refused") {
			return fmt.Errorf("connection refused to vCenter at %s - verify the host is reachable", v.creds.Host)
		}
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "Cannot complete login") {
			return fmt.Errorf("authentication failed - verify username and password")
		}
		if strings.Contains(errStr, "certificate") || strings.Contains(errStr, "x509") {
			return fmt.Errorf("SSL certificate error connecting to %s - try setting VSPHERE_INSECURE=true", v.creds.Host)
		}
		return fmt.Errorf("failed to connect to vCenter at %s: %w", v.creds.Host, err)
	}

	finder := find.NewFinder(client.Client, true)
	dc, err := finder.DatacenterOrDefault(ctx, v.creds.Datacenter)
	if err != nil {
		_ = client.Logout(ctx)
		return fmt.Errorf("error accessing datacenter '%s': %w", v.creds.Datacenter, err)
	}
	finder.SetDatacenter(dc)

	v.client = client
	v.finder = finder
	slog.Info("vSphere catalog connected", "datacenter", v.creds.Datacenter)
	return nil
}

// Disconnect closes the vCenter connection
func (v *VSphereSource) Disconnect(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.client == nil {
		return nil
	}
	err := v.client.Logout(ctx)
	v.client = nil
	v.finder = nil
	return err
}

func (v *VSphereSource) Providers(_ context.Context) ([]models.Provider, error) {
	return []models.Provider{{ID: VSphereProviderID, Name: "VMware vSphere (" + v.creds.Datacenter + ")"}}, nil
}

func (v *VSphereSource) Regions(_ context.Context, providerID string) ([]models.Region, error) {
	if providerID != VSphereProviderID {
		return nil, ErrProviderNotFound
	}
	return []models.Region{{ID: v.creds.Datacenter, Name: v.creds.Datacenter}}, nil
}

// LookupCatalog returns one entry per distinct host shape in each cluster.
func (v *VSphereSource) LookupCatalog(ctx context.Context, providerID, _ string) ([]models.CatalogEntry, error) {
	if providerID != VSphereProviderID {
		return nil, ErrProviderNotFound
	}

	shapes, err := v.hostShapes(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[hostShape]bool)
	var out []models.CatalogEntry
	for _, s := range shapes {
		if seen[s] {
			continue
		}
		seen[s] = true
		id := fmt.Sprintf("%s/%dc-%.0fg", s.Cluster, s.Cores, s.MemoryGB)
		out = append(out, models.CatalogEntry{
			ProviderID:       VSphereProviderID,
			InstanceID:       id,
			Name:             fmt.Sprintf("%s host (%d cores, %.0f GB)", s.Cluster, s.Cores, s.MemoryGB),
			Cores:            s.Cores,
			MemoryGB:         s.MemoryGB,
			DefaultHourlyUSD: models.Some(v.pricing.hourly(s.Cores, s.MemoryGB)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InstanceID < out[j].InstanceID })
	return out, nil
}

func (v *VSphereSource) hostShapes(ctx context.Context) ([]hostShape, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.connectLocked(ctx); err != nil {
		return nil, err
	}

	clusters, err := v.finder.ClusterComputeResourceList(ctx, "*")
	if err != nil {
		return nil, fmt.Errorf("listing clusters: %w", err)
	}

	var shapes []hostShape
	for _, cluster := range clusters {
		var clusterMo mo.ClusterComputeResource
		if err := cluster.Properties(ctx, cluster.Reference(), []string{"host"}, &clusterMo); err != nil {
			return nil, fmt.Errorf("getting cluster %s properties: %w", cluster.Name(), err)
		}

		for _, hostRef := range clusterMo.Host {
			host := object.NewHostSystem(v.client.Client, hostRef)
			var hostMo mo.HostSystem
			if err := host.Properties(ctx, host.Reference(), []string{"summary"}, &hostMo); err != nil {
				return nil, fmt.Errorf("getting host properties: %w", err)
			}
			hw := hostMo.Summary.Hardware
			if hw == nil {
				continue
			}
			shapes = append(shapes, hostShape{
				Cluster:  cluster.Name(),
				Cores:    int(hw.NumCpuThreads), // logical processors
				MemoryGB: math.Round(float64(hw.MemorySize) / (1 << 30)),
			})
		}
	}
	return shapes, nil
}
