// ABOUTME: Live AWS on-demand prices layered over the static aws catalog
// ABOUTME: Queries the AWS Price List API per region and overrides matching instance prices

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/shopspring/decimal"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

// AWSProviderID is the provider whose prices the pricing source refreshes.
const AWSProviderID = "aws"

// pricingAPIRegion hosts the Price List API endpoint.
const pricingAPIRegion = "us-east-1"

// AWSPricingSource overrides prices of a base catalog's aws entries with
// current on-demand Linux prices for the enabled regions.
type AWSPricingSource struct {
	base    Source
	client  pricing.GetProductsAPIClient
	regions []string
}

// NewAWSPricingSource loads AWS credentials from the default chain.
func NewAWSPricingSource(ctx context.Context, base Source, regions []string) (*AWSPricingSource, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(pricingAPIRegion))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return NewAWSPricingSourceWithClient(base, pricing.NewFromConfig(cfg), regions), nil
}

// NewAWSPricingSourceWithClient uses the given Price List client (useful for testing)
func NewAWSPricingSourceWithClient(base Source, client pricing.GetProductsAPIClient, regions []string) *AWSPricingSource {
	return &AWSPricingSource{base: base, client: client, regions: regions}
}

func (s *AWSPricingSource) Name() string { return "aws-pricing" }

// Providers is empty; the base source lists aws.
func (s *AWSPricingSource) Providers(_ context.Context) ([]models.Provider, error) {
	return nil, nil
}

func (s *AWSPricingSource) Regions(ctx context.Context, providerID string) ([]models.Region, error) {
	if providerID != AWSProviderID {
		return nil, ErrProviderNotFound
	}
	return s.base.Regions(ctx, providerID)
}

// LookupCatalog returns the base aws entries with live prices for region.
// Regions outside the enabled list are served from the base unchanged.
func (s *AWSPricingSource) LookupCatalog(ctx context.Context, providerID, region string) ([]models.CatalogEntry, error) {
	if providerID != AWSProviderID {
		return nil, ErrProviderNotFound
	}

	entries, err := s.base.LookupCatalog(ctx, providerID, region)
	if err != nil {
		return nil, err
	}
	if region == "" || !slices.Contains(s.regions, region) {
		return entries, nil
	}

	prices, err := s.fetchPrices(ctx, region)
	if err != nil {
		return nil, err
	}

	out := make([]models.CatalogEntry, len(entries))
	updated := 0
	for i, e := range entries {
		if price, ok := prices[e.InstanceID]; ok {
			byRegion := make(map[string]float64, len(e.HourlyUSDByRegion)+1)
			for r, p := range e.HourlyUSDByRegion {
				byRegion[r] = p
			}
			byRegion[region] = price
			e.HourlyUSDByRegion = byRegion
			updated++
		}
		out[i] = e
	}
	slog.Debug("AWS prices refreshed", "region", region, "instance_types", updated, "products", len(prices))
	return out, nil
}

// priceListProduct is the subset of a Price List document we read.
type priceListProduct struct {
	Product struct {
		Attributes struct {
			InstanceType string `json:"instanceType"`
		} `json:"attributes"`
	} `json:"product"`
	Terms struct {
		OnDemand map[string]struct {
			PriceDimensions map[string]struct {
				Unit         string            `json:"unit"`
				PricePerUnit map[string]string `json:"pricePerUnit"`
			} `json:"priceDimensions"`
		} `json:"OnDemand"`
	} `json:"terms"`
}

func (s *AWSPricingSource) fetchPrices(ctx context.Context, region string) (map[string]float64, error) {
	input := &pricing.GetProductsInput{
		ServiceCode: aws.String("AmazonEC2"),
		Filters: []types.Filter{
			termMatch("regionCode", region),
			termMatch("operatingSystem", "Linux"),
			termMatch("tenancy", "Shared"),
			termMatch("preInstalledSw", "NA"),
			termMatch("capacitystatus", "Used"),
		},
		MaxResults: aws.Int32(100),
	}

	prices := make(map[string]float64)
	paginator := pricing.NewGetProductsPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("querying AWS prices for %s: %w", region, err)
		}
		for _, doc := range page.PriceList {
			instanceType, price, ok := parsePriceListItem(doc)
			if !ok {
				continue
			}
			prices[instanceType] = price
		}
	}
	return prices, nil
}

// parsePriceListItem extracts the hourly USD on-demand price. Zero prices
// (reservation placeholders) are ignored.
func parsePriceListItem(doc string) (string, float64, bool) {
	var p priceListProduct
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		slog.Debug("Skipping unparseable price list item", "error", err)
		return "", 0, false
	}
	instanceType := p.Product.Attributes.InstanceType
	if instanceType == "" {
		return "", 0, false
	}

	for _, term := range p.Terms.OnDemand {
		for _, dim := range term.PriceDimensions {
			if dim.Unit != "Hrs" {
				continue
			}
			usd, err := decimal.NewFromString(dim.PricePerUnit["USD"])
			if err != nil || !usd.IsPositive() {
				continue
			}
			price, _ := usd.Float64()
			return instanceType, price, true
		}
	}
	return "", 0, false
}

func termMatch(field, value string) types.Filter {
	return types.Filter{
		Field: aws.String(field),
		Type:  types.FilterTypeTermMatch,
		Value: aws.String(value),
	}
}
