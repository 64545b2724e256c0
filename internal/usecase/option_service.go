package usecase

import (
	"context"
	"encoding/json"
	"log"
	"net/url"

	"github.com/mdcatalog/backend/internal/domain"
)

// OptionServiceConfig holds configuration for the option service
type OptionServiceConfig struct {
	EnableDebugLogging bool
}

// OptionService orchestrates the variant pipeline: fetch the raw product
// batch, run the matcher, enrich the owning products, select images and
// assemble the externally-facing option records.
type OptionService struct {
	catalog            domain.CatalogClient
	matcher            *MatchingService
	enableDebugLogging bool
}

// NewOptionService creates a new option service with dependencies
func NewOptionService(catalog domain.CatalogClient, config OptionServiceConfig) *OptionService {
	return &OptionService{
		catalog: catalog,
		matcher: NewMatchingService(MatchConfig{
			EnableDebugLogging: config.EnableDebugLogging,
		}),
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// VariantOptions resolves every addressable (code, plating, stone)
// combination for a base code. It distinguishes three non-success outcomes:
// ErrNoProducts when the feed returns zero records, ErrNoOptions when the
// filters (or missing images) eliminate every pair, and a wrapped
// ErrFeedUnavailable when the feed cannot be reached.
func (s *OptionService) VariantOptions(ctx context.Context, code, plating, stone string) ([]domain.VariantOption, error) {
	if code == "" {
		return nil, domain.ErrInvalidRequest
	}

	products, err := s.catalog.SearchByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, domain.ErrNoProducts
	}

	matches := s.matcher.ListMatches(products, code, plating, stone)
	options := s.assemble(matches, code)

	if len(options) == 0 {
		return nil, domain.ErrNoOptions
	}

	if s.enableDebugLogging {
		log.Printf("[OPTIONS] code=%q -> %d option(s)", code, len(options))
	}

	return options, nil
}

// assemble turns matched pairs into output records. Enrichment is computed
// once per owning product; items without a usable image are silently skipped.
func (s *OptionService) assemble(matches []Match, requestedCode string) []domain.VariantOption {
	summaries := make(map[*domain.Product]domain.Summary)
	options := make([]domain.VariantOption, 0, len(matches))

	for _, m := range matches {
		imageURL, ok := SelectImage(*m.Item)
		if !ok {
			continue
		}

		summary, cached := summaries[m.Product]
		if !cached {
			summary = Enrich(*m.Product)
			summaries[m.Product] = summary
		}

		options = append(options, domain.VariantOption{
			ProductID:     m.Product.ProductID,
			Code:          m.Product.RefCode(),
			RequestedCode: requestedCode,
			Plating:       m.Item.PlatingLabel(),
			Stone:         m.Product.StoneLabel(),

			Name:       m.Product.ProductName,
			Collection: summary.Collection,
			Link:       m.Product.Link,

			Price:                summary.Price,
			ListPrice:            summary.ListPrice,
			PriceWithoutDiscount: summary.PriceWithoutDiscount,
			DiscountPercent:      summary.DiscountPercent,

			PrimaryImage: summary.PrimaryImage,
			ImageURL:     imageURL,
			ProxiedURL:   ProxiedImagePath(imageURL),
		})
	}

	return options
}

// ResolveImage resolves the single authoritative image for a (code, plating,
// stone) combination using the best-single-match strategy.
func (s *OptionService) ResolveImage(ctx context.Context, code, plating, stone string) (*domain.ResolvedImage, error) {
	if code == "" {
		return nil, domain.ErrInvalidRequest
	}

	products, err := s.catalog.SearchByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, domain.ErrNoProducts
	}

	match, ok := s.matcher.BestMatch(products, code, plating, stone)
	if !ok {
		return nil, domain.ErrNoOptions
	}

	imageURL, ok := SelectImage(*match.Item)
	if !ok {
		return nil, domain.ErrNoOptions
	}

	return &domain.ResolvedImage{
		ImageURL:   imageURL,
		ProxiedURL: ProxiedImagePath(imageURL),
	}, nil
}

// EnrichedSearch runs the passthrough search path: the raw feed records are
// returned as-is, each with the enrichment fields attached to a decoded copy.
// An empty feed is an empty success here, unlike the variant endpoints.
func (s *OptionService) EnrichedSearch(ctx context.Context, params domain.SearchParams) ([]map[string]any, error) {
	products, err := s.catalog.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	enriched := make([]map[string]any, 0, len(products))
	for i := range products {
		p := &products[i]

		raw := map[string]any{}
		if len(p.Raw) > 0 {
			if err := json.Unmarshal(p.Raw, &raw); err != nil {
				raw = map[string]any{"productId": p.ProductID}
			}
		}

		Enrich(*p).MergeInto(raw)
		enriched = append(enriched, raw)
	}

	return enriched, nil
}

// ProxiedImagePath builds the caller-relative locator that routes an image
// fetch through the image relay endpoint.
func ProxiedImagePath(imageURL string) string {
	return "/image-proxy?url=" + url.QueryEscape(imageURL)
}
