package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/comparely/backend/internal/domain"
)

// ImportService imports a product from the external catalog by URL.
// Flow: extract ASIN + storefront -> check cache -> fetch -> normalize -> persist.
type ImportService struct {
	catalog  domain.CatalogClient
	products domain.ProductRepository
	cache    domain.CacheRepository
	cacheTTL time.Duration
}

// NewImportService creates an import service. cache may be nil to disable
// lookup caching; cacheTTL of 0 defaults to 12h.
func NewImportService(
	catalog domain.CatalogClient,
	products domain.ProductRepository,
	cache domain.CacheRepository,
	cacheTTL time.Duration,
) *ImportService {
	if cacheTTL == 0 {
		cacheTTL = 12 * time.Hour
	}
	return &ImportService{
		catalog:  catalog,
		products: products,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// ImportByURL fetches the product behind an Amazon URL, normalizes it and
// persists it as a record owned by the caller.
func (s *ImportService) ImportByURL(ctx context.Context, callerID int64, rawURL string) (*domain.Product, error) {
	asin, err := ExtractASIN(rawURL)
	if err != nil {
		return nil, err
	}
	amazonDomain := AmazonDomain(rawURL)

	raw, err := s.lookup(ctx, asin, amazonDomain)
	if err != nil {
		return nil, err
	}

	// A response without a product wrapper means the storefront has no
	// such listing even though the request itself succeeded.
	if _, ok := raw.Record("product"); !ok {
		return nil, domain.ErrProductNotFound
	}

	product := NormalizeRecord(raw)
	if product.Description == "" {
		product.Description = FallbackDescription(product.Name, product.Features)
	}
	product.OwnerID = callerID
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// lookup consults the cache before hitting the catalog API. Cache failures
// never fail the import.
func (s *ImportService) lookup(ctx context.Context, asin, amazonDomain string) (domain.RawRecord, error) {
	key := fmt.Sprintf("amazon:%s:%s", strings.ToLower(asin), amazonDomain)

	if s.cache != nil {
		if v, err := s.cache.Get(ctx, key); err == nil {
			if m, ok := v.(map[string]any); ok {
				return domain.RawRecord(m), nil
			}
		}
	}

	raw, err := s.catalog.FetchProduct(ctx, asin, amazonDomain)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, map[string]any(raw), s.cacheTTL); err != nil {
			log.Printf("[Import] failed to cache lookup %s: %v", key, err)
		}
	}
	return raw, nil
}
