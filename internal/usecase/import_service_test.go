package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/comparely/backend/internal/domain"
)

// fakeCatalog serves canned raw records and counts fetches.
type fakeCatalog struct {
	records map[string]domain.RawRecord
	err     error
	fetches int
}

func (c *fakeCatalog) FetchProduct(ctx context.Context, asin, amazonDomain string) (domain.RawRecord, error) {
	c.fetches++
	if c.err != nil {
		return nil, c.err
	}
	raw, ok := c.records[asin]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return raw, nil
}

// fakeCache is a minimal CacheRepository without TTL handling.
type fakeCache struct {
	data map[string]interface{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]interface{}{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) (interface{}, error) {
	v, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}

func wrappedRecord(title string) domain.RawRecord {
	return domain.RawRecord{
		"product": map[string]any{
			"title":           title,
			"feature_bullets": []any{"Fast", "Light"},
			"price":           map[string]any{"value": 29.99},
		},
	}
}

func TestImportByURL_Success(t *testing.T) {
	ctx := context.Background()
	catalog := &fakeCatalog{records: map[string]domain.RawRecord{
		"B0ABCDEFGH": wrappedRecord("Imported Widget"),
	}}
	repo := newFakeProductRepo()
	svc := NewImportService(catalog, repo, newFakeCache(), time.Minute)

	product, err := svc.ImportByURL(ctx, 7, "https://www.amazon.co.uk/dp/B0ABCDEFGH/ref=xyz")
	if err != nil {
		t.Fatalf("ImportByURL err = %v", err)
	}

	if product.ID == 0 {
		t.Error("product was not persisted")
	}
	if product.Name != "Imported Widget" {
		t.Errorf("Name = %q", product.Name)
	}
	if product.OwnerID != 7 {
		t.Errorf("OwnerID = %d, want 7", product.OwnerID)
	}
	if product.Price != 29.99 {
		t.Errorf("Price = %v, want 29.99", product.Price)
	}
	// No description in source: the import flow synthesizes one from the
	// feature bullets rather than storing them as the description.
	if product.Description != "Features: Fast, Light" {
		t.Errorf("Description = %q", product.Description)
	}
}

func TestImportByURL_InvalidURL(t *testing.T) {
	svc := NewImportService(&fakeCatalog{}, newFakeProductRepo(), nil, 0)

	_, err := svc.ImportByURL(context.Background(), 7, "https://www.amazon.com/s?k=headphones")
	if !errors.Is(err, domain.ErrInvalidProductURL) {
		t.Errorf("err = %v, want ErrInvalidProductURL", err)
	}
}

func TestImportByURL_MissingProductWrapper(t *testing.T) {
	catalog := &fakeCatalog{records: map[string]domain.RawRecord{
		"B0ABCDEFGH": {"request_info": map[string]any{"success": true}},
	}}
	svc := NewImportService(catalog, newFakeProductRepo(), nil, 0)

	_, err := svc.ImportByURL(context.Background(), 7, "https://www.amazon.com/dp/B0ABCDEFGH")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}

func TestImportByURL_UpstreamFailurePropagates(t *testing.T) {
	catalog := &fakeCatalog{err: domain.ErrRainforestAPIFailure}
	svc := NewImportService(catalog, newFakeProductRepo(), nil, 0)

	_, err := svc.ImportByURL(context.Background(), 7, "https://www.amazon.com/dp/B0ABCDEFGH")
	if !errors.Is(err, domain.ErrRainforestAPIFailure) {
		t.Errorf("err = %v, want ErrRainforestAPIFailure", err)
	}
}

func TestImportByURL_SecondImportHitsCache(t *testing.T) {
	ctx := context.Background()
	catalog := &fakeCatalog{records: map[string]domain.RawRecord{
		"B0ABCDEFGH": wrappedRecord("Cached Widget"),
	}}
	repo := newFakeProductRepo()
	svc := NewImportService(catalog, repo, newFakeCache(), time.Minute)

	url := "https://www.amazon.com/dp/B0ABCDEFGH"
	if _, err := svc.ImportByURL(ctx, 7, url); err != nil {
		t.Fatalf("first import err = %v", err)
	}
	second, err := svc.ImportByURL(ctx, 8, url)
	if err != nil {
		t.Fatalf("second import err = %v", err)
	}

	if catalog.fetches != 1 {
		t.Errorf("fetches = %d, want 1 (second import should be served from cache)", catalog.fetches)
	}
	if second.OwnerID != 8 {
		t.Errorf("second OwnerID = %d, want 8", second.OwnerID)
	}
	if len(repo.products) != 2 {
		t.Errorf("stored products = %d, want 2", len(repo.products))
	}
}
