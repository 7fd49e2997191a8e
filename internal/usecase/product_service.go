package usecase

import (
	"context"
	"log"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/comparely/backend/internal/domain"
)

// Caller identifies the authenticated user behind a request.
type Caller struct {
	UserID  int64
	IsAdmin bool
}

func (c Caller) canAccess(p *domain.Product) bool {
	return c.IsAdmin || p.OwnerID == c.UserID
}

// ProductService implements the ownership-scoped product operations.
type ProductService struct {
	products domain.ProductRepository
	images   domain.ImageStore
}

// NewProductService creates a product service with its dependencies.
func NewProductService(products domain.ProductRepository, images domain.ImageStore) *ProductService {
	return &ProductService{
		products: products,
		images:   images,
	}
}

// List returns every product for an administrator, otherwise only the
// caller's own records.
func (s *ProductService) List(ctx context.Context, caller Caller) ([]domain.Product, error) {
	if caller.IsAdmin {
		return s.products.ListAll(ctx)
	}
	return s.products.List(ctx, caller.UserID)
}

// Get returns a single product. A record that exists but belongs to someone
// else yields ErrForbidden, never ErrProductNotFound.
func (s *ProductService) Get(ctx context.Context, caller Caller, id int64) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.canAccess(p) {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

// Create persists a new product owned by the caller.
func (s *ProductService) Create(ctx context.Context, caller Caller, input domain.ProductInput) (*domain.Product, error) {
	p := productFromInput(input)
	p.OwnerID = caller.UserID
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the full record. Ownership is checked against the stored
// record, not the payload.
func (s *ProductService) Update(ctx context.Context, caller Caller, id int64, input domain.ProductInput) (*domain.Product, error) {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.canAccess(existing) {
		return nil, domain.ErrForbidden
	}

	p := productFromInput(input)
	p.ID = existing.ID
	p.OwnerID = existing.OwnerID
	p.CreatedAt = existing.CreatedAt
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a product and then makes a best-effort attempt to remove
// its stored image. Storage cleanup failures are logged, never surfaced.
func (s *ProductService) Delete(ctx context.Context, caller Caller, id int64) error {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !caller.canAccess(existing) {
		return domain.ErrForbidden
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	if rel := storageImagePath(existing.Image); rel != "" {
		if err := s.images.Delete(rel); err != nil {
			log.Printf("[Products] image cleanup failed for %q: %v", rel, err)
		}
	}
	return nil
}

// Compare returns the requested products the caller is allowed to see.
// Inaccessible or missing ids are silently dropped rather than failing the
// whole comparison.
func (s *ProductService) Compare(ctx context.Context, caller Caller, ids []int64) ([]domain.Product, error) {
	found, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	visible := make([]domain.Product, 0, len(found))
	for i := range found {
		if caller.canAccess(&found[i]) {
			visible = append(visible, found[i])
		}
	}
	return visible, nil
}

// BulkUpdatePrices applies price changes sequentially, skipping entries the
// caller does not own, entries that do not exist and negative prices.
// Partial success is normal; the returned count reports how many succeeded.
func (s *ProductService) BulkUpdatePrices(ctx context.Context, caller Caller, updates []domain.PriceUpdate) (int, error) {
	updated := 0
	for _, u := range updates {
		if u.Price < 0 {
			continue
		}
		existing, err := s.products.GetByID(ctx, u.ID)
		if err != nil {
			continue
		}
		if !caller.canAccess(existing) {
			continue
		}
		if err := s.products.UpdatePrice(ctx, u.ID, u.Price); err != nil {
			log.Printf("[Products] bulk price update failed for id=%d: %v", u.ID, err)
			continue
		}
		updated++
	}
	return updated, nil
}

func productFromInput(input domain.ProductInput) *domain.Product {
	features := input.Features
	if features == nil {
		features = []string{}
	}
	specs := input.Specifications
	if specs == nil {
		specs = map[string]string{}
	}
	now := time.Now()
	return &domain.Product{
		Name:           input.Name,
		Description:    input.Description,
		Price:          input.Price,
		Category:       input.Category,
		Brand:          input.Brand,
		Image:          input.Image,
		InStock:        input.InStock,
		StockQuantity:  input.StockQuantity,
		Features:       features,
		Specifications: specs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// storageImagePath reduces a stored image reference to a path relative to
// the storage root, or "" when the image does not live in managed storage.
// Absolute URLs lose their scheme and host, a leading "/storage/" segment is
// stripped, and only paths under products/ qualify. This guards against
// deleting arbitrary files when a record's image points at an external URL.
func storageImagePath(image string) string {
	ref := image
	if u, err := url.Parse(image); err == nil && u.Host != "" {
		ref = u.Path
	}
	ref = strings.TrimPrefix(ref, "/")
	ref = strings.TrimPrefix(ref, "storage/")
	ref = path.Clean(ref)
	if !strings.HasPrefix(ref, "products/") {
		return ""
	}
	return ref
}
