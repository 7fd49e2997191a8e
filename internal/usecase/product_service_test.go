package usecase

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/comparely/backend/internal/domain"
)

// fakeProductRepo is an in-memory ProductRepository for service tests.
type fakeProductRepo struct {
	products map[int64]*domain.Product
	nextID   int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[int64]*domain.Product{}, nextID: 1}
}

func (r *fakeProductRepo) seed(p domain.Product) *domain.Product {
	p.ID = r.nextID
	r.nextID++
	stored := p
	r.products[stored.ID] = &stored
	return &stored
}

func (r *fakeProductRepo) List(ctx context.Context, ownerID int64) ([]domain.Product, error) {
	out := []domain.Product{}
	for _, p := range r.products {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	out := []domain.Product{}
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Create(ctx context.Context, p *domain.Product) error {
	p.ID = r.nextID
	r.nextID++
	stored := *p
	r.products[stored.ID] = &stored
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *domain.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	stored := *p
	r.products[stored.ID] = &stored
	return nil
}

func (r *fakeProductRepo) UpdatePrice(ctx context.Context, id int64, price float64) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Price = price
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

type noopImageStore struct{}

func (s *noopImageStore) Store(file *multipart.FileHeader) (string, error) { return "", nil }
func (s *noopImageStore) Delete(relPath string) error                      { return nil }

// recordingImageStore records delete calls.
type recordingImageStore struct {
	deleted []string
}

func (s *recordingImageStore) Store(file *multipart.FileHeader) (string, error) { return "", nil }

func (s *recordingImageStore) Delete(relPath string) error {
	s.deleted = append(s.deleted, relPath)
	return nil
}

type failingImageStore struct{}

func (s *failingImageStore) Store(file *multipart.FileHeader) (string, error) {
	return "", errors.New("storage unavailable")
}

func (s *failingImageStore) Delete(relPath string) error {
	return errors.New("storage unavailable")
}

var (
	owner    = Caller{UserID: 1}
	stranger = Caller{UserID: 2}
	admin    = Caller{UserID: 99, IsAdmin: true}
)

func validInput() domain.ProductInput {
	return domain.ProductInput{
		Name:        "Widget",
		Description: "A widget",
		Price:       10,
		Category:    "Tools",
		Brand:       "Acme",
		Image:       "products/widget.jpg",
	}
}

func TestProductService_OwnershipPolicy(t *testing.T) {
	ctx := context.Background()

	setup := func() (*ProductService, *domain.Product) {
		repo := newFakeProductRepo()
		p := repo.seed(domain.Product{Name: "Mine", OwnerID: owner.UserID, Image: "products/mine.jpg"})
		return NewProductService(repo, &noopImageStore{}), p
	}

	t.Run("non-owner gets forbidden, never not-found", func(t *testing.T) {
		svc, p := setup()

		if _, err := svc.Get(ctx, stranger, p.ID); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("Get err = %v, want ErrForbidden", err)
		}
		if _, err := svc.Update(ctx, stranger, p.ID, validInput()); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("Update err = %v, want ErrForbidden", err)
		}
		if err := svc.Delete(ctx, stranger, p.ID); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("Delete err = %v, want ErrForbidden", err)
		}
	})

	t.Run("owner has full access", func(t *testing.T) {
		svc, p := setup()

		if _, err := svc.Get(ctx, owner, p.ID); err != nil {
			t.Errorf("Get err = %v", err)
		}
		if _, err := svc.Update(ctx, owner, p.ID, validInput()); err != nil {
			t.Errorf("Update err = %v", err)
		}
		if err := svc.Delete(ctx, owner, p.ID); err != nil {
			t.Errorf("Delete err = %v", err)
		}
	})

	t.Run("admin overrides ownership", func(t *testing.T) {
		svc, p := setup()

		if _, err := svc.Get(ctx, admin, p.ID); err != nil {
			t.Errorf("Get err = %v", err)
		}
		if err := svc.Delete(ctx, admin, p.ID); err != nil {
			t.Errorf("Delete err = %v", err)
		}
	})

	t.Run("missing record is not-found for everyone", func(t *testing.T) {
		svc, _ := setup()

		if _, err := svc.Get(ctx, owner, 404); !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("Get err = %v, want ErrProductNotFound", err)
		}
	})
}

func TestProductService_ListScoping(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProductRepo()
	repo.seed(domain.Product{Name: "A", OwnerID: owner.UserID})
	repo.seed(domain.Product{Name: "B", OwnerID: stranger.UserID})
	svc := NewProductService(repo, &noopImageStore{})

	mine, err := svc.List(ctx, owner)
	if err != nil {
		t.Fatalf("List err = %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "A" {
		t.Errorf("owner list = %v, want only A", mine)
	}

	all, err := svc.List(ctx, admin)
	if err != nil {
		t.Fatalf("List err = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("admin list has %d products, want 2", len(all))
	}
}

func TestProductService_Compare(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProductRepo()
	a := repo.seed(domain.Product{Name: "A", OwnerID: owner.UserID})
	b := repo.seed(domain.Product{Name: "B", OwnerID: stranger.UserID})
	svc := NewProductService(repo, &noopImageStore{})

	got, err := svc.Compare(ctx, owner, []int64{a.ID, b.ID, 404})
	if err != nil {
		t.Fatalf("Compare err = %v", err)
	}
	if len(got) != 1 || got[0].Name != "A" {
		t.Errorf("Compare = %v, want only accessible products", got)
	}

	all, err := svc.Compare(ctx, admin, []int64{a.ID, b.ID})
	if err != nil {
		t.Fatalf("Compare err = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("admin Compare has %d products, want 2", len(all))
	}
}

func TestProductService_BulkUpdatePrices(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProductRepo()
	mine := repo.seed(domain.Product{Name: "Mine", OwnerID: owner.UserID, Price: 100})
	theirs := repo.seed(domain.Product{Name: "Theirs", OwnerID: stranger.UserID, Price: 100})
	svc := NewProductService(repo, &noopImageStore{})

	updated, err := svc.BulkUpdatePrices(ctx, owner, []domain.PriceUpdate{
		{ID: mine.ID, Price: 80},
		{ID: theirs.ID, Price: 80}, // not owned: skipped
		{ID: 404, Price: 80},       // missing: skipped
		{ID: mine.ID, Price: -5},   // negative: skipped
	})
	if err != nil {
		t.Fatalf("BulkUpdatePrices err = %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1", updated)
	}

	got, _ := repo.GetByID(ctx, mine.ID)
	if got.Price != 80 {
		t.Errorf("owned product price = %v, want 80", got.Price)
	}
	kept, _ := repo.GetByID(ctx, theirs.ID)
	if kept.Price != 100 {
		t.Errorf("foreign product price = %v, want untouched 100", kept.Price)
	}
}

func TestProductService_DeleteImageCleanup(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		image       string
		wantDeleted []string
	}{
		{
			name:        "absolute storage URL",
			image:       "https://host/storage/products/abc.jpg",
			wantDeleted: []string{"products/abc.jpg"},
		},
		{
			name:        "relative storage path",
			image:       "products/abc.jpg",
			wantDeleted: []string{"products/abc.jpg"},
		},
		{
			name:        "public path with leading storage segment",
			image:       "/storage/products/abc.jpg",
			wantDeleted: []string{"products/abc.jpg"},
		},
		{
			name:        "external URL issues no delete",
			image:       "https://images.pexels.com/photos/205421/pexels-photo-205421.jpeg",
			wantDeleted: nil,
		},
		{
			name:        "placeholder issues no delete",
			image:       PlaceholderImage,
			wantDeleted: nil,
		},
		{
			name:        "path traversal issues no delete",
			image:       "/storage/products/../../etc/passwd",
			wantDeleted: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeProductRepo()
			p := repo.seed(domain.Product{Name: "P", OwnerID: owner.UserID, Image: tt.image})
			images := &recordingImageStore{}
			svc := NewProductService(repo, images)

			if err := svc.Delete(ctx, owner, p.ID); err != nil {
				t.Fatalf("Delete err = %v", err)
			}

			if len(images.deleted) != len(tt.wantDeleted) {
				t.Fatalf("deleted = %v, want %v", images.deleted, tt.wantDeleted)
			}
			for i := range tt.wantDeleted {
				if images.deleted[i] != tt.wantDeleted[i] {
					t.Errorf("deleted[%d] = %q, want %q", i, images.deleted[i], tt.wantDeleted[i])
				}
			}
		})
	}
}

func TestProductService_DeleteSurvivesCleanupFailure(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProductRepo()
	p := repo.seed(domain.Product{Name: "P", OwnerID: owner.UserID, Image: "products/gone.jpg"})
	svc := NewProductService(repo, &failingImageStore{})

	if err := svc.Delete(ctx, owner, p.ID); err != nil {
		t.Errorf("Delete err = %v, want nil despite storage failure", err)
	}
	if _, err := repo.GetByID(ctx, p.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Error("record should be gone even when image cleanup fails")
	}
}

func TestStorageImagePath(t *testing.T) {
	tests := []struct {
		image string
		want  string
	}{
		{"https://host/storage/products/abc.jpg", "products/abc.jpg"},
		{"/storage/products/abc.jpg", "products/abc.jpg"},
		{"products/abc.jpg", "products/abc.jpg"},
		{"https://cdn.example.com/pics/abc.jpg", ""},
		{"https://host/storage/avatars/abc.jpg", ""},
		{"products/../secrets.txt", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := storageImagePath(tt.image); got != tt.want {
			t.Errorf("storageImagePath(%q) = %q, want %q", tt.image, got, tt.want)
		}
	}
}
