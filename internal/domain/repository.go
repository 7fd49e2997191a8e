package domain

import (
	"context"
	"mime/multipart"
	"time"
)

// ProductRepository defines persistence for canonical products
type ProductRepository interface {
	List(ctx context.Context, ownerID int64) ([]Product, error)
	ListAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	UpdatePrice(ctx context.Context, id int64, price float64) error
	Delete(ctx context.Context, id int64) error
}

// UserRepository defines persistence for accounts
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
}

// CatalogClient defines the interface for the external product catalog lookup
type CatalogClient interface {
	FetchProduct(ctx context.Context, asin, amazonDomain string) (RawRecord, error)
}

// ImageStore defines managed storage for uploaded product images. Store
// returns a path relative to the storage root (e.g. "products/abc.jpg").
type ImageStore interface {
	Store(file *multipart.FileHeader) (string, error)
	Delete(relPath string) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
