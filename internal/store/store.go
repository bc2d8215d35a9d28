package store

import (
	"context"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
)

// RecordStore is the data contract consumed by the report pipeline and
// the schedulers. The admin CRUD layer talks to the same tables through
// its request-scoped gorm handle; this interface pins down the queries
// the inspection workflow depends on: equality filters on the owning
// product and on the inventory identifier, insertion ordering for
// components and photos, and recent-first ordering for the listing.
type RecordStore interface {
	// Products
	CreateProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	// FindProductByInventoryID returns the first match; inventory ids are
	// treated as lookup keys but are not unique at the data layer.
	FindProductByInventoryID(ctx context.Context, inventoryID string) (*domain.Product, error)
	// ListProducts returns products most-recently-updated first.
	ListProducts(ctx context.Context, page, pageSize int) ([]domain.Product, int64, error)
	UpdateProduct(ctx context.Context, id int64, fields map[string]interface{}) error
	// DeleteProduct hard-deletes the product and its photos, and detaches
	// its component tests.
	DeleteProduct(ctx context.Context, id int64) error

	// Component tests
	CreateComponentTests(ctx context.Context, tests []domain.ComponentTest) error
	ComponentTestsByProduct(ctx context.Context, productID int64) ([]domain.ComponentTest, error)
	GetComponentTest(ctx context.Context, id int64) (*domain.ComponentTest, error)
	UpdateComponentTest(ctx context.Context, id int64, fields map[string]interface{}) error
	// DetachComponentTest clears the owning product reference instead of
	// deleting the row. Orphans are retained for audit.
	DetachComponentTest(ctx context.Context, id int64) error
	CountOrphanComponentTests(ctx context.Context) (int64, error)

	// Photos
	CreateProductPhotos(ctx context.Context, photos []domain.ProductPhoto) error
	PhotosByProduct(ctx context.Context, productID int64) ([]domain.ProductPhoto, error)
	DeleteProductPhoto(ctx context.Context, id int64) error
	AllPhotos(ctx context.Context) ([]domain.ProductPhoto, error)
}
