package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
)

// GormRecordStore is the GORM implementation of RecordStore
type GormRecordStore struct {
	db *gorm.DB
}

var _ RecordStore = (*GormRecordStore)(nil)

// NewGormRecordStore creates a new GORM-based record store
func NewGormRecordStore(db *gorm.DB) *GormRecordStore {
	return &GormRecordStore{db: db}
}

func (r *GormRecordStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *GormRecordStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRecordStore) FindProductByInventoryID(ctx context.Context, inventoryID string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Where("inventory_id = ?", inventoryID).
		Order("updated_at DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRecordStore) ListProducts(ctx context.Context, page, pageSize int) ([]domain.Product, int64, error) {
	var products []domain.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Product{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	err := query.
		Order("updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error
	return products, total, err
}

func (r *GormRecordStore) UpdateProduct(ctx context.Context, id int64, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *GormRecordStore) DeleteProduct(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Photos are owned hard: delete with the product.
		if err := tx.Where("product_id = ?", id).Delete(&domain.ProductPhoto{}).Error; err != nil {
			return err
		}
		// Component tests are soft-linked: detach, keep the rows.
		if err := tx.Model(&domain.ComponentTest{}).
			Where("product_id = ?", id).
			Updates(map[string]interface{}{
				"product_id": 0,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Product{}, id).Error
	})
}

func (r *GormRecordStore) CreateComponentTests(ctx context.Context, tests []domain.ComponentTest) error {
	if len(tests) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tests).Error
}

func (r *GormRecordStore) ComponentTestsByProduct(ctx context.Context, productID int64) ([]domain.ComponentTest, error) {
	var tests []domain.ComponentTest
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sort ASC, id ASC").
		Find(&tests).Error
	return tests, err
}

func (r *GormRecordStore) GetComponentTest(ctx context.Context, id int64) (*domain.ComponentTest, error) {
	var t domain.ComponentTest
	err := r.db.WithContext(ctx).First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormRecordStore) UpdateComponentTest(ctx context.Context, id int64, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.ComponentTest{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *GormRecordStore) DetachComponentTest(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.ComponentTest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"product_id": 0,
			"updated_at": time.Now(),
		}).Error
}

func (r *GormRecordStore) CountOrphanComponentTests(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ComponentTest{}).
		Where("product_id = 0").
		Count(&count).Error
	return count, err
}

func (r *GormRecordStore) CreateProductPhotos(ctx context.Context, photos []domain.ProductPhoto) error {
	if len(photos) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&photos).Error
}

func (r *GormRecordStore) PhotosByProduct(ctx context.Context, productID int64) ([]domain.ProductPhoto, error) {
	var photos []domain.ProductPhoto
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sort ASC, id ASC").
		Find(&photos).Error
	return photos, err
}

func (r *GormRecordStore) DeleteProductPhoto(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.ProductPhoto{}, id).Error
}

func (r *GormRecordStore) AllPhotos(ctx context.Context) ([]domain.ProductPhoto, error) {
	var photos []domain.ProductPhoto
	err := r.db.WithContext(ctx).Order("id ASC").Find(&photos).Error
	return photos, err
}
