package domain

import "time"

// Component test status values. Anything else renders as untested.
const (
	StatusUntested   = "untested"
	StatusWorking    = "working"
	StatusNotWorking = "not-working"
)

// ComponentTest records the pass/fail/untested state of one testable
// sub-part of a product. Removing a component from a product clears
// ProductID instead of deleting the row (soft delete by detachment);
// orphaned rows are retained for audit.
type ComponentTest struct {
	ID        int64  `json:"id,string" gorm:"primaryKey"`
	ProductID int64  `gorm:"index" json:"product_id,string" form:"product_id"`
	Name      string `gorm:"size:200" json:"name" form:"name"`
	Status    string `gorm:"size:20;default:'untested'" json:"status" form:"status"`
	Notes     string `gorm:"type:text" json:"notes" form:"notes"`
	// Sort preserves the user's declaration order within a product.
	Sort      int        `json:"sort" form:"sort"`
	TestedAt  *time.Time `json:"tested_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (ComponentTest) TableName() string {
	return "component_test"
}

// Detached reports whether this record has been removed from its product.
func (t ComponentTest) Detached() bool {
	return t.ProductID == 0
}

// ProductPhoto stores a product image as either a data-URI or a
// resolvable URL. Photos are hard-deleted with their product.
type ProductPhoto struct {
	ID        int64     `json:"id,string" gorm:"primaryKey"`
	ProductID int64     `gorm:"index" json:"product_id,string" form:"product_id"`
	Source    string    `gorm:"type:text" json:"source" form:"source"`
	Sort      int       `json:"sort" form:"sort"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (ProductPhoto) TableName() string {
	return "product_photo"
}
