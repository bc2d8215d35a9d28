package domain

import "time"

// Product is an inventory item under inspection.
type Product struct {
	ID int64 `json:"id,string" gorm:"primaryKey"`
	// InventoryID is the human-entered external identifier. It is used as
	// a lookup key but is not enforced unique at the data layer.
	InventoryID string    `gorm:"index;size:64" json:"inventory_id" form:"inventory_id"`
	Name        string    `gorm:"index;size:200" json:"name" form:"name"`
	Description string    `gorm:"type:text" json:"description" form:"description"`
	Price       float64   `json:"price" form:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "product"
}
