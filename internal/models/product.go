package models

import "github.com/shopspring/decimal"

// Product is a catalog entry. Price is the default unit price; invoice items
// keep their own snapshot.
type Product struct {
	Base
	Name        string          `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	Unit        string          `gorm:"size:32;not null" json:"unit"`
}
