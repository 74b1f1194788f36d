package models

// Customer is a billable party. Rows referenced by an invoice cannot be deleted.
type Customer struct {
	Base
	Name    string `gorm:"size:100;not null;index" json:"name"`
	Email   string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone   string `gorm:"size:32" json:"phone,omitempty"`
	Address string `gorm:"type:text;not null" json:"address"`
}
