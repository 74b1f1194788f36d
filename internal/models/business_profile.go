package models

import "gorm.io/datatypes"

// BankAccount is stored inside BusinessProfile.BankAccounts as JSON.
type BankAccount struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

// BusinessProfile is the issuer block printed on every invoice. There is at
// most one row; Singleton carries a unique index to enforce it.
type BusinessProfile struct {
	Base
	Singleton    bool                             `gorm:"not null;uniqueIndex" json:"-"`
	BusinessName string                           `gorm:"size:100;not null" json:"businessName"`
	Address      string                           `gorm:"type:text;not null" json:"address"`
	Phone        string                           `gorm:"size:32;not null" json:"phone"`
	Email        string                           `gorm:"size:255;not null" json:"email"`
	Website      string                           `gorm:"size:255" json:"website,omitempty"`
	TaxID        string                           `gorm:"size:64" json:"taxId,omitempty"`
	LogoURL      string                           `gorm:"size:512" json:"logoUrl,omitempty"`
	BankAccounts datatypes.JSONSlice[BankAccount] `json:"bankAccounts"`
}
