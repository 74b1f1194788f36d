package service

import (
	"context"
	"errors"
	"strings"

	"invoice-generator/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProfileInput creates the business profile.
type ProfileInput struct {
	BusinessName string
	Address      string
	Phone        string
	Email        string
	Website      string
	TaxID        string
	LogoURL      string
	BankAccounts []models.BankAccount
}

// ProfilePatch updates the business profile; nil fields are left as they are.
type ProfilePatch struct {
	BusinessName *string
	Address      *string
	Phone        *string
	Email        *string
	Website      *string
	TaxID        *string
	LogoURL      *string
	BankAccounts []models.BankAccount
}

type BusinessProfileService struct {
	db *gorm.DB
}

func NewBusinessProfileService(db *gorm.DB) *BusinessProfileService {
	return &BusinessProfileService{db: db}
}

func bankAccounts(in []models.BankAccount) datatypes.JSONSlice[models.BankAccount] {
	out := make(datatypes.JSONSlice[models.BankAccount], 0, len(in))
	for _, a := range in {
		out = append(out, models.BankAccount{
			BankName:      strings.TrimSpace(a.BankName),
			AccountNumber: strings.TrimSpace(a.AccountNumber),
			AccountName:   strings.TrimSpace(a.AccountName),
		})
	}
	return out
}

// Get returns the profile, or a not-found error when none was created yet.
func (s *BusinessProfileService) Get(ctx context.Context) (*models.BusinessProfile, error) {
	var p models.BusinessProfile
	if err := s.db.WithContext(ctx).Take(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("business profile")
		}
		return nil, internal("load business profile", err)
	}
	return &p, nil
}

// Create stores the profile. Only one may ever exist.
func (s *BusinessProfileService) Create(ctx context.Context, in ProfileInput) (*models.BusinessProfile, error) {
	db := s.db.WithContext(ctx)
	var n int64
	if err := db.Model(&models.BusinessProfile{}).Count(&n).Error; err != nil {
		return nil, internal("check business profile", err)
	}
	if n > 0 {
		return nil, ErrProfileExists
	}

	p := &models.BusinessProfile{
		Singleton:    true,
		BusinessName: strings.TrimSpace(in.BusinessName),
		Address:      strings.TrimSpace(in.Address),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        strings.TrimSpace(in.Email),
		Website:      strings.TrimSpace(in.Website),
		TaxID:        strings.TrimSpace(in.TaxID),
		LogoURL:      strings.TrimSpace(in.LogoURL),
		BankAccounts: bankAccounts(in.BankAccounts),
	}
	if err := db.Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProfileExists
		}
		return nil, internal("create business profile", err)
	}
	return p, nil
}

func (s *BusinessProfileService) update(ctx context.Context, id string, updates map[string]any) (*models.BusinessProfile, error) {
	db := s.db.WithContext(ctx)
	var p models.BusinessProfile
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("business profile")
		}
		return nil, internal("load business profile", err)
	}
	if len(updates) == 0 {
		return &p, nil
	}
	if err := db.Model(&p).Updates(updates).Error; err != nil {
		return nil, internal("update business profile", err)
	}
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		return nil, internal("reload business profile", err)
	}
	return &p, nil
}

// Update applies the non-nil fields of patch.
func (s *BusinessProfileService) Update(ctx context.Context, id string, patch ProfilePatch) (*models.BusinessProfile, error) {
	updates := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			updates[col] = strings.TrimSpace(*v)
		}
	}
	set("business_name", patch.BusinessName)
	set("address", patch.Address)
	set("phone", patch.Phone)
	set("email", patch.Email)
	set("website", patch.Website)
	set("tax_id", patch.TaxID)
	set("logo_url", patch.LogoURL)
	if patch.BankAccounts != nil {
		updates["bank_accounts"] = bankAccounts(patch.BankAccounts)
	}
	return s.update(ctx, id, updates)
}

// UpdateLogo replaces the logo URL.
func (s *BusinessProfileService) UpdateLogo(ctx context.Context, id, logoURL string) (*models.BusinessProfile, error) {
	return s.update(ctx, id, map[string]any{"logo_url": strings.TrimSpace(logoURL)})
}

// UpdateBankAccounts replaces the whole bank account list, keeping its order.
func (s *BusinessProfileService) UpdateBankAccounts(ctx context.Context, id string, accounts []models.BankAccount) (*models.BusinessProfile, error) {
	return s.update(ctx, id, map[string]any{"bank_accounts": bankAccounts(accounts)})
}
