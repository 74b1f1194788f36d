package service

import (
	"context"
	"errors"
	"strings"

	"invoice-generator/internal/models"
	"invoice-generator/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductInput creates a product.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Unit        string
}

// ProductPatch updates a product; nil fields are left as they are.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Unit        *string
}

// ProductDetail is a product with the invoices it appears on.
type ProductDetail struct {
	models.Product
	Invoices []InvoiceSummary `json:"invoices"`
}

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) nameTaken(db *gorm.DB, name, exceptID string) (bool, error) {
	var n int64
	q := db.Model(&models.Product{}).Where("LOWER(name) = LOWER(?)", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create adds a product. Name must be unique and price positive.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := util.ValidatePrice(in.Price); err != nil {
		return nil, validationf("%v", err)
	}
	db := s.db.WithContext(ctx)
	name := strings.TrimSpace(in.Name)

	taken, err := s.nameTaken(db, name, "")
	if err != nil {
		return nil, internal("check product name", err)
	}
	if taken {
		return nil, conflict("product name already exists", nil)
	}

	p := &models.Product{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Unit:        strings.TrimSpace(in.Unit),
	}
	if err := db.Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("product name already exists", err)
		}
		return nil, internal("create product", err)
	}
	return p, nil
}

func (s *ProductService) find(db *gorm.DB, id string) (*models.Product, error) {
	var p models.Product
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("product")
		}
		return nil, internal("load product", err)
	}
	return &p, nil
}

// Get returns the product and the invoices it appears on.
func (s *ProductService) Get(ctx context.Context, id string) (*ProductDetail, error) {
	db := s.db.WithContext(ctx)
	p, err := s.find(db, id)
	if err != nil {
		return nil, err
	}

	var invoices []models.Invoice
	sub := db.Model(&models.InvoiceItem{}).Select("invoice_id").Where("product_id = ?", id)
	if err := db.Where("id IN (?)", sub).Order("issue_date DESC").Find(&invoices).Error; err != nil {
		return nil, internal("load product invoices", err)
	}
	d := &ProductDetail{Product: *p, Invoices: make([]InvoiceSummary, 0, len(invoices))}
	for _, inv := range invoices {
		d.Invoices = append(d.Invoices, summarize(inv))
	}
	return d, nil
}

// Update applies the non-nil fields of patch.
func (s *ProductService) Update(ctx context.Context, id string, patch ProductPatch) (*models.Product, error) {
	db := s.db.WithContext(ctx)
	p, err := s.find(db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		taken, err := s.nameTaken(db, name, id)
		if err != nil {
			return nil, internal("check product name", err)
		}
		if taken {
			return nil, conflict("product name already exists", nil)
		}
		updates["name"] = name
	}
	if patch.Description != nil {
		updates["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		if err := util.ValidatePrice(*patch.Price); err != nil {
			return nil, validationf("%v", err)
		}
		updates["price"] = *patch.Price
	}
	if patch.Unit != nil {
		updates["unit"] = strings.TrimSpace(*patch.Unit)
	}
	if len(updates) == 0 {
		return p, nil
	}

	if err := db.Model(p).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("product name already exists", err)
		}
		return nil, internal("update product", err)
	}
	return s.find(db, id)
}

// Delete removes a product that no invoice item references.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	db := s.db.WithContext(ctx)
	if _, err := s.find(db, id); err != nil {
		return err
	}

	var n int64
	if err := db.Model(&models.InvoiceItem{}).Where("product_id = ?", id).Count(&n).Error; err != nil {
		return internal("count product usage", err)
	}
	if n > 0 {
		return ErrProductInUse
	}

	if err := db.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrProductInUse
		}
		return internal("delete product", err)
	}
	return nil
}

// List pages through products, searching name and description.
func (s *ProductService) List(ctx context.Context, p ListParams) (*Page[models.Product], error) {
	p.normalize()
	q := s.db.WithContext(ctx).Model(&models.Product{})
	if p.Search != "" {
		like := likePattern(p.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	page, err := paginate[models.Product](q, p, "created_at DESC")
	if err != nil {
		return nil, internal("list products", err)
	}
	return page, nil
}
