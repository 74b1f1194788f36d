package service

import (
	"context"
	"errors"
	"strings"

	"invoice-generator/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerInput creates a customer.
type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// CustomerPatch updates a customer; nil fields are left as they are.
type CustomerPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

// InvoiceSummary is the short form of an invoice shown on related records.
type InvoiceSummary struct {
	ID          string          `json:"id"`
	Number      string          `json:"number"`
	IssueDate   string          `json:"issueDate"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func summarize(inv models.Invoice) InvoiceSummary {
	return InvoiceSummary{
		ID:          inv.ID,
		Number:      inv.Number,
		IssueDate:   inv.IssueDate.Format("2006-01-02"),
		Status:      inv.Status,
		TotalAmount: inv.TotalAmount,
	}
}

// CustomerDetail is a customer with its invoices.
type CustomerDetail struct {
	models.Customer
	Invoices []InvoiceSummary `json:"invoices"`
}

type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

func (s *CustomerService) emailTaken(db *gorm.DB, email, exceptID string) (bool, error) {
	var n int64
	q := db.Model(&models.Customer{}).Where("LOWER(email) = LOWER(?)", email)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create adds a customer. Email must be unique.
func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	db := s.db.WithContext(ctx)
	in.Email = strings.TrimSpace(in.Email)

	taken, err := s.emailTaken(db, in.Email, "")
	if err != nil {
		return nil, internal("check customer email", err)
	}
	if taken {
		return nil, conflict("customer email is already registered", nil)
	}

	c := &models.Customer{
		Name:    strings.TrimSpace(in.Name),
		Email:   in.Email,
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
	}
	if err := db.Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("customer email is already registered", err)
		}
		return nil, internal("create customer", err)
	}
	return c, nil
}

func (s *CustomerService) find(db *gorm.DB, id string) (*models.Customer, error) {
	var c models.Customer
	if err := db.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("customer")
		}
		return nil, internal("load customer", err)
	}
	return &c, nil
}

// Get returns the customer and a summary of its invoices, newest first.
func (s *CustomerService) Get(ctx context.Context, id string) (*CustomerDetail, error) {
	db := s.db.WithContext(ctx)
	c, err := s.find(db, id)
	if err != nil {
		return nil, err
	}

	var invoices []models.Invoice
	if err := db.Where("customer_id = ?", id).Order("issue_date DESC").Find(&invoices).Error; err != nil {
		return nil, internal("load customer invoices", err)
	}
	d := &CustomerDetail{Customer: *c, Invoices: make([]InvoiceSummary, 0, len(invoices))}
	for _, inv := range invoices {
		d.Invoices = append(d.Invoices, summarize(inv))
	}
	return d, nil
}

// Update applies the non-nil fields of p.
func (s *CustomerService) Update(ctx context.Context, id string, p CustomerPatch) (*models.Customer, error) {
	db := s.db.WithContext(ctx)
	c, err := s.find(db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if p.Name != nil {
		updates["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		taken, err := s.emailTaken(db, email, id)
		if err != nil {
			return nil, internal("check customer email", err)
		}
		if taken {
			return nil, conflict("customer email is already registered", nil)
		}
		updates["email"] = email
	}
	if p.Phone != nil {
		updates["phone"] = strings.TrimSpace(*p.Phone)
	}
	if p.Address != nil {
		updates["address"] = strings.TrimSpace(*p.Address)
	}
	if len(updates) == 0 {
		return c, nil
	}

	if err := db.Model(c).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("customer email is already registered", err)
		}
		return nil, internal("update customer", err)
	}
	return s.find(db, id)
}

// Delete removes a customer that no invoice references.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	db := s.db.WithContext(ctx)
	if _, err := s.find(db, id); err != nil {
		return err
	}

	var n int64
	if err := db.Model(&models.Invoice{}).Where("customer_id = ?", id).Count(&n).Error; err != nil {
		return internal("count customer invoices", err)
	}
	if n > 0 {
		return ErrCustomerInUse
	}

	if err := db.Delete(&models.Customer{}, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrCustomerInUse
		}
		return internal("delete customer", err)
	}
	return nil
}

// List pages through customers, searching name and email.
func (s *CustomerService) List(ctx context.Context, p ListParams) (*Page[models.Customer], error) {
	p.normalize()
	q := s.db.WithContext(ctx).Model(&models.Customer{})
	if p.Search != "" {
		like := likePattern(p.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	page, err := paginate[models.Customer](q, p, "created_at DESC")
	if err != nil {
		return nil, internal("list customers", err)
	}
	return page, nil
}
