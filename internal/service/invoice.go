package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"invoice-generator/internal/models"
	"invoice-generator/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemInput is one requested invoice line. Price is the snapshot unit price.
type ItemInput struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// InvoiceInput creates an invoice. Totals are never taken from the caller.
type InvoiceInput struct {
	CustomerID string
	IssueDate  time.Time
	DueDate    time.Time
	Items      []ItemInput
	Notes      string
}

// InvoicePatch updates an invoice. A non-nil Items replaces every line and
// recomputes the totals.
type InvoicePatch struct {
	CustomerID *string
	IssueDate  *time.Time
	DueDate    *time.Time
	Items      []ItemInput
	Notes      *string
	Status     *string
}

// InvoiceFilter narrows List and Export. The date range applies only when
// both ends are set; End is exclusive.
type InvoiceFilter struct {
	ListParams
	Status     string
	CustomerID string
	StartDate  *time.Time
	EndDate    *time.Time
}

type InvoiceService struct {
	db  *gorm.DB
	now func() time.Time

	// serializes number allocation inside this process
	numberMu sync.Mutex
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db, now: time.Now}
}

// SetClock replaces the clock used for numbering.
func (s *InvoiceService) SetClock(now func() time.Time) { s.now = now }

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return validationf("invoice must have at least one item")
	}
	for i, it := range items {
		if it.ProductID == "" {
			return validationf("item %d: productId is required", i+1)
		}
		if err := util.ValidateQuantity(it.Quantity); err != nil {
			return validationf("item %d: %v", i+1, err)
		}
		if err := util.ValidatePrice(it.Price); err != nil {
			return validationf("item %d: %v", i+1, err)
		}
		if err := util.ValidateAmount(LineTotal(it.Quantity, it.Price)); err != nil {
			return validationf("item %d: line total: %v", i+1, err)
		}
	}
	if err := util.ValidateAmount(ComputeTotals(items).TotalAmount); err != nil {
		return validationf("invoice total: %v", err)
	}
	return nil
}

func ensureCustomer(db *gorm.DB, id string) error {
	var n int64
	if err := db.Model(&models.Customer{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return internal("check customer", err)
	}
	if n == 0 {
		return notFound("customer")
	}
	return nil
}

// ensureProducts checks that every distinct product id resolves.
func ensureProducts(db *gorm.DB, items []ItemInput) error {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}

	var n int64
	if err := db.Model(&models.Product{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return internal("check products", err)
	}
	if n != int64(len(ids)) {
		return notFound("one or more products")
	}
	return nil
}

// buildItems turns inputs into rows, in request order, plus their totals.
func buildItems(in []ItemInput) ([]models.InvoiceItem, Totals) {
	items := make([]models.InvoiceItem, len(in))
	for i, it := range in {
		items[i] = models.InvoiceItem{
			ProductID: it.ProductID,
			Position:  i,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Total:     LineTotal(it.Quantity, it.Price),
		}
	}
	return items, ComputeTotals(in)
}

func insertItems(tx *gorm.DB, invoiceID string, items []models.InvoiceItem) error {
	for i := range items {
		items[i].ID = ""
		items[i].InvoiceID = invoiceID
	}
	return tx.Omit(clause.Associations).Create(&items).Error
}

// Create validates the request, computes totals and stores the invoice with
// a freshly allocated number in status draft.
func (s *InvoiceService) Create(ctx context.Context, in InvoiceInput) (*models.Invoice, error) {
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if err := ensureCustomer(db, in.CustomerID); err != nil {
		return nil, err
	}
	if err := ensureProducts(db, in.Items); err != nil {
		return nil, err
	}

	items, totals := buildItems(in.Items)
	inv := &models.Invoice{
		CustomerID:  in.CustomerID,
		IssueDate:   in.IssueDate.UTC(),
		DueDate:     in.DueDate.UTC(),
		Subtotal:    totals.Subtotal,
		TaxAmount:   totals.TaxAmount,
		TotalAmount: totals.TotalAmount,
		Status:      models.InvoiceDraft,
		Notes:       in.Notes,
	}
	if err := s.insertNumbered(ctx, inv, items); err != nil {
		return nil, err
	}
	slog.Info("invoice created", "id", inv.ID, "number", inv.Number, "total", inv.TotalAmount.String())
	return s.Get(ctx, inv.ID)
}

// insertNumbered allocates the next number and inserts the invoice and its
// items in one transaction, retrying with a recomputed number when another
// writer took it first.
func (s *InvoiceService) insertNumbered(ctx context.Context, inv *models.Invoice, items []models.InvoiceItem) error {
	s.numberMu.Lock()
	defer s.numberMu.Unlock()

	var lastErr error
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		inv.ID = ""
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			number, err := nextInvoiceNumber(tx, s.now())
			if err != nil {
				return err
			}
			inv.Number = number
			if err := tx.Omit(clause.Associations).Create(inv).Error; err != nil {
				return err
			}
			return insertItems(tx, inv.ID, items)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal("create invoice", err)
		}
		slog.Warn("invoice number taken, retrying", "number", inv.Number, "attempt", attempt)
		lastErr = err
	}
	return conflict(fmt.Sprintf("could not allocate an invoice number after %d attempts", maxNumberAttempts), lastErr)
}

func preloadInvoice(db *gorm.DB) *gorm.DB {
	return db.Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Items.Product")
}

// Get loads an invoice with its customer and items (in order) and each
// item's product.
func (s *InvoiceService) Get(ctx context.Context, id string) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.WithContext(ctx).Scopes(preloadInvoice).First(&inv, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("invoice")
		}
		return nil, internal("load invoice", err)
	}
	return &inv, nil
}

// lockedOrMissing explains why a conditional write on a non-paid invoice
// touched no rows.
func lockedOrMissing(tx *gorm.DB, id string) error {
	var n int64
	if err := tx.Model(&models.Invoice{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return internal("load invoice", err)
	}
	if n == 0 {
		return notFound("invoice")
	}
	return ErrInvoicePaid
}

// Update changes an unpaid invoice. When items are given they replace the
// existing ones and the totals are recomputed, all in one transaction.
func (s *InvoiceService) Update(ctx context.Context, id string, p InvoicePatch) (*models.Invoice, error) {
	if p.Status != nil && !models.ValidInvoiceStatus(*p.Status) {
		return nil, validationf("invalid status %q", *p.Status)
	}
	if p.Items != nil {
		if err := validateItems(p.Items); err != nil {
			return nil, err
		}
	}

	db := s.db.WithContext(ctx)
	var current models.Invoice
	if err := db.First(&current, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("invoice")
		}
		return nil, internal("load invoice", err)
	}
	if current.IsPaid() {
		return nil, ErrInvoicePaid
	}
	if p.CustomerID != nil && *p.CustomerID != current.CustomerID {
		if err := ensureCustomer(db, *p.CustomerID); err != nil {
			return nil, err
		}
	}
	if p.Items != nil {
		if err := ensureProducts(db, p.Items); err != nil {
			return nil, err
		}
	}

	updates := map[string]any{"updated_at": s.now()}
	if p.CustomerID != nil {
		updates["customer_id"] = *p.CustomerID
	}
	if p.IssueDate != nil {
		updates["issue_date"] = p.IssueDate.UTC()
	}
	if p.DueDate != nil {
		updates["due_date"] = p.DueDate.UTC()
	}
	if p.Notes != nil {
		updates["notes"] = *p.Notes
	}
	if p.Status != nil {
		updates["status"] = *p.Status
	}
	var items []models.InvoiceItem
	if p.Items != nil {
		var totals Totals
		items, totals = buildItems(p.Items)
		updates["subtotal"] = totals.Subtotal
		updates["tax_amount"] = totals.TaxAmount
		updates["total_amount"] = totals.TotalAmount
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Invoice{}).
			Where("id = ? AND status <> ?", id, models.InvoicePaid).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return lockedOrMissing(tx, id)
		}
		if items == nil {
			return nil
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return insertItems(tx, id, items)
	})
	if err != nil {
		if KindOf(err) != KindInternal {
			return nil, err
		}
		return nil, internal("update invoice", err)
	}
	return s.Get(ctx, id)
}

// UpdateStatus sets the status of an unpaid invoice.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id, status string) (*models.Invoice, error) {
	if !models.ValidInvoiceStatus(status) {
		return nil, validationf("invalid status %q", status)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Invoice{}).
			Where("id = ? AND status <> ?", id, models.InvoicePaid).
			Updates(map[string]any{"status": status, "updated_at": s.now()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return lockedOrMissing(tx, id)
		}
		return nil
	})
	if err != nil {
		if KindOf(err) != KindInternal {
			return nil, err
		}
		return nil, internal("update invoice status", err)
	}
	slog.Info("invoice status changed", "id", id, "status", status)
	return s.Get(ctx, id)
}

// Delete removes an unpaid invoice and its items.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv models.Invoice
		if err := tx.Select("id", "status").First(&inv, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("invoice")
			}
			return err
		}
		if inv.IsPaid() {
			return ErrInvoicePaid
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND status <> ?", id, models.InvoicePaid).Delete(&models.Invoice{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// paid in the meantime; rolls back the item delete
			return ErrInvoicePaid
		}
		return nil
	})
	if err != nil {
		if KindOf(err) != KindInternal {
			return err
		}
		return internal("delete invoice", err)
	}
	return nil
}

func (s *InvoiceService) filtered(ctx context.Context, f InvoiceFilter) *gorm.DB {
	db := s.db.WithContext(ctx)
	q := db.Model(&models.Invoice{})
	if f.Search != "" {
		like := likePattern(f.Search)
		byCustomer := db.Model(&models.Customer{}).Select("id").Where("LOWER(name) LIKE ?", like)
		q = q.Where("(LOWER(number) LIKE ? OR customer_id IN (?))", like, byCustomer)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CustomerID != "" {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.StartDate != nil && f.EndDate != nil {
		q = q.Where("issue_date >= ? AND issue_date < ?", f.StartDate.UTC(), f.EndDate.UTC())
	}
	return q
}

func (f *InvoiceFilter) validate() error {
	if f.Status != "" && !models.ValidInvoiceStatus(f.Status) {
		return validationf("invalid status %q", f.Status)
	}
	return nil
}

// List pages through invoices matching f, newest first.
func (s *InvoiceService) List(ctx context.Context, f InvoiceFilter) (*Page[models.Invoice], error) {
	f.normalize()
	if err := f.validate(); err != nil {
		return nil, err
	}
	page, err := paginate[models.Invoice](s.filtered(ctx, f), f.ListParams, "created_at DESC, number DESC", preloadInvoice)
	if err != nil {
		return nil, internal("list invoices", err)
	}
	return page, nil
}

// Export returns every invoice matching f (paging ignored) ordered by issue
// date, with the customer preloaded.
func (s *InvoiceService) Export(ctx context.Context, f InvoiceFilter) ([]models.Invoice, error) {
	f.normalize()
	if err := f.validate(); err != nil {
		return nil, err
	}
	var out []models.Invoice
	if err := s.filtered(ctx, f).Preload("Customer").Order("issue_date ASC, number ASC").Find(&out).Error; err != nil {
		return nil, internal("export invoices", err)
	}
	return out, nil
}
