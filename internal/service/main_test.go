package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"invoice-generator/internal/config"
	"invoice-generator/internal/database"
	"invoice-generator/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   "file:" + name + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	db        *gorm.DB
	customers *CustomerService
	products  *ProductService
	invoices  *InvoiceService
	users     *UserService
}

func newFixture(t *testing.T) *fixture {
	db := setupTestDB(t)
	return &fixture{
		db:        db,
		customers: NewCustomerService(db),
		products:  NewProductService(db),
		invoices:  NewInvoiceService(db),
		users:     NewUserService(db, bcrypt.MinCost),
	}
}

func (f *fixture) customer(t *testing.T, name string) *models.Customer {
	t.Helper()
	c, err := f.customers.Create(context.Background(), CustomerInput{
		Name:    name,
		Email:   strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Address: "Jl. Sudirman No. 1, Jakarta",
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) product(t *testing.T, name, price string) *models.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), ProductInput{
		Name:  name,
		Price: money(price),
		Unit:  "pcs",
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) invoice(t *testing.T, customerID string, items ...ItemInput) *models.Invoice {
	t.Helper()
	issue := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	inv, err := f.invoices.Create(context.Background(), InvoiceInput{
		CustomerID: customerID,
		IssueDate:  issue,
		DueDate:    issue.AddDate(0, 0, 30),
		Items:      items,
	})
	require.NoError(t, err)
	return inv
}
