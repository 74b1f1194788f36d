package web

import (
	"bytes"
	"testing"
	"time"

	"invoice-generator/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "Rp 0",
		"999":       "Rp 999",
		"1000":      "Rp 1.000",
		"222000":    "Rp 222.000",
		"1234567.5": "Rp 1.234.567,50",
		"0.05":      "Rp 0,05",
		"-15000.25": "-Rp 15.000,25",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestInvoiceTemplate(t *testing.T) {
	day := time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)
	inv := &models.Invoice{
		Number:      "INV/202505/0001",
		Customer:    &models.Customer{Name: "Acme <Corp>", Address: "Jl. Sudirman 1"},
		IssueDate:   day,
		DueDate:     day.AddDate(0, 0, 30),
		Status:      models.InvoiceDraft,
		Subtotal:    decimal.RequireFromString("200000"),
		TaxAmount:   decimal.RequireFromString("22000"),
		TotalAmount: decimal.RequireFromString("222000"),
		Items: []models.InvoiceItem{{
			Product:  &models.Product{Name: "P1", Unit: "pcs"},
			Quantity: 2,
			Price:    decimal.RequireFromString("100000"),
			Total:    decimal.RequireFromString("200000"),
		}},
	}
	profile := &models.BusinessProfile{
		BusinessName: "Toko Maju",
		BankAccounts: datatypes.JSONSlice[models.BankAccount]{{BankName: "BCA", AccountNumber: "123", AccountName: "Toko Maju"}},
	}

	var buf bytes.Buffer
	err := Templates().ExecuteTemplate(&buf, "invoice.html", PrintData{Invoice: inv, Profile: profile, TaxRate: decimal.New(11, -2)})
	require.NoError(t, err)
	html := buf.String()

	assert.Contains(t, html, "INV/202505/0001")
	assert.Contains(t, html, "Acme &lt;Corp&gt;")
	assert.Contains(t, html, "Rp 222.000")
	assert.Contains(t, html, "Tax (11%)")
	assert.Contains(t, html, "11 Jun 2025")
	assert.Contains(t, html, "BCA")

	buf.Reset()
	require.NoError(t, Templates().ExecuteTemplate(&buf, "invoice.html", PrintData{Invoice: inv, TaxRate: decimal.New(11, -2)}))
	assert.NotContains(t, buf.String(), "Please transfer")
}
