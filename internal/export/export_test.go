package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"invoice-generator/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sample() []models.Invoice {
	day := time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)
	return []models.Invoice{
		{
			Number:      "INV/202505/0001",
			Customer:    &models.Customer{Name: "Acme"},
			IssueDate:   day,
			DueDate:     day.AddDate(0, 0, 14),
			Status:      models.InvoiceSent,
			Subtotal:    decimal.RequireFromString("200000"),
			TaxAmount:   decimal.RequireFromString("22000"),
			TotalAmount: decimal.RequireFromString("222000"),
		},
		{Number: "INV/202505/0002", IssueDate: day, DueDate: day, Status: models.InvoiceDraft},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample()))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	rows, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{"INV/202505/0001", "Acme", "2025-05-12", "2025-05-26", "sent", "200000.00", "22000.00", "222000.00"}, rows[1])
	assert.Equal(t, "", rows[2][1], "missing customer renders empty")
}

func TestWriteCSVEscapesFormulas(t *testing.T) {
	invoices := sample()[:1]
	cases := map[string]string{
		"=HYPERLINK(\"http://x\")": "'=HYPERLINK(\"http://x\")",
		"+62 Foods":                "'+62 Foods",
		"-Dash":                    "'-Dash",
		"@Mention":                 "'@Mention",
		"Plain Name":               "Plain Name",
	}
	for name, want := range cases {
		invoices[0].Customer = &models.Customer{Name: name}
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, invoices))
		rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, want, rows[1][1], name)
		assert.Equal(t, "222000.00", rows[1][7])
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sample()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Number", rows[0][0])
	assert.Equal(t, "INV/202505/0001", rows[1][0])
	assert.Equal(t, "Acme", rows[1][1])
	assert.Equal(t, "222000", rows[1][7])
}
