// Package export writes invoice lists as CSV or XLSX spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"invoice-generator/internal/models"

	"github.com/xuri/excelize/v2"
)

// Header is the column order of every export.
var Header = []string{"Number", "Customer", "Issue Date", "Due Date", "Status", "Subtotal", "Tax", "Total"}

const dateLayout = "2006-01-02"

func customerName(inv *models.Invoice) string {
	if inv.Customer == nil {
		return ""
	}
	return inv.Customer.Name
}

func row(inv *models.Invoice) []string {
	return []string{
		inv.Number,
		customerName(inv),
		inv.IssueDate.Format(dateLayout),
		inv.DueDate.Format(dateLayout),
		inv.Status,
		inv.Subtotal.StringFixed(2),
		inv.TaxAmount.StringFixed(2),
		inv.TotalAmount.StringFixed(2),
	}
}

// WriteCSV writes a UTF-8 CSV (with BOM, so spreadsheet apps detect the
// encoding) of invoices to w.
func WriteCSV(w io.Writer, invoices []models.Invoice) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for i := range invoices {
		rec := row(&invoices[i])
		for j := range rec {
			rec[j] = csvSafe(rec[j])
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// csvSafe prefixes cells a spreadsheet would read as a formula with a quote.
func csvSafe(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

// WriteXLSX writes an Excel workbook with one "Invoices" sheet. Money
// columns are numeric cells.
func WriteXLSX(w io.Writer, invoices []models.Invoice) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Invoices"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for col, title := range Header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}

	for i := range invoices {
		inv := &invoices[i]
		r := i + 2
		values := []any{
			inv.Number,
			customerName(inv),
			inv.IssueDate.Format(dateLayout),
			inv.DueDate.Format(dateLayout),
			inv.Status,
			inv.Subtotal.InexactFloat64(),
			inv.TaxAmount.InexactFloat64(),
			inv.TotalAmount.InexactFloat64(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "B", 22); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
