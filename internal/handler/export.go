package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"invoice-generator/internal/export"
	"invoice-generator/internal/service"
	"invoice-generator/internal/web"

	"github.com/gin-gonic/gin"
)

func exportFileName(ext string) string {
	return fmt.Sprintf("invoices_%s.%s", time.Now().Format("20060102"), ext)
}

// ExportCSV streams the filtered invoice list as CSV.
func (h *InvoiceHandler) ExportCSV(c *gin.Context) {
	f, err := h.invoiceFilter(c)
	if err != nil {
		fail(c, err)
		return
	}
	invoices, err := h.Invoices.Export(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName("csv")))
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, invoices); err != nil {
		slog.Error("csv export failed", "err", err)
	}
}

// ExportXLSX streams the filtered invoice list as an Excel workbook.
func (h *InvoiceHandler) ExportXLSX(c *gin.Context) {
	f, err := h.invoiceFilter(c)
	if err != nil {
		fail(c, err)
		return
	}
	invoices, err := h.Invoices.Export(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName("xlsx")))
	c.Status(http.StatusOK)
	if err := export.WriteXLSX(c.Writer, invoices); err != nil {
		slog.Error("xlsx export failed", "err", err)
	}
}

// Print renders the invoice as a printable HTML page.
func (h *InvoiceHandler) Print(c *gin.Context) {
	inv, err := h.Invoices.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	profile, err := h.Profile.Get(c.Request.Context())
	if err != nil && service.KindOf(err) != service.KindNotFound {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "invoice.html", web.PrintData{
		Invoice: inv,
		Profile: profile,
		TaxRate: service.TaxRate,
	})
}
