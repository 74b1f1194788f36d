package service

import (
	"context"
	"time"

	"invoice-generator/internal/models"

	"github.com/shopspring/decimal"
)

// StatusTotal aggregates the invoices of one status.
type StatusTotal struct {
	Status string          `json:"status"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// DailyTotal aggregates the invoices issued on one day.
type DailyTotal struct {
	Date  string          `json:"date"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// MonthlyStats summarizes the invoices issued in one calendar month.
type MonthlyStats struct {
	Month       string          `json:"month"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	ByStatus    []StatusTotal   `json:"byStatus"`
	Daily       []DailyTotal    `json:"daily"`
}

// MonthlyStats aggregates invoices whose issue date falls in the month of
// month. Every status appears in ByStatus, in lifecycle order; Daily only
// lists days with invoices.
func (s *InvoiceService) MonthlyStats(ctx context.Context, month time.Time) (*MonthlyStats, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var invoices []models.Invoice
	err := s.db.WithContext(ctx).
		Select("id", "issue_date", "status", "total_amount").
		Where("issue_date >= ? AND issue_date < ?", start, end).
		Order("issue_date ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, internal("load monthly invoices", err)
	}

	out := &MonthlyStats{
		Month:       start.Format("2006-01"),
		TotalAmount: decimal.Zero,
		PaidAmount:  decimal.Zero,
		ByStatus:    make([]StatusTotal, len(models.InvoiceStatuses)),
		Daily:       []DailyTotal{},
	}
	idx := make(map[string]int, len(models.InvoiceStatuses))
	for i, st := range models.InvoiceStatuses {
		out.ByStatus[i] = StatusTotal{Status: st, Total: decimal.Zero}
		idx[st] = i
	}

	for _, inv := range invoices {
		out.Count++
		out.TotalAmount = out.TotalAmount.Add(inv.TotalAmount)
		if inv.IsPaid() {
			out.PaidAmount = out.PaidAmount.Add(inv.TotalAmount)
		}
		if i, ok := idx[inv.Status]; ok {
			out.ByStatus[i].Count++
			out.ByStatus[i].Total = out.ByStatus[i].Total.Add(inv.TotalAmount)
		}

		day := inv.IssueDate.UTC().Format("2006-01-02")
		if n := len(out.Daily); n > 0 && out.Daily[n-1].Date == day {
			out.Daily[n-1].Count++
			out.Daily[n-1].Total = out.Daily[n-1].Total.Add(inv.TotalAmount)
			continue
		}
		out.Daily = append(out.Daily, DailyTotal{Date: day, Count: 1, Total: inv.TotalAmount})
	}
	return out, nil
}
