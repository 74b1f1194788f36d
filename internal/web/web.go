// Package web holds the server-rendered pages, embedded into the binary.
package web

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"invoice-generator/internal/models"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// PrintData is the view model of templates/invoice.html.
type PrintData struct {
	Invoice *models.Invoice
	Profile *models.BusinessProfile
	TaxRate decimal.Decimal
}

var funcs = template.FuncMap{
	"money":   FormatMoney,
	"date":    func(t time.Time) string { return t.Format("02 Jan 2006") },
	"percent": func(d decimal.Decimal) string { return d.Mul(decimal.NewFromInt(100)).String() + "%" },
	"inc":     func(i int) int { return i + 1 },
}

// Templates parses every embedded template.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// FormatMoney renders an amount in Rupiah style: "Rp 1.234.567,89". The
// fraction is dropped when it is zero.
func FormatMoney(d decimal.Decimal) string {
	neg := d.IsNegative()
	d = d.Abs().Round(2)

	whole := d.Truncate(0).String()
	frac := d.Sub(d.Truncate(0)).Mul(decimal.NewFromInt(100)).IntPart()

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "Rp " + b.String()
	if frac != 0 {
		out += "," + twoDigits(frac)
	}
	if neg {
		out = "-" + out
	}
	return out
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + string(rune('0'+n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}
