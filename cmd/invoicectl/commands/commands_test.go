package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"invoice-generator/internal/config"
	"invoice-generator/internal/database"
	"invoice-generator/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "invoice.db")
	cfg := "database:\n  driver: sqlite\n  path: " + dbPath + "\nsecurity:\n  bcrypt_cost: 4\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path, dbPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		exportOut, exportStart, exportEnd, exportStatus, exportCustomer = "", "", "", "", ""
		exportFormat = "csv"
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestMigrateAndCreateAdmin(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	out, err := run(t, "--config", cfgPath, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema up to date")

	out, err = run(t, "--config", cfgPath, "create-admin", "--username", "root", "--email", "root@example.com", "--password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, `admin "root" created`)

	_, err = run(t, "--config", cfgPath, "create-admin", "--username", "root", "--email", "other@example.com", "--password", "secret1")
	require.Error(t, err)
	assert.Equal(t, service.KindConflict, service.KindOf(err))
}

func TestExport(t *testing.T) {
	cfgPath, dbPath := writeConfig(t)

	db, err := database.Init(config.DatabaseConfig{Driver: "sqlite", Path: dbPath})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	ctx := context.Background()
	cust, err := service.NewCustomerService(db).Create(ctx, service.CustomerInput{Name: "Budi", Email: "budi@example.com", Address: "Jl. Merdeka 1"})
	require.NoError(t, err)
	prod, err := service.NewProductService(db).Create(ctx, service.ProductInput{Name: "Jasa", Price: decimal.NewFromInt(50000), Unit: "jam"})
	require.NoError(t, err)
	for _, day := range []int{3, 20} {
		_, err := service.NewInvoiceService(db).Create(ctx, service.InvoiceInput{
			CustomerID: cust.ID,
			IssueDate:  time.Date(2025, 5, day, 0, 0, 0, 0, time.UTC),
			DueDate:    time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
			Items:      []service.ItemInput{{ProductID: prod.ID, Quantity: 2, Price: prod.Price}},
		})
		require.NoError(t, err)
	}
	sqlDB, _ := db.DB()
	require.NoError(t, sqlDB.Close())

	out, err := run(t, "--config", cfgPath, "export", "--start", "2025-05-01", "--end", "2025-05-10")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, "\ufeff")), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Number,Customer"))
	assert.Contains(t, lines[1], "Budi,2025-05-03")
	assert.Contains(t, lines[1], "111000.00")

	xlsx := filepath.Join(t.TempDir(), "all.xlsx")
	out, err = run(t, "--config", cfgPath, "export", "--format", "xlsx", "--out", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, "2 invoices written")
	info, err := os.Stat(xlsx)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExportRejectsBadFlags(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	_, err := run(t, "--config", cfgPath, "export", "--start", "2025-05-01")
	assert.ErrorContains(t, err, "together")

	_, err = run(t, "--config", cfgPath, "export", "--format", "pdf")
	assert.ErrorContains(t, err, "unknown format")
}
