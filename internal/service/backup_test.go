package service

import (
	"context"
	"os"
	"testing"
	"time"

	"invoice-generator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup_CreateOpenDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.customer(t, "Acme")
	p := f.product(t, "A", "100")
	inv := f.invoice(t, c.ID, ItemInput{ProductID: p.ID, Quantity: 2, Price: p.Price})

	svc := NewBackupService(f.db, t.TempDir(), "backup-key")
	b, err := svc.Create(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", b.CreatedBy)
	assert.Positive(t, b.Size)

	raw, err := os.ReadFile(b.FilePath)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Acme", "file is encrypted")

	snap, err := svc.Open(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, snapshotVersion, snap.Version)
	assert.Nil(t, snap.Profile)
	require.Len(t, snap.Customers, 1)
	require.Len(t, snap.Invoices, 1)
	assert.Equal(t, inv.Number, snap.Invoices[0].Number)
	require.Len(t, snap.Invoices[0].Items, 1)

	page, err := svc.List(ctx, ListParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Meta.Total)

	require.NoError(t, svc.Delete(ctx, b.ID))
	_, err = os.Stat(b.FilePath)
	assert.True(t, os.IsNotExist(err))
	_, err = svc.Get(ctx, b.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestBackup_WrongKeyCannotOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dir := t.TempDir()
	b, err := NewBackupService(f.db, dir, "right").Create(ctx, "u")
	require.NoError(t, err)

	_, err = NewBackupService(f.db, dir, "wrong").Open(ctx, b.ID)
	assert.Equal(t, KindInternal, KindOf(err))
}

func TestAudit_RecordAndList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuditService(db)
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, path := range []string{"/customers", "/invoices", "/invoices/1/status"} {
		require.NoError(t, svc.Record(ctx, &models.AuditLog{
			UserID:    "u",
			Method:    "POST",
			Path:      path,
			Status:    200,
			CreatedAt: base.AddDate(0, 0, i),
		}))
	}

	page, err := svc.List(ctx, AuditFilter{ListParams: ListParams{Search: "invoices"}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Meta.Total)
	assert.Equal(t, "/invoices/1/status", page.Data[0].Path, "newest first")

	start := base.AddDate(0, 0, 1)
	end := base.AddDate(0, 0, 2)
	page, err = svc.List(ctx, AuditFilter{Start: &start, End: &end})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "/invoices", page.Data[0].Path)
}
