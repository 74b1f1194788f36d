package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.customers.Create(ctx, CustomerInput{Name: "  Acme  ", Email: "billing@acme.test", Address: "Jl. Merdeka 10"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Acme", c.Name)

	_, err = f.customers.Create(ctx, CustomerInput{Name: "Acme 2", Email: "BILLING@acme.test", Address: "Jl. Merdeka 11"})
	assert.Equal(t, KindConflict, KindOf(err), "email is unique, case-insensitively")

	phone := "+62 21 555"
	got, err := f.customers.Update(ctx, c.ID, CustomerPatch{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, got.Phone)
	assert.Equal(t, "billing@acme.test", got.Email)

	same := "billing@acme.test"
	_, err = f.customers.Update(ctx, c.ID, CustomerPatch{Email: &same})
	assert.NoError(t, err, "keeping your own email is not a conflict")

	other := f.customer(t, "Other")
	_, err = f.customers.Update(ctx, other.ID, CustomerPatch{Email: &same})
	assert.Equal(t, KindConflict, KindOf(err))

	_, err = f.customers.Update(ctx, "missing", CustomerPatch{Phone: &phone})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCustomerDelete_BlockedByInvoices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	busy := f.customer(t, "Busy")
	idle := f.customer(t, "Idle")
	p := f.product(t, "A", "10")
	inv := f.invoice(t, busy.ID, ItemInput{ProductID: p.ID, Quantity: 1, Price: p.Price})

	assert.ErrorIs(t, f.customers.Delete(ctx, busy.ID), ErrCustomerInUse)
	require.NoError(t, f.customers.Delete(ctx, idle.ID))
	assert.Equal(t, KindNotFound, KindOf(f.customers.Delete(ctx, idle.ID)))

	detail, err := f.customers.Get(ctx, busy.ID)
	require.NoError(t, err)
	require.Len(t, detail.Invoices, 1)
	assert.Equal(t, inv.Number, detail.Invoices[0].Number)

	require.NoError(t, f.invoices.Delete(ctx, inv.ID))
	assert.NoError(t, f.customers.Delete(ctx, busy.ID))
}

func TestCustomerList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, n := range []string{"Alpha Trading", "Beta Works", "Gamma Alpha"} {
		f.customer(t, n)
	}

	page, err := f.customers.List(ctx, ListParams{Search: "ALPHA"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Meta.Total)

	page, err = f.customers.List(ctx, ListParams{Search: "beta.works@"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Meta.Total, "search covers email")

	page, err = f.customers.List(ctx, ListParams{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, page.Meta.Limit)
	assert.Equal(t, 1, page.Meta.Page)
	assert.Equal(t, 1, page.Meta.TotalPages)

	page, err = f.customers.List(ctx, ListParams{Search: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, 0, page.Meta.TotalPages)
}
