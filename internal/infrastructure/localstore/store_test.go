package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xm-shop/crm-api/internal/domain"
	"github.com/xm-shop/crm-api/internal/domain/entity"
)

func TestStoreRoundTrip(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "shop-data.json"))
	ctx := context.Background()

	_, err := store.Fetch(ctx, "shop-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	doc := entity.NewShopDocument("shop-1")
	doc.Invoices = append(doc.Invoices, entity.Invoice{ID: "inv-1", Number: "1001"})
	require.NoError(t, store.Upsert(ctx, doc))
	assert.Equal(t, int64(1), doc.Version)

	got, err := store.Fetch(ctx, "shop-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	require.Len(t, got.Invoices, 1)
	assert.Equal(t, "1001", got.Invoices[0].Number)
}

func TestStoreVersionConflict(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "shop-data.json"))
	ctx := context.Background()

	doc := entity.NewShopDocument("shop-1")
	require.NoError(t, store.Upsert(ctx, doc))

	stale := entity.NewShopDocument("shop-1")
	stale.Version = 0
	assert.ErrorIs(t, store.Upsert(ctx, stale), domain.ErrConflict)

	fresh, err := store.Fetch(ctx, "shop-1")
	require.NoError(t, err)
	require.NoError(t, store.Upsert(ctx, fresh))
	assert.Equal(t, int64(2), fresh.Version)
}

func TestStoreIsolatesShops(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "shop-data.json"))
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, entity.NewShopDocument("shop-a")))
	require.NoError(t, store.Upsert(ctx, entity.NewShopDocument("shop-b")))

	a, err := store.Fetch(ctx, "shop-a")
	require.NoError(t, err)
	assert.Equal(t, "shop-a", a.ShopID)

	b, err := store.Fetch(ctx, "shop-b")
	require.NoError(t, err)
	assert.Equal(t, "shop-b", b.ShopID)
}
