package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xm-shop/crm-api/internal/domain"
	"github.com/xm-shop/crm-api/internal/domain/entity"
)

type fakeStore struct {
	doc        *entity.ShopDocument
	fetchErr   error
	upsertErr  error
	upsertCall int
}

func (f *fakeStore) Fetch(ctx context.Context, shopID string) (*entity.ShopDocument, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.doc, nil
}

func (f *fakeStore) Upsert(ctx context.Context, doc *entity.ShopDocument) error {
	f.upsertCall++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.doc = doc
	return nil
}

func TestFetchFailsOverOnOutage(t *testing.T) {
	primary := &fakeStore{fetchErr: errors.New("dial tcp: connection refused")}
	secondary := &fakeStore{doc: entity.NewShopDocument("shop-1")}
	store := NewDocumentStore(primary, secondary, zerolog.Nop())

	doc, err := store.Fetch(context.Background(), "shop-1")
	require.NoError(t, err)
	assert.Equal(t, "shop-1", doc.ShopID)
}

func TestFetchPassesDomainErrorsThrough(t *testing.T) {
	primary := &fakeStore{fetchErr: domain.ErrNotFound}
	secondary := &fakeStore{doc: entity.NewShopDocument("shop-1")}
	store := NewDocumentStore(primary, secondary, zerolog.Nop())

	_, err := store.Fetch(context.Background(), "shop-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpsertFailsOverOnOutage(t *testing.T) {
	primary := &fakeStore{upsertErr: domain.ErrBackendUnavailable}
	secondary := &fakeStore{}
	store := NewDocumentStore(primary, secondary, zerolog.Nop())

	require.NoError(t, store.Upsert(context.Background(), entity.NewShopDocument("shop-1")))
	assert.Equal(t, 1, secondary.upsertCall)
}

func TestUpsertKeepsConflict(t *testing.T) {
	primary := &fakeStore{upsertErr: domain.ErrConflict}
	secondary := &fakeStore{}
	store := NewDocumentStore(primary, secondary, zerolog.Nop())

	err := store.Upsert(context.Background(), entity.NewShopDocument("shop-1"))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Zero(t, secondary.upsertCall)
}
