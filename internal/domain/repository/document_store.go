package repository

import (
	"context"

	"github.com/xm-shop/crm-api/internal/domain/entity"
)

// DocumentStore is the persistence port for the shop document. The store has
// no partial-update primitive: Upsert replaces the whole aggregate.
//
// Upsert compares doc.Version against the stored version and returns
// domain.ErrConflict when the write is stale; on success the stored version
// is doc.Version+1 and the caller's copy is bumped to match.
type DocumentStore interface {
	Fetch(ctx context.Context, shopID string) (*entity.ShopDocument, error)
	Upsert(ctx context.Context, doc *entity.ShopDocument) error
}
