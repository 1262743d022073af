package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/xm-shop/crm-api/internal/domain"
	"github.com/xm-shop/crm-api/internal/domain/entity"
	"github.com/xm-shop/crm-api/internal/domain/repository"
)

var _ repository.DocumentStore = (*DocumentRepo)(nil)

// DocumentRepo stores the shop document in the data table: one row per shop,
// one jsonb column per collection, plus a version counter for optimistic
// locking.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository builds the adapter. Pass a pool or tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// Fetch loads the whole shop document.
func (r *DocumentRepo) Fetch(ctx context.Context, shopID string) (*entity.ShopDocument, error) {
	query := `
		SELECT settings, appointments, jobs, invoices, threads, version, updated_at
		FROM data WHERE shop_id = $1`
	doc := entity.NewShopDocument(shopID)
	err := r.q.QueryRow(ctx, query, shopID).Scan(
		&doc.Settings, &doc.Appointments, &doc.Jobs, &doc.Invoices, &doc.Threads,
		&doc.Version, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetch shop document: %w", err)
	}
	return doc, nil
}

// Upsert replaces the document, guarded by the version the caller read: a
// concurrent writer that got there first makes this write return
// domain.ErrConflict instead of silently clobbering. On success the caller's
// Version is bumped to the stored value.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *entity.ShopDocument) error {
	query := `
		INSERT INTO data (shop_id, settings, appointments, jobs, invoices, threads, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7 + 1, $8)
		ON CONFLICT (shop_id) DO UPDATE SET
			settings     = EXCLUDED.settings,
			appointments = EXCLUDED.appointments,
			jobs         = EXCLUDED.jobs,
			invoices     = EXCLUDED.invoices,
			threads      = EXCLUDED.threads,
			version      = data.version + 1,
			updated_at   = EXCLUDED.updated_at
		WHERE data.version = $7`
	tag, err := r.q.Exec(ctx, query,
		doc.ShopID, doc.Settings, doc.Appointments, doc.Jobs, doc.Invoices, doc.Threads,
		doc.Version, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("upsert shop document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	doc.Version++
	return nil
}
