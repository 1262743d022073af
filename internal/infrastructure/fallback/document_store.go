package fallback

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/xm-shop/crm-api/internal/domain"
	"github.com/xm-shop/crm-api/internal/domain/entity"
	"github.com/xm-shop/crm-api/internal/domain/repository"
)

var _ repository.DocumentStore = (*DocumentStore)(nil)

// DocumentStore wraps the hosted store and fails over to the local file
// store when the backend is unreachable, mirroring the client's
// Supabase-or-localStorage behavior. Domain errors (not found, version
// conflict) are the primary store speaking and pass through untouched.
type DocumentStore struct {
	primary   repository.DocumentStore
	secondary repository.DocumentStore
	log       zerolog.Logger
}

func NewDocumentStore(primary, secondary repository.DocumentStore, log zerolog.Logger) *DocumentStore {
	return &DocumentStore{primary: primary, secondary: secondary, log: log}
}

func (s *DocumentStore) Fetch(ctx context.Context, shopID string) (*entity.ShopDocument, error) {
	doc, err := s.primary.Fetch(ctx, shopID)
	if err == nil || !s.shouldFailOver(err) {
		return doc, err
	}
	s.log.Warn().Err(err).Str("shop_id", shopID).Msg("primary store unavailable, reading local data file")
	return s.secondary.Fetch(ctx, shopID)
}

func (s *DocumentStore) Upsert(ctx context.Context, doc *entity.ShopDocument) error {
	err := s.primary.Upsert(ctx, doc)
	if err == nil || !s.shouldFailOver(err) {
		return err
	}
	s.log.Warn().Err(err).Str("shop_id", doc.ShopID).Msg("primary store unavailable, writing local data file")
	return s.secondary.Upsert(ctx, doc)
}

// shouldFailOver treats every non-domain error as a backend outage. The
// store has no way to tell a dropped connection from a misbehaving proxy,
// and the local file is safe to serve either way.
func (s *DocumentStore) shouldFailOver(err error) bool {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
		return false
	}
	return true
}
