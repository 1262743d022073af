package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xm-shop/crm-api/internal/domain"
	"github.com/xm-shop/crm-api/internal/domain/entity"
	"github.com/xm-shop/crm-api/internal/domain/repository"
)

var _ repository.DocumentStore = (*Store)(nil)

// Store is the local fallback for the shop document: a single JSON file
// holding every shop's document, the server-side analogue of the browser's
// localStorage blob. There is no row mirror here; the invoices table only
// exists on the hosted backend.
type Store struct {
	mu   sync.Mutex
	path string
}

// fileBlob is the on-disk layout: documents merged by shop id.
type fileBlob struct {
	Shops map[string]*entity.ShopDocument `json:"shops"`
}

// New builds the file store. The file is created lazily on first write.
func New(path string) *Store {
	return &Store{path: path}
}

// Fetch reads the document for one shop out of the blob.
func (s *Store) Fetch(ctx context.Context, shopID string) (*entity.ShopDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := s.read()
	if err != nil {
		return nil, err
	}
	doc, ok := blob.Shops[shopID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc.Normalize()
	return doc, nil
}

// Upsert replaces one shop's document inside the blob, honoring the same
// version check as the hosted store.
func (s *Store) Upsert(ctx context.Context, doc *entity.ShopDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := s.read()
	if err != nil {
		return err
	}
	if existing, ok := blob.Shops[doc.ShopID]; ok && existing.Version != doc.Version {
		return domain.ErrConflict
	}
	stored := *doc
	stored.Version = doc.Version + 1
	blob.Shops[doc.ShopID] = &stored
	if err := s.write(blob); err != nil {
		return err
	}
	doc.Version++
	return nil
}

func (s *Store) read() (*fileBlob, error) {
	blob := &fileBlob{Shops: map[string]*entity.ShopDocument{}}
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return blob, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	if len(raw) == 0 {
		return blob, nil
	}
	if err := json.Unmarshal(raw, blob); err != nil {
		return nil, fmt.Errorf("decode data file: %w", err)
	}
	if blob.Shops == nil {
		blob.Shops = map[string]*entity.ShopDocument{}
	}
	return blob, nil
}

// write replaces the file atomically (temp file + rename) so a crash cannot
// leave a half-written blob behind.
func (s *Store) write(blob *fileBlob) error {
	raw, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".shop-data-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close data file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}
