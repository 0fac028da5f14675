package shared

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/odyssey-erp/rentaldesk/internal/platform/db"
	"github.com/odyssey-erp/rentaldesk/internal/platform/httpx"
)

// IdempotencyHeader carries the client supplied key on create requests.
const IdempotencyHeader = "Idempotency-Key"

// maxIdempotencyKey bounds header values stored in idempotency_keys.
const maxIdempotencyKey = 255

var (
	// ErrIdempotencyConflict means the key was already used for this owner and module.
	ErrIdempotencyConflict = fmt.Errorf("%w: idempotent request already processed", httpx.ErrConflict)
	errIdempotencyKey      = fmt.Errorf("%w: Idempotency-Key must be 1-%d characters", httpx.ErrValidation, maxIdempotencyKey)
)

// IdempotencyStore remembers create requests per (owner, key, module).
type IdempotencyStore struct {
	db  db.Querier
	now func() time.Time
}

// NewIdempotencyStore constructs the store over a pool or transaction.
func NewIdempotencyStore(q db.Querier) *IdempotencyStore {
	return &IdempotencyStore{db: q, now: time.Now}
}

// CheckAndInsert claims key for the owner and module. A second claim fails
// with ErrIdempotencyConflict.
func (s *IdempotencyStore) CheckAndInsert(ctx context.Context, ownerID, key, module string) error {
	if s == nil || s.db == nil {
		return errors.New("idempotency store not initialised")
	}
	key = strings.TrimSpace(key)
	if key == "" || len(key) > maxIdempotencyKey {
		return errIdempotencyKey
	}
	if module == "" {
		return errors.New("idempotency module required")
	}
	_, err := s.db.Exec(ctx, `INSERT INTO idempotency_keys (owner_id, key, module, created_at) VALUES ($1, $2, $3, $4)`,
		ownerID, key, module, s.now().UTC())
	if err = db.MapError(err); errors.Is(err, httpx.ErrDuplicate) {
		return ErrIdempotencyConflict
	}
	return err
}

// Cleanup removes keys claimed more than olderThan ago and reports how many went.
func (s *IdempotencyStore) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM idempotency_keys WHERE created_at < $1`, s.now().UTC().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Delete releases a claimed key after the guarded operation failed.
func (s *IdempotencyStore) Delete(ctx context.Context, ownerID, key, module string) error {
	if s == nil || s.db == nil {
		return nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	_, err := s.db.Exec(ctx, `DELETE FROM idempotency_keys WHERE owner_id = $1 AND key = $2 AND module = $3`, ownerID, key, module)
	return err
}
