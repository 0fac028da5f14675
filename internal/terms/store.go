package terms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/odyssey-erp/rentaldesk/internal/platform/httpx"
	"github.com/odyssey-erp/rentaldesk/internal/shared"
)

const (
	lockTTL     = 5 * time.Second
	loadTimeout = 2 * time.Second
)

// ErrBusy is returned when another writer holds the terms lock.
var ErrBusy = fmt.Errorf("%w: terms are being updated", httpx.ErrConflict)

// Store persists terms as one JSON document per owner in Redis.
type Store struct {
	client *redis.Client
	locker *redislock.Client
	prefix string
	logger *slog.Logger
	group  singleflight.Group
}

// NewStore constructs a Store. prefix is the key namespace, e.g.
// "rentaldesk:contract_terms".
func NewStore(client *redis.Client, locker *redislock.Client, prefix string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{client: client, locker: locker, prefix: prefix, logger: logger}
}

func (s *Store) key(owner string) string {
	return s.prefix + ":" + owner
}

// Terms implements Provider. It never fails: any read problem yields the
// defaults.
func (s *Store) Terms(ctx context.Context) ContractTerms {
	t, _ := s.Load(ctx)
	return t
}

// Load returns the stored terms and whether a stored value was used.
// Missing keys in the stored document keep their default value; an
// unreadable document is ignored entirely.
func (s *Store) Load(ctx context.Context) (ContractTerms, bool) {
	owner, ok := shared.OwnerFromContext(ctx)
	if !ok || s == nil || s.client == nil {
		return Default(), false
	}
	key := s.key(owner)
	ch := s.group.DoChan(key, func() (any, error) {
		return s.fetch(ctx, key)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return Default(), false
	case res = <-ch:
	}
	if res.Err != nil {
		if !errors.Is(res.Err, redis.Nil) {
			s.logger.Warn("terms load failed", slog.String("owner", owner), slog.Any("error", res.Err))
		}
		return Default(), false
	}
	return Decode(res.Val.([]byte))
}

// fetch reads key for every caller sharing the flight, so it is detached
// from the cancellation of whichever request started it.
func (s *Store) fetch(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
	defer cancel()
	return s.client.Get(ctx, key).Bytes()
}

// Decode parses a stored document, falling back to defaults.
func Decode(raw []byte) (ContractTerms, bool) {
	t := Default()
	if err := json.Unmarshal(raw, &t); err != nil {
		return Default(), false
	}
	return t, true
}

// Save overwrites the caller's stored terms.
func (s *Store) Save(ctx context.Context, t ContractTerms) error {
	owner, err := shared.RequireOwner(ctx)
	if err != nil {
		return err
	}
	if err := shared.Validate(t); err != nil {
		return err
	}
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode terms: %w", err)
	}
	return s.withLock(ctx, owner, func() error {
		if err := s.client.Set(ctx, s.key(owner), payload, 0).Err(); err != nil {
			return fmt.Errorf("save terms: %w", err)
		}
		return nil
	})
}

// Reset deletes the stored terms so the defaults apply again.
func (s *Store) Reset(ctx context.Context) error {
	owner, err := shared.RequireOwner(ctx)
	if err != nil {
		return err
	}
	return s.withLock(ctx, owner, func() error {
		if err := s.client.Del(ctx, s.key(owner)).Err(); err != nil {
			return fmt.Errorf("reset terms: %w", err)
		}
		return nil
	})
}

func (s *Store) withLock(ctx context.Context, owner string, fn func() error) error {
	lock, err := s.locker.Obtain(ctx, shared.LockKey("terms", owner), lockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return ErrBusy
	}
	if err != nil {
		return fmt.Errorf("obtain terms lock: %w", err)
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			s.logger.Warn("terms lock release failed", slog.Any("error", err))
		}
	}()
	return fn()
}
