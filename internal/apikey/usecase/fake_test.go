package usecase

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryStore is an in-memory APIKeyRepository and TxManager enforcing the same
// uniqueness constraints as the SQL schema. Transactions are serialized and rolled
// back by restoring a snapshot.
type memoryStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	keys map[uuid.UUID]*apikeyDomain.APIKey

	createErr error
	updateErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{keys: make(map[uuid.UUID]*apikeyDomain.APIKey)}
}

func clone(key *apikeyDomain.APIKey) *apikeyDomain.APIKey {
	c := *key
	return &c
}

func (s *memoryStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := make(map[uuid.UUID]*apikeyDomain.APIKey, len(s.keys))
	for id, key := range s.keys {
		snapshot[id] = clone(key)
	}
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.keys = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memoryStore) Create(_ context.Context, key *apikeyDomain.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.keys {
		if existing.OwnerID == key.OwnerID && existing.Name == key.Name {
			return apikeyDomain.ErrDuplicateName
		}
		if existing.SecretHash == key.SecretHash {
			return apikeyDomain.ErrSecretHashConflict
		}
	}
	s.keys[key.ID] = clone(key)
	return nil
}

func (s *memoryStore) Update(_ context.Context, key *apikeyDomain.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updateErr != nil {
		return s.updateErr
	}
	stored, ok := s.keys[key.ID]
	if !ok {
		return nil
	}
	stored.IsActive = key.IsActive
	stored.ExpiresAt = key.ExpiresAt
	stored.RevokedAt = key.RevokedAt
	stored.UpdatedAt = key.UpdatedAt
	return nil
}

func (s *memoryStore) GetByOwner(_ context.Context, ownerID uuid.UUID, keyID uuid.UUID) (*apikeyDomain.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.keys[keyID]
	if !ok || key.OwnerID != ownerID {
		return nil, apikeyDomain.ErrAPIKeyNotFound
	}
	return clone(key), nil
}

func (s *memoryStore) GetByOwnerAndName(_ context.Context, ownerID uuid.UUID, name string) (*apikeyDomain.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range s.keys {
		if key.OwnerID == ownerID && key.Name == name {
			return clone(key), nil
		}
	}
	return nil, apikeyDomain.ErrAPIKeyNotFound
}

func (s *memoryStore) sorted(filter func(*apikeyDomain.APIKey) bool) []*apikeyDomain.APIKey {
	keys := make([]*apikeyDomain.APIKey, 0)
	for _, key := range s.keys {
		if filter(key) {
			keys = append(keys, clone(key))
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CreatedAt.Equal(keys[j].CreatedAt) {
			return keys[i].ID.String() < keys[j].ID.String()
		}
		return keys[i].CreatedAt.Before(keys[j].CreatedAt)
	})
	return keys
}

func (s *memoryStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*apikeyDomain.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.sorted(func(k *apikeyDomain.APIKey) bool { return k.OwnerID == ownerID })
	for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
		keys[i], keys[j] = keys[j], keys[i]
	}
	return keys, nil
}

func (s *memoryStore) CountActive(_ context.Context, ownerID uuid.UUID, asOf time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, key := range s.keys {
		if key.OwnerID == ownerID && key.IsUsable(asOf) {
			count++
		}
	}
	return count, nil
}

func (s *memoryStore) ListCandidatesByPrefix(_ context.Context, prefix string) ([]*apikeyDomain.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sorted(func(k *apikeyDomain.APIKey) bool {
		return k.LookupPrefix == prefix && k.IsActive
	}), nil
}

func (s *memoryStore) LockOwner(context.Context, uuid.UUID) error {
	return nil
}

func (s *memoryStore) BackfillExpiration(_ context.Context, expiresAt time.Time, dryRun bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, key := range s.keys {
		if key.IsActive && key.ExpiresAt == nil {
			count++
			if !dryRun {
				e := expiresAt
				key.ExpiresAt = &e
			}
		}
	}
	return count, nil
}

// fakeCodec produces predictable secrets sharing one lookup prefix and a reversible "hash".
type fakeCodec struct {
	mu      sync.Mutex
	counter int
	secrets []string // when set, returned in order before falling back to the counter
}

func (f *fakeCodec) GenerateSecret() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.secrets) > 0 {
		secret := f.secrets[0]
		f.secrets = f.secrets[1:]
		return secret, nil
	}
	f.counter++
	return apikeyDomain.SecretPrefix + hex.EncodeToString([]byte(fmt.Sprintf("%032d", f.counter))), nil
}

func (f *fakeCodec) LookupPrefix(secret string) string {
	if len(secret) <= apikeyDomain.LookupPrefixLength {
		return secret
	}
	return secret[:apikeyDomain.LookupPrefixLength]
}

func (f *fakeCodec) Hash(secret string) (string, error) {
	return "hash:" + secret, nil
}

func (f *fakeCodec) Verify(secret, digest string) bool {
	return strings.TrimPrefix(digest, "hash:") == secret && strings.HasPrefix(digest, "hash:")
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newTestEngine wires the lifecycle and verification use cases over one memory store.
func newTestEngine(maxActiveKeys int) (*apiKeyUseCase, *verificationUseCase, *memoryStore, *clock) {
	store := newMemoryStore()
	codec := &fakeCodec{}
	clk := newClock()

	lifecycle := NewAPIKeyUseCase(store, store, codec, maxActiveKeys, 24*time.Hour, discardLogger()).(*apiKeyUseCase)
	lifecycle.now = clk.Now

	verification := NewVerificationUseCase(store, codec).(*verificationUseCase)
	verification.now = clk.Now

	return lifecycle, verification, store, clk
}
