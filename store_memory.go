package identity

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process UserStore guarded by a single coarse lock.
// Suitable for demos and tests; production deployments should prefer
// BunStore or another durable implementation.
//
// Duplicate identities are not rejected on Insert. First match wins on
// lookup, so a duplicate registration never displaces the original record.
type MemoryStore struct {
	mu    sync.RWMutex
	users []*User
}

// NewMemoryStore creates a MemoryStore, optionally pre-seeded with records.
// Seeding is the supported path for provisioning the first admin account:
// registration alone can only create RoleUser records.
func NewMemoryStore(seed ...*User) *MemoryStore {
	s := &MemoryStore{}
	for _, u := range seed {
		if u == nil {
			continue
		}
		clone := *u
		s.users = append(s.users, &clone)
	}
	return s
}

// FindByIdentifier returns the first record whose email matches the
// identifier (case-insensitive), or ErrIdentityNotFound.
func (s *MemoryStore) FindByIdentifier(_ context.Context, identifier string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, identifier) {
			clone := *u
			return &clone, nil
		}
	}

	return nil, ErrIdentityNotFound
}

// Insert appends the record. The write lock makes insertion atomic with
// respect to concurrent registrations.
func (s *MemoryStore) Insert(_ context.Context, record *User) (*User, error) {
	clone := *record

	now := time.Now()
	if clone.CreatedAt == nil {
		clone.CreatedAt = &now
	}
	if clone.UpdatedAt == nil {
		clone.UpdatedAt = &now
	}

	s.mu.Lock()
	s.users = append(s.users, &clone)
	s.mu.Unlock()

	out := clone
	return &out, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

var _ UserStore = (*MemoryStore)(nil)
