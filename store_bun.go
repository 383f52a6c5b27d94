package identity

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// BunStore is a UserStore backed by a bun.DB. The database owns the
// concurrency discipline, so no additional locking is needed here.
type BunStore struct {
	db *bun.DB
}

// NewBunStore creates a BunStore using the given database handle.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

// CreateSchema creates the users table if it does not exist yet. Identity
// uniqueness is deliberately not enforced at the schema level to match the
// store contract; see DESIGN.md.
func (s *BunStore) CreateSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create users table")
	}
	return nil
}

// FindByIdentifier returns the record whose email matches the identifier
// (case-insensitive), or ErrIdentityNotFound.
func (s *BunStore) FindByIdentifier(ctx context.Context, identifier string) (*User, error) {
	user := new(User)

	err := s.db.NewSelect().
		Model(user).
		Where("LOWER(email) = LOWER(?)", identifier).
		OrderExpr("created_at ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query user by identifier")
	}

	return user, nil
}

// Insert persists the record and returns it with database-assigned fields.
func (s *BunStore) Insert(ctx context.Context, record *User) (*User, error) {
	if _, err := s.db.NewInsert().
		Model(record).
		Returning("*").
		Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to insert user")
	}

	return record, nil
}

var _ UserStore = (*BunStore)(nil)
