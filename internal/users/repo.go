package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo reads and records the display data of the users table.
type Repo struct {
	db querier
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// EnsureUser records id on first sight. A non-empty first name replaces the
// stored one, an empty one keeps it.
func (r *Repo) EnsureUser(ctx context.Context, id, prenom string) error {
	if id == "" {
		return fmt.Errorf("user id required")
	}

	const q = `
insert into users (id, prenom)
values ($1, nullif($2, ''))
on conflict (id) do update
set prenom = coalesce(excluded.prenom, users.prenom)
returning id;
`
	var got string
	if err := r.db.QueryRow(ctx, q, id, strings.TrimSpace(prenom)).Scan(&got); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

// FirstName returns the user's prenom, nil when it was never provided.
func (r *Repo) FirstName(ctx context.Context, id string) (*string, error) {
	const q = `select prenom from users where id = $1`

	var prenom *string
	err := r.db.QueryRow(ctx, q, id).Scan(&prenom)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return prenom, nil
}

// FirstWord extracts a first name from a display name.
func FirstWord(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
