// Package account implements the primary-store repository for accounts.
package account

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/heartmarshall/pantau-subsidi/internal/adapter/postgres"
	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

const table = "accounts"

var columns = []string{
	"id", "email", "name", "role", "agency", "password_hash", "created_at", "updated_at",
}

type row struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	Role         string    `db:"role"`
	Agency       string    `db:"agency"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r row) toDomain() domain.Account {
	return domain.Account{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		Role:         domain.Role(r.Role),
		Agency:       r.Agency,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// Repo provides account persistence backed by PostgreSQL.
// Email uniqueness is enforced by the ux_accounts_email index on lower(email).
type Repo struct {
	db postgres.Querier
}

// New creates a new account repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// List returns all accounts in creation order.
func (r *Repo) List(ctx context.Context) ([]domain.Account, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build account list query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "account", "list")
	}

	out := make([]domain.Account, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.toDomain())
	}
	return out, nil
}

// GetByID returns an account by ID.
func (r *Repo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return r.getOne(ctx, sq.Eq{"id": id}, id)
}

// GetByEmail returns an account by email, case-insensitively.
func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	normalized := domain.NormalizeEmail(email)
	return r.getOne(ctx, sq.Expr("lower(email) = ?", normalized), normalized)
}

func (r *Repo) getOne(ctx context.Context, where sq.Sqlizer, key string) (domain.Account, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(where).
		ToSql()
	if err != nil {
		return domain.Account{}, fmt.Errorf("build account get query: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, sql, args...); err != nil {
		return domain.Account{}, postgres.MapError(err, "account", key)
	}
	return rw.toDomain(), nil
}

// Create inserts an account. A duplicate ID or email yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(a.ID, domain.NormalizeEmail(a.Email), a.Name, string(a.Role), a.Agency, a.PasswordHash, a.CreatedAt, a.UpdatedAt).
		Suffix("RETURNING " + postgres.JoinColumns(columns)).
		ToSql()
	if err != nil {
		return domain.Account{}, fmt.Errorf("build account insert: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, sql, args...); err != nil {
		return domain.Account{}, postgres.MapError(err, "account", a.ID)
	}
	return rw.toDomain(), nil
}
