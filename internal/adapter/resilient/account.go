package resilient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
	"github.com/heartmarshall/pantau-subsidi/internal/fallback"
)

// AccountPrimary is the primary-store account repository.
type AccountPrimary interface {
	List(ctx context.Context) ([]domain.Account, error)
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Create(ctx context.Context, a domain.Account) (domain.Account, error)
}

// AccountTable is the fallback account table with its email index.
type AccountTable interface {
	fallback.Store[domain.Account]
	Lookup(index, key string) (domain.Account, error)
}

// CredentialDirectory is the fallback authentication lookup view.
type CredentialDirectory interface {
	Register(cred domain.Credential) error
	Lookup(email string) (domain.Credential, error)
}

const emailIndex = "email"

// AccountRepo is the dual-path account repository. Accounts created on the
// fallback path are registered in the credential directory within the same
// call, so a following login in this process finds them.
type AccountRepo struct {
	exec      *Executor
	primary   AccountPrimary
	table     AccountTable
	directory CredentialDirectory
	written   *overlay
}

// NewAccountRepo creates an AccountRepo.
func NewAccountRepo(exec *Executor, primary AccountPrimary, table AccountTable, directory CredentialDirectory) *AccountRepo {
	return &AccountRepo{
		exec:      exec,
		primary:   primary,
		table:     table,
		directory: directory,
		written:   newOverlay(),
	}
}

// List returns all accounts in creation order.
func (r *AccountRepo) List(ctx context.Context) ([]domain.Account, error) {
	out, path, err := Do(ctx, r.exec, Op{"account", "list"},
		func(ctx context.Context) ([]domain.Account, error) {
			return r.primary.List(ctx)
		},
		func() ([]domain.Account, error) {
			return r.table.List(nil), nil
		},
	)
	if err != nil || path == PathFallback || r.written.empty() {
		return out, err
	}

	extra := r.table.List(func(a domain.Account) bool { return r.written.has(a.ID) })
	return mergeByCreation(out, extra,
		func(a domain.Account) string { return a.ID },
		func(a domain.Account) time.Time { return a.CreatedAt },
	), nil
}

// GetByID returns an account.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	a, _, err := Do(ctx, r.exec, Op{"account", "get"},
		func(ctx context.Context) (domain.Account, error) {
			return r.primary.GetByID(ctx, id)
		},
		func() (domain.Account, error) {
			return r.table.Get(id)
		},
	)
	return a, err
}

// GetByEmail returns an account by email, case-insensitively.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	key := domain.NormalizeEmail(email)
	a, _, err := Do(ctx, r.exec, Op{"account", "get_by_email"},
		func(ctx context.Context) (domain.Account, error) {
			return r.primary.GetByEmail(ctx, key)
		},
		func() (domain.Account, error) {
			return r.table.Lookup(emailIndex, key)
		},
	)
	return a, err
}

// Credential returns the authentication view for email.
func (r *AccountRepo) Credential(ctx context.Context, email string) (domain.Credential, error) {
	key := domain.NormalizeEmail(email)
	c, _, err := Do(ctx, r.exec, Op{"account", "credential"},
		func(ctx context.Context) (domain.Credential, error) {
			a, err := r.primary.GetByEmail(ctx, key)
			if err != nil {
				return domain.Credential{}, err
			}
			return a.Credential(), nil
		},
		func() (domain.Credential, error) {
			return r.directory.Lookup(key)
		},
	)
	return c, err
}

// Create stores an account. Its ID and email must be unused on both paths.
func (r *AccountRepo) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	a.Email = domain.NormalizeEmail(a.Email)

	if r.written.has(a.ID) {
		return domain.Account{}, fmt.Errorf("account %s: %w", a.ID, domain.ErrAlreadyExists)
	}
	if owner, err := r.table.Lookup(emailIndex, a.Email); err == nil && r.written.has(owner.ID) {
		return domain.Account{}, fmt.Errorf("account %s=%s: %w", emailIndex, a.Email, domain.ErrAlreadyExists)
	}

	out, path, err := Do(ctx, r.exec, Op{"account", "create"},
		func(ctx context.Context) (domain.Account, error) {
			return r.primary.Create(ctx, a)
		},
		func() (domain.Account, error) {
			return r.createFallback(a)
		},
	)
	if err == nil && path == PathFallback {
		r.written.mark(out.ID)
	}
	return out, err
}

func (r *AccountRepo) createFallback(a domain.Account) (domain.Account, error) {
	created, err := r.table.Create(a)
	if err != nil {
		return domain.Account{}, err
	}

	if err := r.directory.Register(created.Credential()); err != nil {
		if rmErr := r.table.Discard(created.ID); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
		return domain.Account{}, err
	}
	return created, nil
}
