package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

// Register creates a new account with email + password authentication.
// Returns ErrAlreadyExists if the email is already taken on either storage
// path. Repeating a registration with the same id and credentials is a replay.
func (s *Service) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	// Normalize input before validation.
	input.Email = domain.NormalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)

	if err := input.Validate(); err != nil {
		return AuthResult{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.BcryptCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("account.Register hash password: %w", err)
	}

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}
	role := domain.Role(input.Role)
	if role == "" {
		role = domain.RolePetugas
	}

	now := time.Now().UTC()
	created, err := s.accounts.Create(ctx, domain.Account{
		ID:           id,
		Email:        input.Email,
		Name:         input.Name,
		Role:         role,
		Agency:       strings.TrimSpace(input.Agency),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) && input.ID != "" {
			if stored, ok := s.replayed(ctx, id, input); ok {
				return s.issue(stored, true)
			}
		}
		return AuthResult{}, fmt.Errorf("account.Register: %w", err)
	}

	s.log.InfoContext(ctx, "account registered",
		slog.String("account_id", created.ID),
		slog.String("role", created.Role.String()))

	return s.issue(created, false)
}

// replayed reports whether the stored account under id was created by an
// earlier attempt of the same registration.
func (s *Service) replayed(ctx context.Context, id string, input RegisterInput) (domain.Account, bool) {
	stored, err := s.accounts.GetByID(ctx, id)
	if err != nil || stored.Email != input.Email {
		return domain.Account{}, false
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(input.Password)) != nil {
		return domain.Account{}, false
	}
	return stored, true
}

func (s *Service) issue(a domain.Account, replayed bool) (AuthResult, error) {
	token, err := s.jwt.GenerateAccessToken(a.ID, a.Role.String())
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}
	return AuthResult{AccessToken: token, Account: a, Replayed: replayed}, nil
}
