package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

// Login authenticates an account with email + password.
// Returns ErrUnauthorized if the email is not found or the password is wrong.
func (s *Service) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	input.Email = domain.NormalizeEmail(input.Email)

	if err := input.Validate(); err != nil {
		return AuthResult{}, err
	}

	cred, err := s.accounts.Credential(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResult{}, domain.ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("account.Login get credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(input.Password)); err != nil {
		return AuthResult{}, domain.ErrUnauthorized
	}

	token, err := s.jwt.GenerateAccessToken(cred.AccountID, cred.Role.String())
	if err != nil {
		return AuthResult{}, fmt.Errorf("account.Login issue token: %w", err)
	}

	s.log.InfoContext(ctx, "account logged in",
		slog.String("account_id", cred.AccountID))

	return AuthResult{
		AccessToken: token,
		Account: domain.Account{
			ID:    cred.AccountID,
			Email: cred.Email,
			Role:  cred.Role,
		},
	}, nil
}

// List returns every account, oldest first.
func (s *Service) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("account.List: %w", err)
	}
	return accounts, nil
}
