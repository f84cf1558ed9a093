package account

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/pantau-subsidi/internal/config"
	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

// accountRepo defines the account repository interface needed by the service.
type accountRepo interface {
	List(ctx context.Context) ([]domain.Account, error)
	GetByID(ctx context.Context, id string) (domain.Account, error)
	Create(ctx context.Context, a domain.Account) (domain.Account, error)
	Credential(ctx context.Context, email string) (domain.Credential, error)
}

// jwtManager defines the token issuing interface needed by the service.
type jwtManager interface {
	GenerateAccessToken(accountID, role string) (string, error)
}

// Service implements registration and login.
type Service struct {
	log      *slog.Logger
	accounts accountRepo
	jwt      jwtManager
	cfg      config.AuthConfig
}

// NewService creates a new account service instance.
func NewService(logger *slog.Logger, accounts accountRepo, jwt jwtManager, cfg config.AuthConfig) *Service {
	return &Service{
		log:      logger.With("service", "account"),
		accounts: accounts,
		jwt:      jwt,
		cfg:      cfg,
	}
}
