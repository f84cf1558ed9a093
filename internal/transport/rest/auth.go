package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
	"github.com/heartmarshall/pantau-subsidi/internal/service/account"
	"github.com/heartmarshall/pantau-subsidi/internal/transport/middleware"
)

// accountService defines the minimal interface needed by AuthHandler.
type accountService interface {
	Register(ctx context.Context, input account.RegisterInput) (account.AuthResult, error)
	Login(ctx context.Context, input account.LoginInput) (account.AuthResult, error)
	List(ctx context.Context) ([]domain.Account, error)
}

// AuthHandler serves auth and account REST endpoints.
type AuthHandler struct {
	svc accountService
	log *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc accountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: logger.With("handler", "auth")}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Agency   string `json:"agency"`
}

type authResponse struct {
	AccessToken string          `json:"accessToken"`
	Account     accountResponse `json:"account"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role"`
	Agency    string    `json:"agency,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	result, err := h.svc.Login(r.Context(), account.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAuthResponse(result))
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	result, err := h.svc.Register(r.Context(), account.RegisterInput{
		ID:       req.ID,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
		Agency:   req.Agency,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, createdStatus(result.Replayed), toAuthResponse(result))
}

// ListAccounts handles GET /accounts. Admin only.
func (h *AuthHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r.Context(), domain.RoleAdmin); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	accounts, err := h.svc.List(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func toAuthResponse(result account.AuthResult) authResponse {
	return authResponse{
		AccessToken: result.AccessToken,
		Account:     toAccountResponse(result.Account),
	}
}

func toAccountResponse(a domain.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role.String(),
		Agency:    a.Agency,
		CreatedAt: a.CreatedAt,
	}
}
