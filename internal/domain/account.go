package domain

import (
	"strings"
	"time"
)

// Account is a program participant able to log in.
type Account struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	Agency       string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Credential is the authentication view of an account, keyed by email.
type Credential struct {
	AccountID    string
	Email        string
	Role         Role
	PasswordHash string
}

// Credential projects the account onto its authentication view.
func (a Account) Credential() Credential {
	return Credential{
		AccountID:    a.ID,
		Email:        a.Email,
		Role:         a.Role,
		PasswordHash: a.PasswordHash,
	}
}

// NormalizeEmail lower-cases and trims an email so uniqueness checks agree
// on both storage paths.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
