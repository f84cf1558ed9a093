package account

import "github.com/heartmarshall/pantau-subsidi/internal/domain"

// AuthResult is returned by Register and Login.
type AuthResult struct {
	AccessToken string
	Account     domain.Account
	Replayed    bool
}
