package fallback

import (
	"fmt"
	"sync"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

// Directory is the authentication lookup view used while the primary store
// is down. Account writes on the fallback path project into it so that a
// login in the same process sees the new identity immediately.
type Directory struct {
	mu      sync.RWMutex
	byEmail map[string]domain.Credential
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{byEmail: make(map[string]domain.Credential)}
}

// Register adds cred. Registering the same account twice is a no-op;
// registering an email owned by another account is domain.ErrAlreadyExists.
func (d *Directory) Register(cred domain.Credential) error {
	email := domain.NormalizeEmail(cred.Email)

	d.mu.Lock()
	defer d.mu.Unlock()

	if cur, ok := d.byEmail[email]; ok && cur.AccountID != cred.AccountID {
		return fmt.Errorf("credential %s: %w", email, domain.ErrAlreadyExists)
	}
	cred.Email = email
	d.byEmail[email] = cred
	return nil
}

// Lookup returns the credential registered for email.
func (d *Directory) Lookup(email string) (domain.Credential, error) {
	email = domain.NormalizeEmail(email)

	d.mu.RLock()
	defer d.mu.RUnlock()

	cred, ok := d.byEmail[email]
	if !ok {
		return domain.Credential{}, fmt.Errorf("credential %s: %w", email, domain.ErrNotFound)
	}
	return cred, nil
}
