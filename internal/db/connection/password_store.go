package connection

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/99designs/keyring"
)

const serviceName = "pgedit"

// ErrPasswordNotFound is returned when no password is stored for a connection.
var ErrPasswordNotFound = errors.New("password not found")

// PasswordStore handles secure password storage using the OS keyring with a
// file fallback.
type PasswordStore struct {
	ring keyring.Keyring
}

// NewPasswordStore creates a password store with platform-appropriate backends
func NewPasswordStore(configDir string) (*PasswordStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:     serviceName,
		AllowedBackends: backendsForPlatform(),
		FileDir:         filepath.Join(configDir, "keyring"),
		FilePasswordFunc: func(_ string) (string, error) {
			return serviceName, nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &PasswordStore{ring: ring}, nil
}

func backendsForPlatform() []keyring.BackendType {
	switch runtime.GOOS {
	case "darwin":
		return []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.FileBackend,
		}
	case "linux":
		return []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	case "windows":
		return []keyring.BackendType{
			keyring.WinCredBackend,
			keyring.FileBackend,
		}
	default:
		return []keyring.BackendType{keyring.FileBackend}
	}
}

// Save stores a connection password. Empty passwords are not saved.
func (ps *PasswordStore) Save(host string, port int, database, user, password string) error {
	if password == "" {
		return nil
	}
	err := ps.ring.Set(keyring.Item{
		Key:         passwordKey(host, port, database, user),
		Data:        []byte(password),
		Label:       fmt.Sprintf("pgedit: %s@%s:%d/%s", user, host, port, database),
		Description: "PostgreSQL connection password for pgedit",
	})
	if err != nil {
		return fmt.Errorf("failed to save password to keyring: %w", err)
	}
	return nil
}

// Get retrieves a connection password
func (ps *PasswordStore) Get(host string, port int, database, user string) (string, error) {
	item, err := ps.ring.Get(passwordKey(host, port, database, user))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrPasswordNotFound
		}
		return "", fmt.Errorf("failed to read password from keyring: %w", err)
	}
	return string(item.Data), nil
}

// Delete removes a stored password
func (ps *PasswordStore) Delete(host string, port int, database, user string) error {
	err := ps.ring.Remove(passwordKey(host, port, database, user))
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete password from keyring: %w", err)
	}
	return nil
}

func passwordKey(host string, port int, database, user string) string {
	return fmt.Sprintf("%s:%d:%s:%s", host, port, database, user)
}
