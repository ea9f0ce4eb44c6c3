// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/carbonoffset/internal/config"
)

// Roles carried in token claims and checked by the authorizer.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// DefaultBcryptCost is the cost used for configured passwords.
const DefaultBcryptCost = 12

// ErrInvalidCredentials is returned for any username or password mismatch.
var ErrInvalidCredentials = errors.New("invalid username or password")

type account struct {
	username     string
	passwordHash []byte
	role         string
}

// CredentialStore holds the configured login accounts with bcrypt-hashed
// passwords. Passwords are hashed once at startup, not per request.
type CredentialStore struct {
	accounts  []account
	cost      int
	dummyHash []byte
}

// NewCredentialStore creates an empty store. cost <= 0 uses DefaultBcryptCost.
func NewCredentialStore(cost int) (*CredentialStore, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("carbonoffset-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &CredentialStore{cost: cost, dummyHash: dummy}, nil
}

// NewCredentialStoreFromConfig loads the admin and optional editor accounts.
func NewCredentialStoreFromConfig(cfg *config.SecurityConfig) (*CredentialStore, error) {
	store, err := NewCredentialStore(DefaultBcryptCost)
	if err != nil {
		return nil, err
	}
	if cfg.AdminEnabled() {
		if err := store.Add(cfg.AdminUsername, cfg.AdminPassword, RoleAdmin); err != nil {
			return nil, fmt.Errorf("admin account: %w", err)
		}
	}
	if cfg.EditorEnabled() {
		if err := store.Add(cfg.EditorUsername, cfg.EditorPassword, RoleEditor); err != nil {
			return nil, fmt.Errorf("editor account: %w", err)
		}
	}
	return store, nil
}

// Add registers an account.
func (s *CredentialStore) Add(username, password, role string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters for security")
	}
	if role == "" {
		return fmt.Errorf("role is required")
	}
	for _, a := range s.accounts {
		if a.username == username {
			return fmt.Errorf("duplicate username %q", username)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	s.accounts = append(s.accounts, account{username: username, passwordHash: hash, role: role})
	return nil
}

// Len returns the number of configured accounts.
func (s *CredentialStore) Len() int {
	return len(s.accounts)
}

// Verify checks username and password and returns the account role. Every
// username is compared in constant time and exactly one bcrypt comparison
// runs whether or not the username exists.
func (s *CredentialStore) Verify(username, password string) (string, error) {
	var match *account
	for i := range s.accounts {
		if subtle.ConstantTimeCompare([]byte(username), []byte(s.accounts[i].username)) == 1 {
			match = &s.accounts[i]
		}
	}

	hash := s.dummyHash
	if match != nil {
		hash = match.passwordHash
	}
	passwordOK := bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil

	if match == nil || !passwordOK {
		return "", ErrInvalidCredentials
	}
	return match.role, nil
}
