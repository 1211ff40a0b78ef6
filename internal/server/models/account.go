// Package models holds the server-side domain types shared by repositories,
// services and transport.
package models

import (
	"strings"
	"time"
)

// Account is a member of the platform. Email is the natural key and is
// always stored normalized (see NormalizeEmail). A nil CredentialHash means
// the account cannot authenticate with a secret.
type Account struct {
	ID             string
	DisplayName    string
	Email          string
	CredentialHash *string
	IsActive       bool
	IsAdmin        bool
	TotalPoints    int64
	SharesCount    int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasCredential reports whether a secret hash is stored.
func (a *Account) HasCredential() bool {
	return a.CredentialHash != nil && *a.CredentialHash != ""
}

// NormalizeEmail trims surrounding whitespace and lowercases email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeDisplayName trims surrounding whitespace.
func NormalizeDisplayName(name string) string {
	return strings.TrimSpace(name)
}

// AccountStats are counts of non-admin accounts.
type AccountStats struct {
	TotalRegular    int64
	RegularLast24h  int64
	RegularLastWeek int64
}
