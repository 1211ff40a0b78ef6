package models

import "time"

// BootstrapReport is the read-only audit of a bootstrapped admin account.
type BootstrapReport struct {
	Email         string
	Exists        bool
	AccountID     string
	DisplayName   string
	CreatedAt     time.Time
	IsAdmin       bool
	IsActive      bool
	HasCredential bool
	Authenticates bool
}

// OK reports whether the account exists, is an active admin and the
// expected secret authenticates.
func (r *BootstrapReport) OK() bool {
	return r.Exists && r.IsAdmin && r.IsActive && r.Authenticates
}
