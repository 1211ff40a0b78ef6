package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	tests := map[string]string{
		"AVA@Example.com ":     "ava@example.com",
		"  admin@x.com\t":      "admin@x.com",
		"already@normal.org":   "already@normal.org",
		"":                     "",
		" MiXeD.Case@Host.IO ": "mixed.case@host.io",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeEmail(in), "input %q", in)
	}
}

func TestNormalizeDisplayName(t *testing.T) {
	assert.Equal(t, "Ava", NormalizeDisplayName("  Ava \n"))
	assert.Equal(t, "", NormalizeDisplayName("   "))
}

func TestAccount_HasCredential(t *testing.T) {
	empty := ""
	hash := "$2a$04$abc"

	assert.False(t, (&Account{}).HasCredential())
	assert.False(t, (&Account{CredentialHash: &empty}).HasCredential())
	assert.True(t, (&Account{CredentialHash: &hash}).HasCredential())
}

func TestBootstrapReport_OK(t *testing.T) {
	ok := BootstrapReport{Exists: true, IsAdmin: true, IsActive: true, Authenticates: true}
	assert.True(t, ok.OK())

	for _, r := range []BootstrapReport{
		{IsAdmin: true, IsActive: true, Authenticates: true},
		{Exists: true, IsActive: true, Authenticates: true},
		{Exists: true, IsAdmin: true, Authenticates: true},
		{Exists: true, IsAdmin: true, IsActive: true},
	} {
		assert.False(t, r.OK(), "%+v", r)
	}
}
