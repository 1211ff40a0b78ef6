// Package cryptox holds the one-way credential hashing used for account
// secrets.
package cryptox

import (
	"errors"

	"github.com/dmitrijs2005/gophmember/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// Hasher turns secrets into storable one-way tokens and checks them back.
// Hash accepts secrets of at most 72 bytes. Implementations must be safe
// for concurrent use.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) bool
	NeedsRehash(hash string) bool
}

// BcryptHasher hashes secrets with bcrypt at a fixed cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost. Costs outside the range
// accepted by bcrypt fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Cost returns the work factor used for new hashes.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt token for secret. Every call yields a
// different token. Secrets longer than 72 bytes are rejected with
// common.ErrSecretTooLong, so callers validate length before hashing.
func (h *BcryptHasher) Hash(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.ErrSecretTooLong
		}
		return "", err
	}
	return string(b), nil
}

// Verify reports whether secret produced hash. Malformed or foreign hashes
// simply do not verify.
func (h *BcryptHasher) Verify(secret, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// NeedsRehash reports whether hash was produced with a different cost than
// the one configured, or cannot be parsed at all.
func (h *BcryptHasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost != h.cost
}
