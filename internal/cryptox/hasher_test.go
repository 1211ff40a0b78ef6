package cryptox

import (
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophmember/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher() *BcryptHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

func TestNewBcryptHasher_Cost(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{"min", bcrypt.MinCost, bcrypt.MinCost},
		{"default", bcrypt.DefaultCost, bcrypt.DefaultCost},
		{"too low", 1, bcrypt.DefaultCost},
		{"too high", bcrypt.MaxCost + 1, bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewBcryptHasher(tt.cost).Cost())
		})
	}
}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := newTestHasher()

	for _, secret := range []string{"Adm1n@123", "admin123", "ünïcødé-секрет", " spaces "} {
		hash, err := h.Hash(secret)
		require.NoError(t, err)
		assert.NotEqual(t, secret, hash)
		assert.True(t, h.Verify(secret, hash), "secret %q must verify", secret)
		assert.False(t, h.Verify(secret+"x", hash))
	}
}

func TestBcryptHasher_SaltedPerCall(t *testing.T) {
	h := newTestHasher()

	a, err := h.Hash("Adm1n@123")
	require.NoError(t, err)
	b, err := h.Hash("Adm1n@123")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 60)
	assert.Len(t, b, 60)
	assert.True(t, h.Verify("Adm1n@123", a))
	assert.True(t, h.Verify("Adm1n@123", b))
}

func TestBcryptHasher_EmptySecret(t *testing.T) {
	h := newTestHasher()

	hash, err := h.Hash("")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2"))

	assert.False(t, h.Verify("", ""))
	assert.False(t, h.Verify("x", hash))
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	h := newTestHasher()

	for _, bad := range []string{"", "invalidhash", "$2a$04$short", "plaintext-secret"} {
		assert.NotPanics(t, func() {
			assert.False(t, h.Verify("plaintext-secret", bad))
		})
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	h := newTestHasher()

	_, err := h.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, common.ErrSecretTooLong)
}

func TestBcryptHasher_NeedsRehash(t *testing.T) {
	low := newTestHasher()
	high := NewBcryptHasher(bcrypt.MinCost + 1)

	hash, err := low.Hash("s")
	require.NoError(t, err)

	assert.False(t, low.NeedsRehash(hash))
	assert.True(t, high.NeedsRehash(hash))
	assert.True(t, low.NeedsRehash("garbage"))
}

func TestBcryptHasher_Concurrent(t *testing.T) {
	h := newTestHasher()

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hash, err := h.Hash("concurrent")
			if err != nil || !h.Verify("concurrent", hash) {
				errs <- "round trip failed"
			}
		}()
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Fatal(msg)
	}
}
