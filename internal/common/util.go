package common

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"
)

// MakeRandHexString generates a random hexadecimal string from size random
// bytes. The resulting string is twice as long as size.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateSecret returns a random secret of the given length drawn uniformly
// from SecretAlphabet using crypto/rand.
func GenerateSecret(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("secret length must be positive")
	}

	max := big.NewInt(int64(len(SecretAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = SecretAlphabet[n.Int64()]
	}

	return string(out), nil
}
