package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
)

// GenerateResetCode returns a 6-digit numeric code uniform in
// [100000, 999999]. Leading zeros are excluded so the code is always six
// characters as typed by the user.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	code := n.Int64() + 100000
	return big.NewInt(code).String(), nil
}

// HashResetCode produces the deterministic one-way digest under which reset
// codes are stored and compared. The code space is small, so the digest is
// paired with a short expiry and a rate limiter rather than a salt.
func HashResetCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
