package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/big"
)

// RandomToken returns n random bytes hex-encoded; n=32 gives the
// 256-bit opaque tokens used for invite links and password resets.
func RandomToken(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// GenerateOTP returns a numeric code uniformly distributed over
// [10^(digits-1), 10^digits - 1], so it never has a leading zero.
func GenerateOTP(digits int) (string, error) {
	if digits < 4 || digits > 10 {
		return "", errors.New("invalid otp length")
	}
	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits-1)), nil)
	span := new(big.Int).Mul(low, big.NewInt(9))
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}
	return n.Add(n, low).String(), nil
}

// TempPassword builds the generated password handed to a candidate on
// approval: random hex plus a fixed suffix that satisfies complexity
// rules (uppercase, digit, symbol).
func TempPassword() (string, error) {
	base, err := RandomToken(6)
	if err != nil {
		return "", err
	}
	return base + "A1@", nil
}
