// Package crypto protects PII columns (PAN, Aadhaar, bank details)
// with AES-256-CBC and provides the display-masking helpers used on
// the way out. Masked strings are presentational only and must never
// be written back to the database.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// keyContext separates the field-encryption key from the JWT signing
// use of the same configured secret.
const keyContext = "workzen:field-encryption"

var (
	ErrMissingSecret  = errors.New("encryption secret is not configured")
	ErrMalformedToken = errors.New("malformed ciphertext token")
	ErrDecryptFailed  = errors.New("decryption failed")
)

// FieldCipher encrypts single field values. The key is derived once
// at startup and is read-only afterwards, so a single instance is
// safe to share across requests.
type FieldCipher struct {
	key []byte
}

// NewFieldCipher derives the AES key from the application secret.
// An empty secret is refused so a production deployment can never
// silently run with a default key.
func NewFieldCipher(secret string) (*FieldCipher, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	sum := sha256.Sum256([]byte(secret + ":" + keyContext))
	return &FieldCipher{key: sum[:]}, nil
}

// Encrypt returns "hex(iv):hex(ciphertext)" with a fresh random IV
// per call. Encrypt("") == "".
func (f *FieldCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	block, err := aes.NewCipher(f.key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ct), nil
}

// Decrypt reverses Encrypt. A malformed token or a token produced
// under a different key yields an error, never garbage.
func (f *FieldCipher) Decrypt(token string) (string, error) {
	if token == "" {
		return "", nil
	}

	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 {
		return "", ErrMalformedToken
	}
	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return "", ErrMalformedToken
	}
	ct, err := hex.DecodeString(parts[1])
	if err != nil || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", ErrMalformedToken
	}

	block, err := aes.NewCipher(f.key)
	if err != nil {
		return "", err
	}

	pt := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(pt, ct)

	unpadded, err := pkcs7Unpad(pt, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}
	return string(unpadded), nil
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, errors.New("invalid padding")
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return b[:len(b)-n], nil
}

// MaskPAN keeps the first four characters and everything from index 8
// on, e.g. "ABCDE1234F" -> "ABCDXXXX4F".
func MaskPAN(pan string) string {
	if len(pan) < 8 {
		return pan
	}
	return pan[:4] + strings.Repeat("X", 4) + pan[8:]
}

// MaskAadhaar shows only the last four digits: "XXXX XXXX 9012".
func MaskAadhaar(aadhaar string) string {
	digits := strings.ReplaceAll(aadhaar, " ", "")
	if len(digits) < 4 {
		return aadhaar
	}
	return "XXXX XXXX " + digits[len(digits)-4:]
}

// MaskAccountNumber shows only the last four digits.
func MaskAccountNumber(account string) string {
	if len(account) < 4 {
		return account
	}
	return "XXXX XXXX " + account[len(account)-4:]
}
