package trainer

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"math/big"
	"regexp"
	"strings"
)

const (
	prefixSHA256    = "sha256:"
	prefixSHA256Hex = "sha256hex:"

	// MinPinLength and MaxPinLength bound a new PIN's digit count.
	MinPinLength = 4
	MaxPinLength = 8
)

var (
	bareHexDigest = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
	pinFormat     = regexp.MustCompile(`^[0-9]{4,8}$`)
)

// HashPin returns the canonical stored form "sha256:<base64(sha256(pin))>".
// PRE: none
// POST: Returns "" for a blank pin
func HashPin(pin string) string {
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(pin))
	return prefixSHA256 + base64.StdEncoding.EncodeToString(sum[:])
}

// IsHashedPin reports whether a stored value is one of the hashed encodings.
func IsHashedPin(stored string) bool {
	v := strings.TrimSpace(stored)
	if v == "" {
		return false
	}
	if strings.HasPrefix(v, prefixSHA256) || strings.HasPrefix(v, prefixSHA256Hex) {
		return true
	}
	return bareHexDigest.MatchString(v)
}

// VerifyPin checks a candidate against a stored value.
// Encodings are tried in order: sha256:, sha256hex:, bare 64-char hex, legacy plaintext.
// PRE: none
// POST: Returns false for blank candidate or blank stored value; never panics
func VerifyPin(candidate, stored string) bool {
	candidate = strings.TrimSpace(candidate)
	expected := strings.TrimSpace(stored)
	if candidate == "" || expected == "" {
		return false
	}

	if strings.HasPrefix(expected, prefixSHA256) {
		return subtle.ConstantTimeCompare([]byte(HashPin(candidate)), []byte(expected)) == 1
	}

	sum := sha256.Sum256([]byte(candidate))
	digestHex := hex.EncodeToString(sum[:])

	if strings.HasPrefix(expected, prefixSHA256Hex) {
		needle := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(expected, prefixSHA256Hex)))
		return subtle.ConstantTimeCompare([]byte(digestHex), []byte(needle)) == 1
	}

	if bareHexDigest.MatchString(expected) {
		return subtle.ConstantTimeCompare([]byte(digestHex), []byte(strings.ToLower(expected))) == 1
	}

	return subtle.ConstantTimeCompare([]byte(candidate), []byte(expected)) == 1
}

// ValidateNewPin checks the 4-8 digit policy.
// PRE: none
// POST: Returns ErrInvalidNewPin unless pin is 4-8 ASCII digits
func ValidateNewPin(pin string) error {
	if !pinFormat.MatchString(pin) {
		return ErrInvalidNewPin
	}
	return nil
}

// GeneratePin returns a random numeric PIN. length is clamped to [4, 8].
// PRE: none
// POST: Returns a PIN that passes ValidateNewPin
func GeneratePin(length int) (string, error) {
	if length < MinPinLength {
		length = MinPinLength
	}
	if length > MaxPinLength {
		length = MaxPinLength
	}
	var b strings.Builder
	ten := big.NewInt(10)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
