// Package cryptox implements one-way password hashing with support for
// scheme evolution. New hashes always use bcrypt; hashes produced under the
// deprecated argon2id scheme remain verifiable so that existing credentials
// survive a scheme change.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const argon2idPrefix = "$argon2id$"

// HashPassword hashes plaintext with bcrypt at the given cost. A cost of 0
// selects bcrypt.DefaultCost.
func HashPassword(plaintext string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("hashing error: %w", err)
	}
	return string(b), nil
}

// VerifyPassword reports whether plaintext matches the encoded hash.
// The scheme is selected by the hash prefix; an unknown scheme never matches.
func VerifyPassword(plaintext, encoded string) bool {
	switch {
	case isBcrypt(encoded):
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext)) == nil
	case strings.HasPrefix(encoded, argon2idPrefix):
		return verifyArgon2id(plaintext, encoded)
	default:
		return false
	}
}

// NeedsRehash reports whether a stored hash should be re-issued: either it
// uses the deprecated argon2id scheme or its bcrypt cost is below cost.
func NeedsRehash(encoded string, cost int) bool {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if !isBcrypt(encoded) {
		return true
	}
	current, err := bcrypt.Cost([]byte(encoded))
	if err != nil {
		return true
	}
	return current < cost
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

// verifyArgon2id checks plaintext against a PHC-formatted argon2id hash:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<b64 salt>$<b64 hash>
func verifyArgon2id(plaintext, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory uint32
	var iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	got := argon2.IDKey([]byte(plaintext), salt, iterations, memory, parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}
