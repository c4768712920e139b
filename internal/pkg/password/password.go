// Package password hashes and verifies account passwords with bcrypt.
package password

import "golang.org/x/crypto/bcrypt"

// Cost is the bcrypt work factor applied to every stored hash.
const Cost = 10

// MaxBytes is the longest input bcrypt reads. Longer passwords are cut to it,
// so a 25-rune CJK password still hashes.
const MaxBytes = 72

// Hash returns a salted bcrypt hash of plaintext.
func Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword(truncate(plaintext), Cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plaintext matches the stored hash.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(plaintext)) == nil
}

func truncate(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > MaxBytes {
		b = b[:MaxBytes]
	}
	return b
}
