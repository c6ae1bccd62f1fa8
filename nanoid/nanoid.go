// Package nanoid generates short URL-safe random identifiers. They tag
// executed statements in log output so a statement and its outcome can be
// correlated across lines.
package nanoid

import "crypto/rand"

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-_"

// New returns a 12-character random identifier drawn from a 64-character
// URL-safe alphabet.
func New() string {
	var buf [12]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("nanoid: failed to read random bytes: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = alphabet[b&63]
	}
	return string(buf[:])
}
