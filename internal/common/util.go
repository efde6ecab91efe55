package common

import "crypto/rand"

// GenerateRandByteArray returns size bytes read from crypto/rand.
// It panics if the system random source fails, which should never happen.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites b with zeros. Used to drop plaintext passwords
// from memory once they have been hashed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
