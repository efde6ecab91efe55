// Package cryptox implements one-way password hashing.
//
// New hashes use argon2id and are stored in the PHC string format
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
//
// with unpadded standard base64 for salt and key. Bcrypt hashes ($2a$, $2b$,
// $2y$) are still accepted by Verify so imported accounts can log in.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/kynetix/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var ErrMalformedHash = errors.New("malformed password hash")

// Upper bounds accepted when decoding a stored hash.
const (
	maxMemory = 1 << 21 // 2 GiB
	maxTime   = 64
)

// Params are the argon2id cost settings.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultParams matches the key derivation settings used elsewhere in the
// project: one pass over 64 MiB with four lanes.
var DefaultParams = Params{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
	SaltLen: 16,
	KeyLen:  32,
}

// PasswordCodec hashes and verifies passwords. The zero value is not usable;
// use NewPasswordCodec.
type PasswordCodec struct {
	params Params
}

func NewPasswordCodec(p Params) *PasswordCodec {
	return &PasswordCodec{params: p}
}

// Hash returns an encoded argon2id hash of password under a fresh random salt,
// so two calls with the same password never return the same string.
func (c *PasswordCodec) Hash(password string) (string, error) {
	if c.params.SaltLen == 0 || c.params.KeyLen == 0 {
		return "", errors.New("cryptox: invalid argon2 params")
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	salt := common.GenerateRandByteArray(int(c.params.SaltLen))
	key := argon2.IDKey(pw, salt, c.params.Time, c.params.Memory, c.params.Threads, c.params.KeyLen)

	return encode(c.params, salt, key), nil
}

// Verify reports whether password matches encoded. Any malformed or
// unsupported encoding yields false.
func (c *PasswordCodec) Verify(password, encoded string) bool {
	if isBcrypt(encoded) {
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
	}

	p, salt, key, err := decode(encoded)
	if err != nil {
		return false
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	candidate := argon2.IDKey(pw, salt, p.Time, p.Memory, p.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1
}

// NeedsRehash reports whether encoded was produced with an algorithm or cost
// weaker than the codec's current settings.
func (c *PasswordCodec) NeedsRehash(encoded string) bool {
	if isBcrypt(encoded) {
		return true
	}
	p, _, key, err := decode(encoded)
	if err != nil {
		return true
	}
	return p.Time < c.params.Time ||
		p.Memory < c.params.Memory ||
		p.Threads < c.params.Threads ||
		uint32(len(key)) < c.params.KeyLen
}

// Burn runs one argon2id derivation with the codec's params and discards it.
// Login calls it for unknown accounts so they cost the same as a wrong password.
func (c *PasswordCodec) Burn(password string) {
	salt := make([]byte, c.params.SaltLen)
	_ = argon2.IDKey([]byte(password), salt, c.params.Time, c.params.Memory, c.params.Threads, c.params.KeyLen)
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

func encode(p Params, salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

func decode(encoded string) (Params, []byte, []byte, error) {
	var p Params

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, ErrMalformedHash
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, ErrMalformedHash
	}
	if p.Memory == 0 || p.Time == 0 || p.Threads == 0 || p.Memory > maxMemory || p.Time > maxTime {
		return p, nil, nil, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, ErrMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, ErrMalformedHash
	}

	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(key))
	return p, salt, key, nil
}
