package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// cheap params keep the suite fast; the format is identical.
var testParams = Params{Time: 1, Memory: 8 * 1024, Threads: 1, SaltLen: 16, KeyLen: 32}

func newTestCodec() *PasswordCodec {
	return NewPasswordCodec(testParams)
}

func TestHash_Format(t *testing.T) {
	c := newTestCodec()

	h, err := c.Hash("Secr3t!")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(h, "$argon2id$v=19$m=8192,t=1,p=1$"), h)
	assert.Len(t, strings.Split(h, "$"), 6)
	assert.NotContains(t, h, "Secr3t!")
}

func TestHash_VerifyRoundTrip(t *testing.T) {
	c := newTestCodec()

	for _, pw := range []string{"Secr3t!", "", "пароль", strings.Repeat("x", 512), "with $ dollar"} {
		h, err := c.Hash(pw)
		require.NoError(t, err)
		assert.True(t, c.Verify(pw, h), "password %q must verify", pw)
	}
}

func TestHash_SaltedNonDeterministic(t *testing.T) {
	c := newTestCodec()

	a, err := c.Hash("Secr3t!")
	require.NoError(t, err)
	b, err := c.Hash("Secr3t!")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, c.Verify("Secr3t!", a))
	assert.True(t, c.Verify("Secr3t!", b))
}

func TestVerify_WrongPassword(t *testing.T) {
	c := newTestCodec()

	h, err := c.Hash("Secr3t!")
	require.NoError(t, err)

	for _, other := range []string{"wrong", "secr3t!", "Secr3t", "Secr3t!!", ""} {
		assert.False(t, c.Verify(other, h), "password %q must not verify", other)
	}
}

func TestVerify_UsesParamsEmbeddedInHash(t *testing.T) {
	old := NewPasswordCodec(Params{Time: 2, Memory: 4 * 1024, Threads: 2, SaltLen: 8, KeyLen: 16})
	h, err := old.Hash("Secr3t!")
	require.NoError(t, err)

	assert.True(t, newTestCodec().Verify("Secr3t!", h))
}

func TestVerify_MalformedNeverPanics(t *testing.T) {
	c := newTestCodec()

	good, err := c.Hash("pw")
	require.NoError(t, err)
	parts := strings.Split(good, "$")

	bad := []string{
		"",
		"plaintext",
		"$argon2id$",
		"$argon2i$v=19$m=8192,t=1,p=1$" + parts[4] + "$" + parts[5],
		"$argon2id$v=18$m=8192,t=1,p=1$" + parts[4] + "$" + parts[5],
		"$argon2id$v=19$m=0,t=1,p=1$" + parts[4] + "$" + parts[5],
		"$argon2id$v=19$m=8192,t=0,p=1$" + parts[4] + "$" + parts[5],
		"$argon2id$v=19$m=8192,t=1,p=0$" + parts[4] + "$" + parts[5],
		"$argon2id$v=19$m=99999999,t=1,p=1$" + parts[4] + "$" + parts[5],
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$" + parts[5],
		"$argon2id$v=19$m=8192,t=1,p=1$" + parts[4] + "$",
		"$argon2id$v=19$garbage$" + parts[4] + "$" + parts[5],
		"$2b$10$short",
	}
	for _, h := range bad {
		assert.NotPanics(t, func() {
			assert.False(t, c.Verify("pw", h), "hash %q must not verify", h)
		})
	}
}

func TestVerify_LegacyBcrypt(t *testing.T) {
	c := newTestCodec()

	h, err := bcrypt.GenerateFromPassword([]byte("Secr3t!"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, c.Verify("Secr3t!", string(h)))
	assert.False(t, c.Verify("wrong", string(h)))
	assert.True(t, c.NeedsRehash(string(h)))
}

func TestNeedsRehash(t *testing.T) {
	c := newTestCodec()

	current, err := c.Hash("pw")
	require.NoError(t, err)
	assert.False(t, c.NeedsRehash(current))

	weaker, err := NewPasswordCodec(Params{Time: 1, Memory: 4 * 1024, Threads: 1, SaltLen: 16, KeyLen: 32}).Hash("pw")
	require.NoError(t, err)
	assert.True(t, c.NeedsRehash(weaker))

	assert.True(t, c.NeedsRehash("garbage"))
}

func TestHash_InvalidParams(t *testing.T) {
	_, err := NewPasswordCodec(Params{Time: 1, Memory: 1024, Threads: 1}).Hash("pw")
	require.Error(t, err)
}

func TestBurn_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { newTestCodec().Burn("pw") })
}

func TestDefaultParams(t *testing.T) {
	assert.Equal(t, uint32(1), DefaultParams.Time)
	assert.Equal(t, uint32(64*1024), DefaultParams.Memory)
	assert.Equal(t, uint8(4), DefaultParams.Threads)
	assert.Equal(t, uint32(32), DefaultParams.KeyLen)
}
