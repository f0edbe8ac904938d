package password

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var cheap = NewHasher(Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

func TestHashVerify(t *testing.T) {
	for _, secret := range []string{
		"secret1",
		"pässwörd-with-ümlauts",
		strings.Repeat("a", 72),
		"日本語のパスワード",
	} {
		digest, err := cheap.Hash(secret)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(digest, "$argon2id$v=19$m=1024,t=1,p=1$"), digest)
		assert.True(t, cheap.Verify(secret, digest), secret)

		changed := []rune(secret)
		changed[len(changed)-1] = 'x'
		assert.False(t, cheap.Verify(string(changed), digest), secret)
		if len(secret) < MaxBytes {
			assert.False(t, cheap.Verify(secret+"x", digest), secret)
		}
	}
}

func TestVerifyIgnoresBytesPastBoundary(t *testing.T) {
	secret := strings.Repeat("a", MaxBytes)

	digest, err := cheap.Hash(secret)
	require.NoError(t, err)

	assert.True(t, cheap.Verify(secret+"x", digest))
	assert.False(t, cheap.Verify(strings.Repeat("a", MaxBytes-1)+"x", digest))
}

func TestHashIsSalted(t *testing.T) {
	a, err := cheap.Hash("same-secret")
	require.NoError(t, err)
	b, err := cheap.Hash("same-secret")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, cheap.Verify("same-secret", a))
	assert.True(t, cheap.Verify("same-secret", b))
}

func TestVerifyBeyondBoundary(t *testing.T) {
	base := strings.Repeat("b", 72)

	digest, err := cheap.Hash(base + "tail-one")
	require.NoError(t, err)

	assert.True(t, cheap.Verify(base+"tail-two", digest))
	assert.True(t, cheap.Verify(base, digest))
	assert.False(t, cheap.Verify(base[:71], digest))
}

func TestVerifyMultiByteBoundary(t *testing.T) {
	// 70 ASCII bytes followed by a 3-byte rune straddles the 72-byte cut.
	prefix := strings.Repeat("c", 70)

	digest, err := cheap.Hash(prefix + "€€€")
	require.NoError(t, err)

	assert.True(t, cheap.Verify(prefix+"€zzz", digest))
	assert.True(t, cheap.Verify(prefix, digest))
}

func TestVerifyMalformedDigest(t *testing.T) {
	for _, digest := range []string{
		"",
		"plain",
		"$argon2id$",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$!!!",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdA$a2V5",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$2a$10$short",
	} {
		assert.False(t, cheap.Verify("secret", digest), digest)
	}
}

func TestVerifyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy-secret"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, cheap.Verify("legacy-secret", string(legacy)))
	assert.False(t, cheap.Verify("other", string(legacy)))
	assert.True(t, cheap.NeedsRehash(string(legacy)))
}

func TestNeedsRehash(t *testing.T) {
	digest, err := cheap.Hash("secret")
	require.NoError(t, err)

	assert.False(t, cheap.NeedsRehash(digest))
	assert.True(t, NewHasher(DefaultParams).NeedsRehash(digest))
	assert.True(t, cheap.NeedsRehash("garbage"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short"))

	long := strings.Repeat("d", 100)
	assert.Equal(t, long[:72], Truncate(long))

	straddling := strings.Repeat("e", 71) + "é" + "fff"
	got := Truncate(straddling)
	assert.Equal(t, strings.Repeat("e", 71), got)
	assert.True(t, utf8.ValidString(got))

	emoji := strings.Repeat("😀", 30)
	got = Truncate(emoji)
	assert.Equal(t, strings.Repeat("😀", 18), got)
	assert.LessOrEqual(t, len(got), MaxBytes)

	invalid := strings.Repeat("g", 10) + string([]byte{0xff}) + strings.Repeat("h", 80)
	got = Truncate(invalid)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("g", 10)+strings.Repeat("h", 49), got)
}
