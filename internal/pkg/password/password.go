// Package password hashes and verifies user secrets.
//
// New digests are argon2id in the PHC string format
// ($argon2id$v=19$m=...,t=...,p=...$salt$key) so they can be verified without
// any external state. bcrypt digests are still accepted for verification.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	// MaxBytes is the longest secret prefix that takes part in hashing.
	MaxBytes = 72
	// truncationFloor is the shortest prefix tried before falling back to a lossy decode.
	truncationFloor = 60
)

var ErrMalformedDigest = errors.New("malformed password digest")

type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams follow the OWASP argon2id baseline.
var DefaultParams = Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

type Hasher struct {
	params Params
}

func NewHasher(params Params) *Hasher {
	return &Hasher{params: params}
}

func (h *Hasher) Hash(secret string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("rand.Read -> %w", err)
	}

	key := argon2.IDKey([]byte(Truncate(secret)), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory, h.params.Iterations, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether secret matches digest. Malformed digests never match.
func (h *Hasher) Verify(secret, digest string) bool {
	secret = Truncate(secret)

	if isBcrypt(digest) {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
	}

	params, salt, key, err := decode(digest)
	if err != nil {
		return false
	}

	other := argon2.IDKey([]byte(secret), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)

	return subtle.ConstantTimeCompare(key, other) == 1
}

// NeedsRehash reports whether digest was produced by bcrypt or with weaker
// argon2id parameters than the hasher's.
func (h *Hasher) NeedsRehash(digest string) bool {
	if isBcrypt(digest) {
		return true
	}

	params, _, _, err := decode(digest)
	if err != nil {
		return true
	}

	return params.Memory < h.params.Memory ||
		params.Iterations < h.params.Iterations ||
		params.KeyLength < h.params.KeyLength
}

// Truncate cuts secret to at most MaxBytes without splitting a multi-byte
// character. Hash and Verify both apply it, so secrets that only differ past
// the cut verify against each other.
func Truncate(secret string) string {
	if len(secret) <= MaxBytes {
		return secret
	}

	b := []byte(secret)
	for i := MaxBytes; i >= truncationFloor; i-- {
		if utf8.Valid(b[:i]) {
			return string(b[:i])
		}
	}

	return strings.ToValidUTF8(string(b[:truncationFloor]), "")
}

func isBcrypt(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}

func decode(digest string) (Params, []byte, []byte, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Params{}, nil, nil, ErrMalformedDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Params{}, nil, nil, ErrMalformedDigest
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return Params{}, nil, nil, ErrMalformedDigest
	}
	if p.Memory == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		return Params{}, nil, nil, ErrMalformedDigest
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return Params{}, nil, nil, ErrMalformedDigest
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Params{}, nil, nil, ErrMalformedDigest
	}

	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))

	return p, salt, key, nil
}
