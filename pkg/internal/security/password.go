package security

import (
	"errors"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Password is a plaintext password that already passed the account policy.
// It only lives long enough to be hashed or verified.
type Password string

var (
	ErrPasswordTooShort   = errors.New("password too short")
	ErrPasswordTooLong    = errors.New("password too long")
	ErrPasswordCharacters = errors.New("password contains invalid characters")
)

const (
	passwordMinLength = 8
	passwordMaxLength = 40
)

// NewPassword applies the account password policy: 8-40 printable ASCII.
func NewPassword(raw string) (Password, error) {
	if len(raw) < passwordMinLength {
		return "", ErrPasswordTooShort
	}
	if len(raw) > passwordMaxLength {
		return "", ErrPasswordTooLong
	}
	for _, r := range raw {
		if r < 0x20 || r > 0x7e {
			return "", ErrPasswordCharacters
		}
	}
	return Password(raw), nil
}

// HashedPassword is the opaque one-way transform of a password. The service
// never inspects it beyond equality through Verify.
type HashedPassword string

// Hash derives the stored form. Cost is tunable through settings so tests
// and low-end deployments can trade work factor for speed.
func (p Password) Hash() (HashedPassword, error) {
	cost := viper.GetInt("security.password_cost")
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(p), cost)
	if err != nil {
		return "", err
	}
	return HashedPassword(digest), nil
}

// Verify reports whether the supplied plaintext matches this hash.
func (h HashedPassword) Verify(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(h), []byte(raw)) == nil
}
