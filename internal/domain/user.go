package domain

import (
	"fmt"
	"time"
)

// User-specific validation errors.
var (
	// ErrUsernameEmpty is returned when a username is empty.
	ErrUsernameEmpty = fmt.Errorf("%w: username cannot be empty", ErrValidation)

	// ErrUsernameTooLong is returned when a username exceeds the maximum length.
	ErrUsernameTooLong = fmt.Errorf("%w: username must be at most 64 characters", ErrValidation)

	// ErrPasswordTooShort is returned when a password is shorter than 8 characters.
	ErrPasswordTooShort = fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)

	// ErrPasswordTooLong is returned when a password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = fmt.Errorf("%w: password must be at most 72 characters", ErrValidation)

	// ErrEmptyPassword is returned when neither a plaintext nor a hashed
	// password is present.
	ErrEmptyPassword = fmt.Errorf("%w: password cannot be empty", ErrValidation)
)

const (
	maxUsernameLength = 64
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt's practical limit
)

// User represents a registered account that owns zero or more decks.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Password       string    `json:"-"` // Plaintext password, held only during registration
	HashedPassword string    `json:"-"` // Never expose the hash in JSON
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given username and plaintext password.
// The ID is left unset; the store assigns it on creation.
//
// NOTE: the caller is responsible for hashing the password before the user
// is stored.
func NewUser(username, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		Username:  username,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.Username == "" {
		return ErrUsernameEmpty
	}

	if len(u.Username) > maxUsernameLength {
		return ErrUsernameTooLong
	}

	if u.Password != "" {
		if len(u.Password) < minPasswordLength {
			return ErrPasswordTooShort
		}
		if len(u.Password) > maxPasswordLength {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Users loaded from the store carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}
