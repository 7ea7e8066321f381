package entities

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// PasswordScheme selects how passwords are stored and compared.
type PasswordScheme string

const (
	// PasswordPlain stores the password as given. Kept as the default for
	// parity with existing deployments; see PASSWORD_SCHEME.
	PasswordPlain  PasswordScheme = "plain"
	PasswordBcrypt PasswordScheme = "bcrypt"
)

func ParsePasswordScheme(s string) (PasswordScheme, error) {
	switch PasswordScheme(strings.ToLower(s)) {
	case PasswordPlain, "":
		return PasswordPlain, nil
	case PasswordBcrypt:
		return PasswordBcrypt, nil
	}
	return "", fmt.Errorf("unknown password scheme %q", s)
}

type User struct {
	Id        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Email     string
	Name      string
	Password  string
}

func NewUser(email, name, password string) *User {
	now := time.Now()
	return &User{
		Id:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Email:     email,
		Name:      name,
		Password:  password,
	}
}

func (u *User) validate() error {
	if u.Email == "" {
		return errors.New("email must not be empty")
	}
	if u.Name == "" {
		return errors.New("name must not be empty")
	}
	if u.Password == "" {
		return errors.New("password must not be empty")
	}
	if u.CreatedAt.After(u.UpdatedAt) {
		return errors.New("created_at must be before updated_at")
	}
	return nil
}

// ApplyScheme rewrites Password into its stored form.
func (u *User) ApplyScheme(scheme PasswordScheme) error {
	if scheme != PasswordBcrypt {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(scheme PasswordScheme, password string) bool {
	if scheme == PasswordBcrypt {
		return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) == 1
}
