package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MaxUsernameLength is the longest allowed username.
const MaxUsernameLength = 50

// User is an operator account. Passwords are stored as bcrypt hashes only.
type User struct {
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	Username     string
	PasswordHash string
	FullName     string
	Email        string
	Role         string
	ID           int64
	IsActive     bool
}

// SetPassword hashes the plaintext password into PasswordHash.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword reports whether the plaintext password matches the stored hash.
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
