package utils

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	NameMaxLen     = 100
	PasswordMinLen = 12
	PasswordMaxLen = 128
)

// ValidateRegistration checks the already-normalized registration fields.
func ValidateRegistration(name, email, password string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(password)
}

func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("A name is required to register")
	}
	if len(name) > NameMaxLen {
		return fmt.Errorf("Name must be at most %d characters", NameMaxLen)
	}
	return nil
}

func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("An email is required")
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return fmt.Errorf("Email address is not valid")
	}
	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("A password is required")
	}
	if len(password) < PasswordMinLen {
		return fmt.Errorf("Password must be at least %d characters", PasswordMinLen)
	}
	if len(password) > PasswordMaxLen {
		return fmt.Errorf("Password must be at most %d characters", PasswordMaxLen)
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("Failed to hash password")
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
