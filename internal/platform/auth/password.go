package auth

import "golang.org/x/crypto/bcrypt"

const minPasswordLength = 8

// HashPassword returns a bcrypt hash of the given password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidPasswordLength reports whether a signup password meets the minimum.
func ValidPasswordLength(password string) bool {
	return len(password) >= minPasswordLength
}
