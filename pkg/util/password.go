package util

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the salt rounds the storefront has always used for stored hashes.
var bcryptCost = bcrypt.DefaultCost

// HashPassword hashes a plain text password with a per-hash salt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword checks if a plain text password matches a hashed password
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
