package util

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

var (
	jwtSecretValue = getEnv("JWTSECRET", "")
	jwtSecret      = jwtSecretValue
	jwtSecretByte  = []byte(jwtSecretValue)
	jwtMutex       sync.RWMutex
)

// Argon2id parameters used for password hashing.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

// HashPassword computes the legacy HMAC-SHA256 hash. It is kept only so
// pre-Argon2 accounts can still be verified and upgraded at login.
func HashPassword(password string) (hashedPassword string) {
	secretByte := GetJWTSecretByte()
	h := hmac.New(sha256.New, secretByte)
	h.Write([]byte(password))
	hashedPassword = hex.EncodeToString(h.Sum(nil))
	return
}

// GenerateSalt returns a random hex-encoded salt for Argon2 hashing.
func GenerateSalt() (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	return hex.EncodeToString(salt), nil
}

// HashPasswordArgon2 hashes the password with Argon2id using the provided
// hex-encoded salt. The result is self-describing: "argon2id$<salt>$<hash>".
func HashPasswordArgon2(password, salt string) (string, error) {
	saltByte, err := hex.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("invalid salt: %w", err)
	}
	hash := argon2.IDKey([]byte(password), saltByte, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("argon2id$%s$%s", salt, hex.EncodeToString(hash)), nil
}

// VerifyPassword checks a plaintext password against a stored hash. It
// supports both the Argon2id format and the legacy HMAC format, and uses a
// constant-time comparison in both cases.
func VerifyPassword(plain, stored, salt string) (bool, error) {
	if strings.HasPrefix(stored, "argon2id$") {
		recomputed, err := HashPasswordArgon2(plain, salt)
		if err != nil {
			return false, err
		}
		return subtle.ConstantTimeCompare([]byte(recomputed), []byte(stored)) == 1, nil
	}
	legacy := HashPassword(plain)
	return subtle.ConstantTimeCompare([]byte(legacy), []byte(stored)) == 1, nil
}

// SetJWTSecret allows tests or runtime code to update the JWT secret used
// for both token signing and legacy password hashing. This function is
// thread-safe and can be called concurrently.
func SetJWTSecret(secret string) {
	jwtMutex.Lock()
	defer jwtMutex.Unlock()
	jwtSecret = secret
	jwtSecretByte = []byte(secret)
}

// GetJWTSecretByte returns a copy of the current JWT secret bytes in a thread-safe manner.
func GetJWTSecretByte() []byte {
	jwtMutex.RLock()
	defer jwtMutex.RUnlock()
	// Return a copy to prevent external modifications
	return append([]byte(nil), jwtSecretByte...)
}
