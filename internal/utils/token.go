package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// secretBytes: 256 бит энтропии на токен сброса.
const secretBytes = 32

// GenerateSecret: одноразовый секрет для ссылки сброса пароля.
// В открытом виде уходит только в письмо.
func GenerateSecret() (string, error) {
	raw := make([]byte, secretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// HashSecret: sha256 в hex. В базе храним только это значение и по нему же ищем.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
