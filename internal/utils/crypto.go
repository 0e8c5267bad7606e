// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	alphanumeric      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	upperAlphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

func GenerateRandomString(length int) (string, error) {
	return randomFrom(alphanumeric, length)
}

func randomFrom(charset string, length int) (string, error) {
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

// GenerateContractNumber builds numbers like CT-202401-7K2Q9X. Uniqueness is
// left to the database index; callers retry on conflict.
func GenerateContractNumber(at time.Time) (string, error) {
	suffix, err := randomFrom(upperAlphanumeric, 6)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CT-%s-%s", at.Format("200601"), suffix), nil
}
