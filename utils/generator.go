package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/anjiri1684/quiz_connect/models"
	"gorm.io/gorm"
)

const DefaultAuthCodeLength = 6
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomCode returns an uppercase alphanumeric code of the given length.
func RandomCode(length int) (string, error) {
	if length <= 0 {
		length = DefaultAuthCodeLength
	}
	max := big.NewInt(int64(len(letterBytes)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = letterBytes[n.Int64()]
	}
	return string(b), nil
}

// GenerateUniqueAuthCode draws codes until one is held by no account. The
// account's own current code counts as taken, so the result always differs
// from it.
func GenerateUniqueAuthCode(tx *gorm.DB, length int) (string, error) {
	for {
		code, err := RandomCode(length)
		if err != nil {
			return "", err
		}

		var count int64
		if err := tx.Model(&models.Account{}).Where("auth_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
}
