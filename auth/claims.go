package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/anjiri1684/quiz_connect/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

var errInvalidToken = errors.New("invalid token")

type Claims struct {
	jwt.RegisteredClaims
	Role     models.Role `json:"role"`
	Username string      `json:"username"`
}

func NewClaims(acc models.Account, ttl time.Duration) Claims {
	now := time.Now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(acc.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:     acc.Role,
		Username: acc.Username,
	}
}

func GenerateToken(claims Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}

// Principal converts verified claims into the caller identity.
func (c Claims) Principal() (Principal, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 || !c.Role.Valid() {
		return Principal{}, errInvalidToken
	}
	return Principal{AccountID: uint(id), Role: c.Role, Username: c.Username}, nil
}
