package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/gnat1923/ecommerce/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
)

// NewToken генерирует JWT-токен для покупателя с заданным временем жизни.
func NewToken(customer *models.Customer, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is not set")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", customer.ID),
		"email": customer.Email,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
