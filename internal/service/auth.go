package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	security "github.com/gnat1923/ecommerce/internal/jwt-new"
	"github.com/gnat1923/ecommerce/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (string, error)
}

type AuthService struct {
	log          *slog.Logger
	customerRepo storage.CustomerStorage
	secret       string
	tokenTTL     time.Duration
}

func NewAuthService(log *slog.Logger, customerRepo storage.CustomerStorage, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		log:          log,
		customerRepo: customerRepo,
		secret:       secret,
		tokenTTL:     tokenTTL,
	}
}

// Login проверяет пароль покупателя и выдаёт JWT.
// Неизвестный email, отсутствие пароля, неверный пароль и мягко удалённый покупатель
// дают одну и ту же ErrInvalidCredentials, чтобы не подсказывать, какие email существуют.
func (a *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	const op = "service.AuthService.Login"
	email = strings.ToLower(strings.TrimSpace(email))
	logger := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)
	logger.Info("checking customer")

	customer, err := a.customerRepo.GetCustomerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrCustomerNotFound) {
			logger.Warn("customer not found")
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get customer", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to get customer: %w", op, err)
	}

	if !customer.Active || !customer.HasCredentials() {
		logger.Warn("customer cannot log in", slog.Bool("active", customer.Active))
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	// Сравниваем введённый пароль с хэшем из базы
	if err := bcrypt.CompareHashAndPassword(customer.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := security.NewToken(customer, a.secret, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	logger.Info("customer logged in successfully", slog.Int64("customerID", customer.ID))
	return token, nil
}
