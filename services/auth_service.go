package services

import (
	"cart-app/models"
	"cart-app/repositories"
	"cart-app/utils"
	"context"
	"errors"
	"time"
)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Upsert(ctx context.Context, u *models.User) error
}

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService struct {
	users     UserStore
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(users UserStore, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret, jwtExpiry: jwtExpiry}
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	valid, err := utils.VerifyPassword(user.Password, req.Password)
	if err != nil || !valid {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{Token: token, User: *user}, nil
}

// EnsureAdmin creates or refreshes the admin account used by the catalog
// admin routes.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.Upsert(ctx, &models.User{Email: email, Password: hashed, Role: "admin"})
}
