package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/repository"
	"toolrental-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = &domain.Error{Kind: domain.KindUnauthorized, Message: "invalid email or password"}

const minPasswordLength = 8

type RegisterRequest struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
	Address  string
}

type authService struct {
	userRepo     repository.UserRepository
	tokenManager security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokenManager security.TokenManager) AuthService {
	return &authService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	logger.EnterMethod("AuthService.Register")

	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)
	if username == "" {
		return nil, domain.NewError(domain.KindInvalidInput, "username is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.NewError(domain.KindInvalidInput, "a valid email is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, domain.NewError(domain.KindInvalidInput, "password must be at least %d characters", minPasswordLength)
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.NewError(domain.KindConflict, "email is already registered")
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, classify(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		Role:         domain.UserRoleUser,
		Status:       domain.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		err = classify(err)
		logger.ExitMethodWithError("AuthService.Register", err)
		return nil, err
	}

	logger.ExitMethod("AuthService.Register", "userID", user.ID)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	logger.EnterMethod("AuthService.Login")

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, classify(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Warn("Login failed", "userID", user.ID)
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		return "", nil, domain.NewError(domain.KindForbidden, "account is inactive")
	}

	token, err := s.tokenManager.GenerateAccessToken(user.ID, user.Email, []string{string(user.Role)})
	if err != nil {
		return "", nil, err
	}

	logger.ExitMethod("AuthService.Login", "userID", user.ID)
	return token, user, nil
}

func (s *authService) GetUser(ctx context.Context, userID int32) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	return user, classify(err)
}
