package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input models.Credentials) (*models.User, error)
}

type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type authService struct {
	userRepo repositories.UserRepository
	audit    AuditService
}

func NewAuthService(userRepo repositories.UserRepository, audit AuditService) AuthService {
	return &authService{
		userRepo: userRepo,
		audit:    audit,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.FirstName == "" || input.Email == "" {
		return nil, ErrValidationFailed
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	user := &models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleMember,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		Title:       "user registered",
		Description: fmt.Sprintf("new account %s", user.Email),
		Severity:    models.SeverityInfo,
		Metadata:    map[string]interface{}{"user_id": user.ID},
		UserID:      &user.ID,
	})

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) Login(ctx context.Context, input models.Credentials) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	user.PasswordHash = ""
	return user, nil
}
