package services

import (
	"context"
	"testing"

	"github.com/clubops/club-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	userRepo := newFakeUserRepo()
	service := NewAuthService(userRepo, &fakeAudit{})

	user, err := service.Register(context.Background(), RegisterInput{
		FirstName: "Mia",
		LastName:  "Holm",
		Email:     "  MIA@Club.Example ",
		Password:  "correct horse",
	})
	require.NoError(t, err)

	assert.Equal(t, "mia@club.example", user.Email)
	assert.Equal(t, models.RoleMember, user.Role)
	assert.True(t, user.IsActive)
	// The hash never leaves the service.
	assert.Empty(t, user.PasswordHash)

	// But it is stored, and it is not the plaintext.
	stored := userRepo.byEmail["mia@club.example"]
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")))
}

func TestRegisterValidation(t *testing.T) {
	service := NewAuthService(newFakeUserRepo(), &fakeAudit{})
	ctx := context.Background()

	_, err := service.Register(ctx, RegisterInput{Email: "a@b.c", Password: "long enough"})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = service.Register(ctx, RegisterInput{FirstName: "Mia", Password: "long enough"})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = service.Register(ctx, RegisterInput{FirstName: "Mia", Email: "a@b.c", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service := NewAuthService(newFakeUserRepo(), &fakeAudit{})
	ctx := context.Background()

	input := RegisterInput{FirstName: "Mia", Email: "mia@club.example", Password: "long enough"}
	_, err := service.Register(ctx, input)
	require.NoError(t, err)

	_, err = service.Register(ctx, input)
	assert.ErrorIs(t, err, ErrUserEmailConflict)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("opensesame"), bcrypt.MinCost)
	require.NoError(t, err)

	userRepo := newFakeUserRepo(
		&models.User{ID: 1, Email: "active@club.example", PasswordHash: string(hash), IsActive: true},
		&models.User{ID: 2, Email: "disabled@club.example", PasswordHash: string(hash), IsActive: false},
	)
	service := NewAuthService(userRepo, &fakeAudit{})
	ctx := context.Background()

	user, err := service.Login(ctx, models.Credentials{Email: "Active@Club.Example", Password: "opensesame"})
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.Empty(t, user.PasswordHash)

	_, err = service.Login(ctx, models.Credentials{Email: "active@club.example", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(ctx, models.Credentials{Email: "nobody@club.example", Password: "opensesame"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(ctx, models.Credentials{Email: "disabled@club.example", Password: "opensesame"})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}
