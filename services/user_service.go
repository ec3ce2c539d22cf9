package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
)

type UpdateUserInput struct {
	FirstName *string          `json:"first_name"`
	LastName  *string          `json:"last_name"`
	Role      *models.UserRole `json:"role"`
	IsActive  *bool            `json:"is_active"`
}

type UserService interface {
	// GetByIdentifier accepts either a numeric ID or an email address.
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	List(ctx context.Context, filter repositories.ListUsersFilter) ([]models.User, int, error)
	Update(ctx context.Context, id int, input UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, id int, actorID *int) error
}

type userService struct {
	txRunner    repositories.TxRunner
	userRepo    repositories.UserRepository
	archiveRepo repositories.ArchiveRepository
	audit       AuditService
}

func NewUserService(
	txRunner repositories.TxRunner,
	userRepo repositories.UserRepository,
	archiveRepo repositories.ArchiveRepository,
	audit AuditService,
) UserService {
	return &userService{
		txRunner:    txRunner,
		userRepo:    userRepo,
		archiveRepo: archiveRepo,
		audit:       audit,
	}
}

func (s *userService) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var (
		user *models.User
		err  error
	)

	switch kind, id := ClassifyIdentifier(identifier); kind {
	case IdentifierEmail:
		user, err = s.userRepo.GetByEmail(ctx, identifier)
	case IdentifierID:
		user, err = s.userRepo.GetByID(ctx, id)
	default:
		return nil, ErrUserNotFound
	}

	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) List(ctx context.Context, filter repositories.ListUsersFilter) ([]models.User, int, error) {
	filter.ListParams = repositories.NormalizeListParams(filter.ListParams)
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, total, nil
}

func (s *userService) Update(ctx context.Context, id int, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Role != nil {
		if !models.ValidUserRole(*input.Role) {
			return nil, ErrInvalidRole
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int, actorID *int) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	archive, err := snapshotForArchive(models.ArchiveSourceUsers, user.ID, user, actorID)
	if err != nil {
		return err
	}

	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.archiveRepo.Create(ctx, exec, archive); err != nil {
			return err
		}
		return s.userRepo.Delete(ctx, exec, user.ID)
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		Title:       "user deleted",
		Description: fmt.Sprintf("account %s archived and removed", user.Email),
		Severity:    models.SeverityWarning,
		Metadata:    map[string]interface{}{"user_id": user.ID, "archive_id": archive.ID},
		UserID:      actorID,
	})

	return nil
}
