package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
	"github.com/clubops/club-system/storage"
)

type CreateStaffInput struct {
	FullName  string     `json:"full_name"`
	RoleTitle string     `json:"role_title"`
	Bio       string     `json:"bio"`
	JoinedAt  *time.Time `json:"joined_at"`
}

type UpdateStaffInput struct {
	FullName  *string    `json:"full_name"`
	RoleTitle *string    `json:"role_title"`
	Bio       *string    `json:"bio"`
	JoinedAt  *time.Time `json:"joined_at"`
}

type StaffService interface {
	Create(ctx context.Context, input CreateStaffInput) (*models.Staff, error)
	GetByID(ctx context.Context, id int) (*models.Staff, error)
	List(ctx context.Context, filter repositories.ListStaffFilter) ([]models.Staff, int, error)
	Update(ctx context.Context, id int, input UpdateStaffInput) (*models.Staff, error)
	Delete(ctx context.Context, id int, actorID *int) error
	UploadPhoto(ctx context.Context, id int, file io.Reader, contentType string) (*models.Staff, error)
}

type staffService struct {
	txRunner    repositories.TxRunner
	staffRepo   repositories.StaffRepository
	archiveRepo repositories.ArchiveRepository
	uploader    storage.FileUploader
	audit       AuditService
}

func NewStaffService(
	txRunner repositories.TxRunner,
	staffRepo repositories.StaffRepository,
	archiveRepo repositories.ArchiveRepository,
	uploader storage.FileUploader,
	audit AuditService,
) StaffService {
	return &staffService{
		txRunner:    txRunner,
		staffRepo:   staffRepo,
		archiveRepo: archiveRepo,
		uploader:    uploader,
		audit:       audit,
	}
}

func (s *staffService) Create(ctx context.Context, input CreateStaffInput) (*models.Staff, error) {
	if input.FullName == "" {
		return nil, ErrStaffNameRequired
	}

	staff := &models.Staff{
		FullName:  input.FullName,
		RoleTitle: input.RoleTitle,
		Bio:       input.Bio,
		JoinedAt:  input.JoinedAt,
	}

	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (s *staffService) GetByID(ctx context.Context, id int) (*models.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrStaffNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	populateStaffPhotoURL(staff, s.uploader)
	return staff, nil
}

func (s *staffService) List(ctx context.Context, filter repositories.ListStaffFilter) ([]models.Staff, int, error) {
	filter.ListParams = repositories.NormalizeListParams(filter.ListParams)
	members, total, err := s.staffRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range members {
		populateStaffPhotoURL(&members[i], s.uploader)
	}
	return members, total, nil
}

func (s *staffService) Update(ctx context.Context, id int, input UpdateStaffInput) (*models.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrStaffNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	if input.FullName != nil {
		if *input.FullName == "" {
			return nil, ErrStaffNameRequired
		}
		staff.FullName = *input.FullName
	}
	if input.RoleTitle != nil {
		staff.RoleTitle = *input.RoleTitle
	}
	if input.Bio != nil {
		staff.Bio = *input.Bio
	}
	if input.JoinedAt != nil {
		staff.JoinedAt = input.JoinedAt
	}

	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return nil, err
	}

	populateStaffPhotoURL(staff, s.uploader)
	return staff, nil
}

func (s *staffService) Delete(ctx context.Context, id int, actorID *int) error {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrStaffNotFound) {
			return ErrStaffNotFound
		}
		return err
	}

	archive, err := snapshotForArchive(models.ArchiveSourceStaff, staff.ID, staff, actorID)
	if err != nil {
		return err
	}

	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.archiveRepo.Create(ctx, exec, archive); err != nil {
			return err
		}
		return s.staffRepo.Delete(ctx, exec, staff.ID)
	})
	if err != nil {
		return err
	}

	if staff.PhotoKey != nil && *staff.PhotoKey != "" {
		_ = s.uploader.Delete(ctx, *staff.PhotoKey)
	}

	s.audit.Record(ctx, AuditEntry{
		Title:       "staff deleted",
		Description: fmt.Sprintf("staff member %s archived and removed", staff.FullName),
		Severity:    models.SeverityWarning,
		Metadata:    map[string]interface{}{"staff_id": staff.ID, "archive_id": archive.ID},
		UserID:      actorID,
	})

	return nil
}

func (s *staffService) UploadPhoto(ctx context.Context, id int, file io.Reader, contentType string) (*models.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrStaffNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, ErrValidationFailed
	}

	key := fmt.Sprintf("staff/%d/photo%s", staff.ID, ext)
	oldKey := staff.PhotoKey

	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload staff photo: %w", err)
	}

	if err := s.staffRepo.UpdatePhotoKey(ctx, staff.ID, &result.Key); err != nil {
		_ = s.uploader.Delete(ctx, result.Key)
		return nil, err
	}

	if oldKey != nil && *oldKey != "" && *oldKey != result.Key {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	staff.PhotoKey = &result.Key
	populateStaffPhotoURL(staff, s.uploader)
	return staff, nil
}
