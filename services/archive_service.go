package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
)

// ArchiveService exposes the read side of the deletion archive. Writes happen
// inside the owning services' delete transactions via snapshotForArchive.
type ArchiveService interface {
	GetByID(ctx context.Context, id int) (*models.Archive, error)
	List(ctx context.Context, filter repositories.ListArchivesFilter) ([]models.Archive, int, error)
}

type archiveService struct {
	archiveRepo repositories.ArchiveRepository
}

func NewArchiveService(archiveRepo repositories.ArchiveRepository) ArchiveService {
	return &archiveService{archiveRepo: archiveRepo}
}

func (s *archiveService) GetByID(ctx context.Context, id int) (*models.Archive, error) {
	archive, err := s.archiveRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrArchiveNotFound) {
			return nil, ErrArchiveNotFound
		}
		return nil, err
	}
	return archive, nil
}

func (s *archiveService) List(ctx context.Context, filter repositories.ListArchivesFilter) ([]models.Archive, int, error) {
	filter.ListParams = repositories.NormalizeListParams(filter.ListParams)
	return s.archiveRepo.List(ctx, filter)
}

// snapshotForArchive serializes the document being deleted so the archive row
// can be written on the same transaction as the delete.
func snapshotForArchive(source models.ArchiveSource, sourceID int, value interface{}, deletedBy *int) (*models.Archive, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot %s %d for archive: %w", source, sourceID, err)
	}
	return &models.Archive{
		Source:    source,
		SourceID:  sourceID,
		Snapshot:  raw,
		DeletedBy: deletedBy,
	}, nil
}
