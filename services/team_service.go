package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
	"github.com/clubops/club-system/storage"
)

type CreateTeamInput struct {
	Name      string          `json:"name"`
	Kind      models.TeamKind `json:"kind"`
	CoachName *string         `json:"coach_name"`
	Founded   *int            `json:"founded"`
}

type UpdateTeamInput struct {
	Name      *string `json:"name"`
	CoachName *string `json:"coach_name"`
	Founded   *int    `json:"founded"`
}

type TeamService interface {
	Create(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context, filter repositories.ListTeamsFilter) ([]models.Team, int, error)
	Update(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error)
	Delete(ctx context.Context, id int, actorID *int) error
	UploadLogo(ctx context.Context, id int, file io.Reader, contentType string) (*models.Team, error)
}

type teamService struct {
	txRunner    repositories.TxRunner
	teamRepo    repositories.TeamRepository
	playerRepo  repositories.PlayerRepository
	archiveRepo repositories.ArchiveRepository
	uploader    storage.FileUploader
	audit       AuditService
}

func NewTeamService(
	txRunner repositories.TxRunner,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	archiveRepo repositories.ArchiveRepository,
	uploader storage.FileUploader,
	audit AuditService,
) TeamService {
	return &teamService{
		txRunner:    txRunner,
		teamRepo:    teamRepo,
		playerRepo:  playerRepo,
		archiveRepo: archiveRepo,
		uploader:    uploader,
		audit:       audit,
	}
}

func (s *teamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if input.Name == "" {
		return nil, ErrTeamNameRequired
	}
	if input.Kind == "" {
		input.Kind = models.TeamKindOpponent
	}
	if input.Kind != models.TeamKindClub && input.Kind != models.TeamKindOpponent {
		return nil, ErrValidationFailed
	}

	team := &models.Team{
		Name:      input.Name,
		Kind:      input.Kind,
		CoachName: input.CoachName,
		Founded:   input.Founded,
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	players, err := s.playerRepo.ListByTeamID(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team roster: %w", err)
	}
	for i := range players {
		populatePlayerPhotoURL(&players[i], s.uploader)
	}
	team.Players = players

	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) List(ctx context.Context, filter repositories.ListTeamsFilter) ([]models.Team, int, error) {
	filter.ListParams = repositories.NormalizeListParams(filter.ListParams)
	teams, total, err := s.teamRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range teams {
		populateTeamLogoURL(&teams[i], s.uploader)
	}
	return teams, total, nil
}

func (s *teamService) Update(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrTeamNameRequired
		}
		team.Name = *input.Name
	}
	if input.CoachName != nil {
		team.CoachName = input.CoachName
	}
	if input.Founded != nil {
		team.Founded = input.Founded
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, err
	}

	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, id int, actorID *int) error {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return err
	}

	archive, err := snapshotForArchive(models.ArchiveSourceTeams, team.ID, team, actorID)
	if err != nil {
		return err
	}

	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.archiveRepo.Create(ctx, exec, archive); err != nil {
			return err
		}
		return s.teamRepo.Delete(ctx, exec, team.ID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrTeamInUse) {
			return ErrTeamInUse
		}
		return err
	}

	if team.LogoKey != nil && *team.LogoKey != "" {
		// The stored logo is orphaned once the row is gone.
		_ = s.uploader.Delete(ctx, *team.LogoKey)
	}

	s.audit.Record(ctx, AuditEntry{
		Title:       "team deleted",
		Description: fmt.Sprintf("team %q archived and removed", team.Name),
		Severity:    models.SeverityWarning,
		Metadata:    map[string]interface{}{"team_id": team.ID, "archive_id": archive.ID},
		UserID:      actorID,
	})

	return nil
}

func (s *teamService) UploadLogo(ctx context.Context, id int, file io.Reader, contentType string) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, ErrValidationFailed
	}

	key := fmt.Sprintf("teams/%d/logo%s", team.ID, ext)
	oldKey := team.LogoKey

	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	if err := s.teamRepo.UpdateLogoKey(ctx, team.ID, &result.Key); err != nil {
		_ = s.uploader.Delete(ctx, result.Key)
		return nil, err
	}

	if oldKey != nil && *oldKey != "" && *oldKey != result.Key {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	team.LogoKey = &result.Key
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}
