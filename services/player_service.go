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

type CreatePlayerInput struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Number      int        `json:"number"`
	Position    string     `json:"position"`
	TeamID      *int       `json:"team_id"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

type UpdatePlayerInput struct {
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	Number      *int       `json:"number"`
	Position    *string    `json:"position"`
	TeamID      *int       `json:"team_id"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

type PlayerService interface {
	Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	// GetByIdentifier accepts either a numeric ID or a slug.
	GetByIdentifier(ctx context.Context, identifier string) (*models.Player, error)
	List(ctx context.Context, filter repositories.ListPlayersFilter) ([]models.Player, int, error)
	ListByTeam(ctx context.Context, teamID int) ([]models.Player, error)
	Update(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error)
	Delete(ctx context.Context, id int, actorID *int) error
	UploadPhoto(ctx context.Context, id int, file io.Reader, contentType string) (*models.Player, error)
	PositionStats(ctx context.Context) ([]repositories.PositionCount, error)
}

type playerService struct {
	txRunner    repositories.TxRunner
	playerRepo  repositories.PlayerRepository
	teamRepo    repositories.TeamRepository
	archiveRepo repositories.ArchiveRepository
	uploader    storage.FileUploader
	audit       AuditService
}

func NewPlayerService(
	txRunner repositories.TxRunner,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	archiveRepo repositories.ArchiveRepository,
	uploader storage.FileUploader,
	audit AuditService,
) PlayerService {
	return &playerService{
		txRunner:    txRunner,
		playerRepo:  playerRepo,
		teamRepo:    teamRepo,
		archiveRepo: archiveRepo,
		uploader:    uploader,
		audit:       audit,
	}
}

func (s *playerService) Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	if input.FirstName == "" {
		return nil, ErrPlayerNameRequired
	}

	player := &models.Player{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Number:      input.Number,
		Position:    input.Position,
		TeamID:      input.TeamID,
		DateOfBirth: input.DateOfBirth,
	}
	player.Slug = Slugify(player.FullName())

	err := s.playerRepo.Create(ctx, player)
	if errors.Is(err, repositories.ErrPlayerSlugConflict) {
		// Same-named players collide on the slug; disambiguate with the
		// shirt number and retry once.
		player.Slug = fmt.Sprintf("%s-%d", player.Slug, player.Number)
		err = s.playerRepo.Create(ctx, player)
	}
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerSlugConflict):
			return nil, ErrPlayerSlugConflict
		case errors.Is(err, repositories.ErrPlayerTeamInvalid):
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *playerService) GetByIdentifier(ctx context.Context, identifier string) (*models.Player, error) {
	var (
		player *models.Player
		err    error
	)

	switch kind, id := ClassifyIdentifier(identifier); kind {
	case IdentifierID:
		player, err = s.playerRepo.GetByID(ctx, id)
	case IdentifierSlug:
		player, err = s.playerRepo.GetBySlug(ctx, identifier)
	default:
		return nil, ErrPlayerNotFound
	}

	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	if player.TeamID != nil {
		if team, err := s.teamRepo.GetByID(ctx, *player.TeamID); err == nil {
			populateTeamLogoURL(team, s.uploader)
			player.Team = team
		}
	}

	populatePlayerPhotoURL(player, s.uploader)
	return player, nil
}

func (s *playerService) List(ctx context.Context, filter repositories.ListPlayersFilter) ([]models.Player, int, error) {
	filter.ListParams = repositories.NormalizeListParams(filter.ListParams)
	players, total, err := s.playerRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range players {
		populatePlayerPhotoURL(&players[i], s.uploader)
	}
	return players, total, nil
}

func (s *playerService) ListByTeam(ctx context.Context, teamID int) ([]models.Player, error) {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	players, err := s.playerRepo.ListByTeamID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	for i := range players {
		populatePlayerPhotoURL(&players[i], s.uploader)
	}
	return players, nil
}

func (s *playerService) Update(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	if input.FirstName != nil {
		if *input.FirstName == "" {
			return nil, ErrPlayerNameRequired
		}
		player.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		player.LastName = *input.LastName
	}
	if input.Number != nil {
		player.Number = *input.Number
	}
	if input.Position != nil {
		player.Position = *input.Position
	}
	if input.TeamID != nil {
		player.TeamID = input.TeamID
	}
	if input.DateOfBirth != nil {
		player.DateOfBirth = input.DateOfBirth
	}

	// Renames keep the original slug: published URLs stay valid.
	if err := s.playerRepo.Update(ctx, player); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerSlugConflict):
			return nil, ErrPlayerSlugConflict
		case errors.Is(err, repositories.ErrPlayerTeamInvalid):
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	populatePlayerPhotoURL(player, s.uploader)
	return player, nil
}

func (s *playerService) Delete(ctx context.Context, id int, actorID *int) error {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}

	archive, err := snapshotForArchive(models.ArchiveSourcePlayers, player.ID, player, actorID)
	if err != nil {
		return err
	}

	// Event rows keep their embedded snapshot of the player, so history
	// survives the delete.
	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.archiveRepo.Create(ctx, exec, archive); err != nil {
			return err
		}
		return s.playerRepo.Delete(ctx, exec, player.ID)
	})
	if err != nil {
		return err
	}

	if player.PhotoKey != nil && *player.PhotoKey != "" {
		_ = s.uploader.Delete(ctx, *player.PhotoKey)
	}

	s.audit.Record(ctx, AuditEntry{
		Title:       "player deleted",
		Description: fmt.Sprintf("player %s archived and removed", player.FullName()),
		Severity:    models.SeverityWarning,
		Metadata:    map[string]interface{}{"player_id": player.ID, "archive_id": archive.ID},
		UserID:      actorID,
	})

	return nil
}

func (s *playerService) UploadPhoto(ctx context.Context, id int, file io.Reader, contentType string) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, ErrValidationFailed
	}

	key := fmt.Sprintf("players/%d/photo%s", player.ID, ext)
	oldKey := player.PhotoKey

	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload player photo: %w", err)
	}

	if err := s.playerRepo.UpdatePhotoKey(ctx, player.ID, &result.Key); err != nil {
		_ = s.uploader.Delete(ctx, result.Key)
		return nil, err
	}

	if oldKey != nil && *oldKey != "" && *oldKey != result.Key {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	player.PhotoKey = &result.Key
	populatePlayerPhotoURL(player, s.uploader)
	return player, nil
}

func (s *playerService) PositionStats(ctx context.Context) ([]repositories.PositionCount, error) {
	return s.playerRepo.CountByPosition(ctx)
}
