package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
	"github.com/clubops/club-system/storage"
)

type CreateMatchInput struct {
	OpponentID int                `json:"opponent_id"`
	Date       time.Time          `json:"date"`
	Venue      models.MatchVenue  `json:"venue"`
	Season     string             `json:"season"`
	Status     models.MatchStatus `json:"status"`
}

type UpdateMatchInput struct {
	OpponentID *int                `json:"opponent_id"`
	Date       *time.Time          `json:"date"`
	Venue      *models.MatchVenue  `json:"venue"`
	Season     *string             `json:"season"`
	Status     *models.MatchStatus `json:"status"`
}

type MatchService interface {
	Create(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	// GetByID returns the match with its opponent, events and timeline.
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, filter repositories.ListMatchesFilter) ([]models.Match, int, error)
	Update(ctx context.Context, id int, input UpdateMatchInput) (*models.Match, error)
	Delete(ctx context.Context, id int, actorID *int) error
	Timeline(ctx context.Context, matchID int) ([]models.TimelineEntry, error)
}

type matchService struct {
	txRunner   repositories.TxRunner
	matchRepo  repositories.MatchRepository
	teamRepo   repositories.TeamRepository
	goalRepo   repositories.GoalRepository
	cardRepo   repositories.CardRepository
	injuryRepo repositories.InjuryRepository
	indexRepo  repositories.EventIndexRepository
	uploader   storage.FileUploader
	audit      AuditService
}

func NewMatchService(
	txRunner repositories.TxRunner,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	goalRepo repositories.GoalRepository,
	cardRepo repositories.CardRepository,
	injuryRepo repositories.InjuryRepository,
	indexRepo repositories.EventIndexRepository,
	uploader storage.FileUploader,
	audit AuditService,
) MatchService {
	return &matchService{
		txRunner:   txRunner,
		matchRepo:  matchRepo,
		teamRepo:   teamRepo,
		goalRepo:   goalRepo,
		cardRepo:   cardRepo,
		injuryRepo: injuryRepo,
		indexRepo:  indexRepo,
		uploader:   uploader,
		audit:      audit,
	}
}

func (s *matchService) Create(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if input.OpponentID <= 0 || input.Date.IsZero() {
		return nil, ErrMatchFieldsRequired
	}
	if input.Venue == "" {
		input.Venue = models.VenueHome
	}
	if !models.ValidMatchVenue(input.Venue) {
		return nil, ErrInvalidMatchVenue
	}
	if input.Status == "" {
		input.Status = models.MatchStatusUpcoming
	}
	if !models.ValidMatchStatus(input.Status) {
		return nil, ErrInvalidMatchStatus
	}
	if input.Season == "" {
		input.Season = seasonOf(input.Date)
	}

	if _, err := s.teamRepo.GetByID(ctx, input.OpponentID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	match := &models.Match{
		OpponentID: input.OpponentID,
		Date:       input.Date,
		Venue:      input.Venue,
		Season:     input.Season,
		Status:     input.Status,
	}

	if err := s.matchRepo.Create(ctx, match); err != nil {
		return nil, err
	}
	return match, nil
}

// seasonOf derives a "2025/2026" style season label from the match date,
// treating July as the start of a season.
func seasonOf(date time.Time) string {
	year := date.Year()
	if date.Month() < time.July {
		return fmt.Sprintf("%d/%d", year-1, year)
	}
	return fmt.Sprintf("%d/%d", year, year+1)
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	if opponent, err := s.teamRepo.GetByID(ctx, match.OpponentID); err == nil {
		populateTeamLogoURL(opponent, s.uploader)
		match.Opponent = opponent
	}

	if match.Goals, err = s.goalRepo.ListByMatch(ctx, nil, match.ID); err != nil {
		return nil, fmt.Errorf("failed to load match goals: %w", err)
	}
	if match.Cards, err = s.cardRepo.ListByMatch(ctx, nil, match.ID); err != nil {
		return nil, fmt.Errorf("failed to load match cards: %w", err)
	}
	if match.Injuries, err = s.injuryRepo.ListByMatch(ctx, nil, match.ID); err != nil {
		return nil, fmt.Errorf("failed to load match injuries: %w", err)
	}
	if match.Timeline, err = s.matchRepo.ListTimeline(ctx, match.ID); err != nil {
		return nil, fmt.Errorf("failed to load match timeline: %w", err)
	}

	return match, nil
}

func (s *matchService) List(ctx context.Context, filter repositories.ListMatchesFilter) ([]models.Match, int, error) {
	filter.ListParams = repositories.NormalizeListParams(filter.ListParams)
	matches, total, err := s.matchRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range matches {
		if opponent, err := s.teamRepo.GetByID(ctx, matches[i].OpponentID); err == nil {
			populateTeamLogoURL(opponent, s.uploader)
			matches[i].Opponent = opponent
		}
	}
	return matches, total, nil
}

func (s *matchService) Update(ctx context.Context, id int, input UpdateMatchInput) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	if input.OpponentID != nil {
		if _, err := s.teamRepo.GetByID(ctx, *input.OpponentID); err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, err
		}
		match.OpponentID = *input.OpponentID
	}
	if input.Date != nil {
		match.Date = *input.Date
	}
	if input.Venue != nil {
		if !models.ValidMatchVenue(*input.Venue) {
			return nil, ErrInvalidMatchVenue
		}
		match.Venue = *input.Venue
	}
	if input.Season != nil {
		match.Season = *input.Season
	}
	if input.Status != nil {
		if !models.ValidMatchStatus(*input.Status) {
			return nil, ErrInvalidMatchStatus
		}
		match.Status = *input.Status
	}

	if err := s.matchRepo.Update(ctx, match); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, match.ID)
}

func (s *matchService) Delete(ctx context.Context, id int, actorID *int) error {
	match, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}

	// Goals, cards, match_events and timeline entries go with the match via
	// ON DELETE CASCADE; injuries detach and keep their history. player_events
	// has no FK on the event, so the index rows for the cascading goals and
	// cards are pruned here in the same transaction.
	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.indexRepo.UnlinkPlayersByMatch(ctx, exec, match.ID); err != nil {
			return err
		}
		return s.matchRepo.Delete(ctx, exec, match.ID)
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		Title:       "match deleted",
		Description: fmt.Sprintf("match %d (%s season) removed", match.ID, match.Season),
		Severity:    models.SeverityWarning,
		Metadata:    map[string]interface{}{"match_id": match.ID},
		UserID:      actorID,
	})

	return nil
}

func (s *matchService) Timeline(ctx context.Context, matchID int) ([]models.TimelineEntry, error) {
	if _, err := s.matchRepo.GetByID(ctx, nil, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return s.matchRepo.ListTimeline(ctx, matchID)
}
