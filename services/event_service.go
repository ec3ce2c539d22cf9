package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/clubops/club-system/live"
	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
)

// LiveBroadcaster pushes timeline entries to ticker clients. Satisfied by
// *live.Hub.
type LiveBroadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type RecordGoalInput struct {
	MatchID     int    `json:"match_id"`
	Minute      string `json:"minute"`
	ForClub     bool   `json:"for_club"`
	ModeOfScore string `json:"mode_of_score"`
	ScorerID    *int   `json:"scorer_id"`
	ScorerName  string `json:"scorer_name"` // used when the scorer is not a registered player
	AssistID    *int   `json:"assist_id"`
	CreatedBy   *int   `json:"-"`
}

type RecordCardInput struct {
	MatchID   int              `json:"match_id"`
	Minute    string           `json:"minute"`
	Color     models.CardColor `json:"color"`
	Reason    string           `json:"reason"`
	PlayerID  int              `json:"player_id"`
	CreatedBy *int             `json:"-"`
}

type RecordInjuryInput struct {
	MatchID     *int                  `json:"match_id"` // nil for training-ground injuries
	Minute      string                `json:"minute"`
	Severity    models.InjurySeverity `json:"severity"`
	Status      models.InjuryStatus   `json:"status"`
	Description string                `json:"description"`
	PlayerID    int                   `json:"player_id"`
	CreatedBy   *int                  `json:"-"`
}

// EventService owns the lifecycle of goals, cards and injuries. Every create
// and delete runs as one transaction covering the event row, the
// match_events/player_events index rows, the match score, and the timeline
// entry, so the cross-entity invariants cannot be left half-applied.
// The audit write stays outside the transaction: it is best-effort.
type EventService interface {
	RecordGoal(ctx context.Context, input RecordGoalInput) (*models.Goal, error)
	GetGoal(ctx context.Context, id int) (*models.Goal, error)
	ListGoals(ctx context.Context, filter repositories.ListGoalsFilter) ([]models.Goal, int, error)
	UpdateGoal(ctx context.Context, id int, input RecordGoalInput) (*models.Goal, error)
	DeleteGoal(ctx context.Context, id int, actorID *int) (*models.Goal, error)
	TopScorers(ctx context.Context, limit int) ([]repositories.ScorerCount, error)

	RecordCard(ctx context.Context, input RecordCardInput) (*models.Card, error)
	GetCard(ctx context.Context, id int) (*models.Card, error)
	ListCards(ctx context.Context, filter repositories.ListCardsFilter) ([]models.Card, int, error)
	UpdateCard(ctx context.Context, id int, input RecordCardInput) (*models.Card, error)
	DeleteCard(ctx context.Context, id int, actorID *int) (*models.Card, error)
	CardStats(ctx context.Context, limit int) (*repositories.CardStats, error)

	// PlayerInvolvement counts a player's indexed event participations.
	PlayerInvolvement(ctx context.Context, playerID int) (*PlayerInvolvement, error)

	RecordInjury(ctx context.Context, input RecordInjuryInput) (*models.Injury, error)
	GetInjury(ctx context.Context, id int) (*models.Injury, error)
	ListInjuries(ctx context.Context, filter repositories.ListInjuriesFilter) ([]models.Injury, int, error)
	UpdateInjury(ctx context.Context, id int, input RecordInjuryInput) (*models.Injury, error)
	DeleteInjury(ctx context.Context, id int, actorID *int) (*models.Injury, error)
	InjuryStats(ctx context.Context) (*repositories.InjuryStats, error)
}

type eventService struct {
	txRunner   repositories.TxRunner
	matchRepo  repositories.MatchRepository
	playerRepo repositories.PlayerRepository
	goalRepo   repositories.GoalRepository
	cardRepo   repositories.CardRepository
	injuryRepo repositories.InjuryRepository
	indexRepo  repositories.EventIndexRepository
	audit      AuditService
	broadcast  LiveBroadcaster
	logger     *slog.Logger
}

func NewEventService(
	txRunner repositories.TxRunner,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	goalRepo repositories.GoalRepository,
	cardRepo repositories.CardRepository,
	injuryRepo repositories.InjuryRepository,
	indexRepo repositories.EventIndexRepository,
	audit AuditService,
	broadcast LiveBroadcaster,
	logger *slog.Logger,
) EventService {
	return &eventService{
		txRunner:   txRunner,
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		goalRepo:   goalRepo,
		cardRepo:   cardRepo,
		injuryRepo: injuryRepo,
		indexRepo:  indexRepo,
		audit:      audit,
		broadcast:  broadcast,
		logger:     logger,
	}
}

type playerLink struct {
	playerID int
	relation models.PlayerRelation
}

// applyEvent is the single update path for event back-references: one
// match_events row, the player_events rows, and the timeline entry, all on
// the same executor.
func (s *eventService) applyEvent(
	ctx context.Context,
	exec repositories.SQLExecutor,
	matchID int,
	eventType models.EventType,
	eventID int,
	links []playerLink,
	entry *models.TimelineEntry,
) error {
	if matchID > 0 {
		if err := s.indexRepo.LinkMatch(ctx, exec, matchID, eventType, eventID); err != nil {
			return fmt.Errorf("failed to index event on match: %w", err)
		}
	}
	for _, link := range links {
		if err := s.indexRepo.LinkPlayer(ctx, exec, link.playerID, eventType, eventID, link.relation); err != nil {
			return fmt.Errorf("failed to index event on player: %w", err)
		}
	}
	if entry != nil && entry.MatchID > 0 {
		if err := s.matchRepo.AppendTimeline(ctx, exec, entry); err != nil {
			return fmt.Errorf("failed to append timeline entry: %w", err)
		}
	}
	return nil
}

// revokeEvent reverses applyEvent and appends a revocation notice.
func (s *eventService) revokeEvent(
	ctx context.Context,
	exec repositories.SQLExecutor,
	matchID int,
	eventType models.EventType,
	eventID int,
	entry *models.TimelineEntry,
) error {
	if matchID > 0 {
		if err := s.indexRepo.UnlinkMatch(ctx, exec, matchID, eventType, eventID); err != nil {
			return fmt.Errorf("failed to unlink event from match: %w", err)
		}
	}
	if err := s.indexRepo.UnlinkPlayerAll(ctx, exec, eventType, eventID); err != nil {
		return fmt.Errorf("failed to unlink event from players: %w", err)
	}
	if entry != nil && entry.MatchID > 0 {
		if err := s.matchRepo.AppendTimeline(ctx, exec, entry); err != nil {
			return fmt.Errorf("failed to append revocation entry: %w", err)
		}
	}
	return nil
}

// refreshMatchScore recomputes the stored score from the goal partition.
func (s *eventService) refreshMatchScore(ctx context.Context, exec repositories.SQLExecutor, matchID int) error {
	goals, err := s.goalRepo.ListByMatch(ctx, exec, matchID)
	if err != nil {
		return fmt.Errorf("failed to list goals for score refresh: %w", err)
	}
	metrics := DeriveMatchMetrics(goals)
	return s.matchRepo.UpdateScore(ctx, exec, matchID, len(metrics.ClubGoals), len(metrics.OpponentGoals))
}

func (s *eventService) broadcastEntry(entry models.TimelineEntry) {
	if entry.MatchID <= 0 {
		return
	}
	s.broadcast.BroadcastToRoom(live.MatchRoom(entry.MatchID), live.Message{
		Type:    "TIMELINE_APPENDED",
		RoomID:  live.MatchRoom(entry.MatchID),
		Payload: entry,
	})
	s.logger.Debug("timeline entry broadcast",
		slog.Int("match_id", entry.MatchID), slog.String("entry_type", string(entry.EntryType)))
}

func (s *eventService) resolveSnapshot(ctx context.Context, playerID int) (models.PlayerSnapshot, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return models.PlayerSnapshot{}, ErrPlayerNotFound
		}
		return models.PlayerSnapshot{}, err
	}
	return models.SnapshotOf(player), nil
}

// --- Goals ---

func (s *eventService) buildGoal(ctx context.Context, input RecordGoalInput) (*models.Goal, error) {
	if input.Minute == "" {
		return nil, ErrEventMinuteRequired
	}
	if input.ScorerID == nil && input.ScorerName == "" {
		return nil, ErrEventPlayerRequired
	}

	goal := &models.Goal{
		MatchID:     input.MatchID,
		Minute:      input.Minute,
		ForClub:     input.ForClub,
		ModeOfScore: input.ModeOfScore,
		CreatedBy:   input.CreatedBy,
	}

	if input.ScorerID != nil {
		snapshot, err := s.resolveSnapshot(ctx, *input.ScorerID)
		if err != nil {
			return nil, err
		}
		goal.Scorer = snapshot
	} else {
		goal.Scorer = models.PlayerSnapshot{Name: input.ScorerName}
	}

	if input.AssistID != nil {
		snapshot, err := s.resolveSnapshot(ctx, *input.AssistID)
		if err != nil {
			return nil, err
		}
		goal.Assist = &snapshot
	}

	return goal, nil
}

func goalPlayerLinks(goal *models.Goal) []playerLink {
	links := make([]playerLink, 0, 2)
	if goal.Scorer.PlayerID != nil {
		links = append(links, playerLink{playerID: *goal.Scorer.PlayerID, relation: models.RelationScorer})
	}
	if goal.Assist != nil && goal.Assist.PlayerID != nil {
		links = append(links, playerLink{playerID: *goal.Assist.PlayerID, relation: models.RelationAssist})
	}
	return links
}

func (s *eventService) RecordGoal(ctx context.Context, input RecordGoalInput) (*models.Goal, error) {
	goal, err := s.buildGoal(ctx, input)
	if err != nil {
		return nil, err
	}

	var entry models.TimelineEntry
	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.matchRepo.GetByID(ctx, exec, input.MatchID); err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		if err := s.goalRepo.Create(ctx, exec, goal); err != nil {
			return err
		}
		entry = goalTimelineEntry(goal)
		if err := s.applyEvent(ctx, exec, goal.MatchID, models.EventTypeGoal, goal.ID, goalPlayerLinks(goal), &entry); err != nil {
			return err
		}
		return s.refreshMatchScore(ctx, exec, goal.MatchID)
	})
	if err != nil {
		return nil, err
	}

	// entry carries the id and created_at assigned on insert, so ticker
	// clients see the same row the timeline endpoint returns.
	s.broadcastEntry(entry)
	s.audit.Record(ctx, AuditEntry{
		Title:       "goal recorded",
		Description: fmt.Sprintf("%s scored in match %d (minute %s)", goal.Scorer.Name, goal.MatchID, goal.Minute),
		Severity:    models.SeverityInfo,
		Metadata:    map[string]interface{}{"goal_id": goal.ID, "match_id": goal.MatchID},
		UserID:      input.CreatedBy,
	})

	return s.GetGoal(ctx, goal.ID)
}

func (s *eventService) GetGoal(ctx context.Context, id int) (*models.Goal, error) {
	goal, err := s.goalRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGoalNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	if match, err := s.matchRepo.GetByID(ctx, nil, goal.MatchID); err == nil {
		goal.Match = match
	}
	return goal, nil
}

func (s *eventService) ListGoals(ctx context.Context, filter repositories.ListGoalsFilter) ([]models.Goal, int, error) {
	filter.ListParams = repositories.NormalizeListParams(filter.ListParams)
	return s.goalRepo.List(ctx, filter)
}

func (s *eventService) UpdateGoal(ctx context.Context, id int, input RecordGoalInput) (*models.Goal, error) {
	existing, err := s.goalRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGoalNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}

	input.MatchID = existing.MatchID // the match binding is immutable
	updated, err := s.buildGoal(ctx, input)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedBy = existing.CreatedBy

	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.goalRepo.Update(ctx, exec, updated); err != nil {
			return err
		}
		// Re-point the player index at the possibly-changed participants.
		if err := s.indexRepo.UnlinkPlayerAll(ctx, exec, models.EventTypeGoal, updated.ID); err != nil {
			return err
		}
		for _, link := range goalPlayerLinks(updated) {
			if err := s.indexRepo.LinkPlayer(ctx, exec, link.playerID, models.EventTypeGoal, updated.ID, link.relation); err != nil {
				return err
			}
		}
		return s.refreshMatchScore(ctx, exec, updated.MatchID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetGoal(ctx, updated.ID)
}

func (s *eventService) DeleteGoal(ctx context.Context, id int, actorID *int) (*models.Goal, error) {
	goal, err := s.goalRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGoalNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}

	entry := revokedTimelineEntry(goal.MatchID, models.EventTypeGoal, goal.Minute, goal.Scorer.Name)
	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.goalRepo.Delete(ctx, exec, goal.ID); err != nil {
			// A concurrent delete can win the race after the pre-read.
			if errors.Is(err, repositories.ErrGoalNotFound) {
				return ErrGoalNotFound
			}
			return err
		}
		if err := s.revokeEvent(ctx, exec, goal.MatchID, models.EventTypeGoal, goal.ID, &entry); err != nil {
			return err
		}
		return s.refreshMatchScore(ctx, exec, goal.MatchID)
	})
	if err != nil {
		return nil, err
	}

	s.broadcastEntry(entry)
	s.audit.Record(ctx, AuditEntry{
		Title:       "goal deleted",
		Description: fmt.Sprintf("goal %d removed from match %d", goal.ID, goal.MatchID),
		Severity:    models.SeverityWarning,
		Metadata:    map[string]interface{}{"goal_id": goal.ID, "match_id": goal.MatchID},
		UserID:      actorID,
	})

	return goal, nil
}

func (s *eventService) TopScorers(ctx context.Context, limit int) ([]repositories.ScorerCount, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.goalRepo.TopScorers(ctx, limit)
}

// PlayerInvolvement is the per-player roll-up served on the player profile,
// read from the player_events index instead of scanning the event tables.
type PlayerInvolvement struct {
	PlayerID int `json:"player_id"`
	Goals    int `json:"goals"`
	Assists  int `json:"assists"`
	Cards    int `json:"cards"`
	Injuries int `json:"injuries"`
}

func (s *eventService) PlayerInvolvement(ctx context.Context, playerID int) (*PlayerInvolvement, error) {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	involvement := &PlayerInvolvement{PlayerID: playerID}
	counts := []struct {
		dst       *int
		eventType models.EventType
		relation  models.PlayerRelation
	}{
		{&involvement.Goals, models.EventTypeGoal, models.RelationScorer},
		{&involvement.Assists, models.EventTypeGoal, models.RelationAssist},
		{&involvement.Cards, models.EventTypeCard, models.RelationReceived},
		{&involvement.Injuries, models.EventTypeInjury, models.RelationSustained},
	}
	for _, c := range counts {
		relation := c.relation
		ids, err := s.indexRepo.ListPlayerEventIDs(ctx, playerID, c.eventType, &relation)
		if err != nil {
			return nil, err
		}
		*c.dst = len(ids)
	}
	return involvement, nil
}

// --- Cards ---

func (s *eventService) buildCard(ctx context.Context, input RecordCardInput) (*models.Card, error) {
	if input.Minute == "" {
		return nil, ErrEventMinuteRequired
	}
	if !models.ValidCardColor(input.Color) {
		return nil, ErrInvalidCardColor
	}
	if input.PlayerID <= 0 {
		return nil, ErrEventPlayerRequired
	}

	snapshot, err := s.resolveSnapshot(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	return &models.Card{
		MatchID:   input.MatchID,
		Minute:    input.Minute,
		Color:     input.Color,
		Reason:    input.Reason,
		Player:    snapshot,
		CreatedBy: input.CreatedBy,
	}, nil
}

func (s *eventService) RecordCard(ctx context.Context, input RecordCardInput) (*models.Card, error) {
	card, err := s.buildCard(ctx, input)
	if err != nil {
		return nil, err
	}

	var entry models.TimelineEntry
	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.matchRepo.GetByID(ctx, exec, input.MatchID); err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}
		if card.Color == models.CardRed {
			// Best-effort uniqueness: the pre-check runs inside the
			// transaction, but two concurrent requests can still both pass.
			exists, err := s.cardRepo.HasRedCard(ctx, exec, input.MatchID, input.PlayerID)
			if err != nil {
				return err
			}
			if exists {
				return ErrDuplicateRedCard
			}
		}
		if err := s.cardRepo.Create(ctx, exec, card); err != nil {
			return err
		}
		entry = cardTimelineEntry(card)
		links := []playerLink{{playerID: input.PlayerID, relation: models.RelationReceived}}
		return s.applyEvent(ctx, exec, card.MatchID, models.EventTypeCard, card.ID, links, &entry)
	})
	if err != nil {
		return nil, err
	}

	s.broadcastEntry(entry)
	s.audit.Record(ctx, AuditEntry{
		Title:       "card recorded",
		Description: fmt.Sprintf("%s card for %s in match %d", card.Color, card.Player.Name, card.MatchID),
		Severity:    models.SeverityInfo,
		Metadata:    map[string]interface{}{"card_id": card.ID, "match_id": card.MatchID},
		UserID:      input.CreatedBy,
	})

	return s.GetCard(ctx, card.ID)
}

func (s *eventService) GetCard(ctx context.Context, id int) (*models.Card, error) {
	card, err := s.cardRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	if match, err := s.matchRepo.GetByID(ctx, nil, card.MatchID); err == nil {
		card.Match = match
	}
	return card, nil
}

func (s *eventService) ListCards(ctx context.Context, filter repositories.ListCardsFilter) ([]models.Card, int, error) {
	filter.ListParams = repositories.NormalizeListParams(filter.ListParams)
	return s.cardRepo.List(ctx, filter)
}

func (s *eventService) UpdateCard(ctx context.Context, id int, input RecordCardInput) (*models.Card, error) {
	existing, err := s.cardRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	input.MatchID = existing.MatchID
	updated, err := s.buildCard(ctx, input)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedBy = existing.CreatedBy

	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.cardRepo.Update(ctx, exec, updated); err != nil {
			return err
		}
		if err := s.indexRepo.UnlinkPlayerAll(ctx, exec, models.EventTypeCard, updated.ID); err != nil {
			return err
		}
		return s.indexRepo.LinkPlayer(ctx, exec, input.PlayerID, models.EventTypeCard, updated.ID, models.RelationReceived)
	})
	if err != nil {
		return nil, err
	}

	return s.GetCard(ctx, updated.ID)
}

func (s *eventService) DeleteCard(ctx context.Context, id int, actorID *int) (*models.Card, error) {
	card, err := s.cardRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	entry := revokedTimelineEntry(card.MatchID, models.EventTypeCard, card.Minute, card.Player.Name)
	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.cardRepo.Delete(ctx, exec, card.ID); err != nil {
			if errors.Is(err, repositories.ErrCardNotFound) {
				return ErrCardNotFound
			}
			return err
		}
		return s.revokeEvent(ctx, exec, card.MatchID, models.EventTypeCard, card.ID, &entry)
	})
	if err != nil {
		return nil, err
	}

	s.broadcastEntry(entry)
	s.audit.Record(ctx, AuditEntry{
		Title:       "card deleted",
		Description: fmt.Sprintf("%s card %d removed from match %d", card.Color, card.ID, card.MatchID),
		Severity:    models.SeverityWarning,
		Metadata:    map[string]interface{}{"card_id": card.ID, "match_id": card.MatchID},
		UserID:      actorID,
	})

	return card, nil
}

func (s *eventService) CardStats(ctx context.Context, limit int) (*repositories.CardStats, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.cardRepo.Stats(ctx, limit)
}

// --- Injuries ---

func (s *eventService) buildInjury(ctx context.Context, input RecordInjuryInput) (*models.Injury, error) {
	if !models.ValidInjurySeverity(input.Severity) {
		return nil, ErrInvalidSeverity
	}
	if input.Status == "" {
		input.Status = models.InjuryRecovering
	}
	if !models.ValidInjuryStatus(input.Status) {
		return nil, ErrInvalidInjuryStatus
	}
	if input.PlayerID <= 0 {
		return nil, ErrEventPlayerRequired
	}

	snapshot, err := s.resolveSnapshot(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	return &models.Injury{
		MatchID:     input.MatchID,
		Minute:      input.Minute,
		Severity:    input.Severity,
		Status:      input.Status,
		Description: input.Description,
		Player:      snapshot,
		CreatedBy:   input.CreatedBy,
	}, nil
}

func (s *eventService) RecordInjury(ctx context.Context, input RecordInjuryInput) (*models.Injury, error) {
	injury, err := s.buildInjury(ctx, input)
	if err != nil {
		return nil, err
	}

	matchID := 0
	if injury.MatchID != nil {
		matchID = *injury.MatchID
	}

	var entry models.TimelineEntry
	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if matchID > 0 {
			if _, err := s.matchRepo.GetByID(ctx, exec, matchID); err != nil {
				if errors.Is(err, repositories.ErrMatchNotFound) {
					return ErrMatchNotFound
				}
				return err
			}
		}
		if err := s.injuryRepo.Create(ctx, exec, injury); err != nil {
			return err
		}
		entry = injuryTimelineEntry(injury)
		links := []playerLink{{playerID: input.PlayerID, relation: models.RelationSustained}}
		return s.applyEvent(ctx, exec, matchID, models.EventTypeInjury, injury.ID, links, &entry)
	})
	if err != nil {
		return nil, err
	}

	s.broadcastEntry(entry)
	s.audit.Record(ctx, AuditEntry{
		Title:       "injury recorded",
		Description: fmt.Sprintf("%s injury for %s", injury.Severity, injury.Player.Name),
		Severity:    models.SeverityWarning,
		Metadata:    map[string]interface{}{"injury_id": injury.ID},
		UserID:      input.CreatedBy,
	})

	return s.GetInjury(ctx, injury.ID)
}

func (s *eventService) GetInjury(ctx context.Context, id int) (*models.Injury, error) {
	injury, err := s.injuryRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrInjuryNotFound) {
			return nil, ErrInjuryNotFound
		}
		return nil, err
	}
	if injury.MatchID != nil {
		if match, err := s.matchRepo.GetByID(ctx, nil, *injury.MatchID); err == nil {
			injury.Match = match
		}
	}
	return injury, nil
}

func (s *eventService) ListInjuries(ctx context.Context, filter repositories.ListInjuriesFilter) ([]models.Injury, int, error) {
	filter.ListParams = repositories.NormalizeListParams(filter.ListParams)
	return s.injuryRepo.List(ctx, filter)
}

func (s *eventService) UpdateInjury(ctx context.Context, id int, input RecordInjuryInput) (*models.Injury, error) {
	existing, err := s.injuryRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrInjuryNotFound) {
			return nil, ErrInjuryNotFound
		}
		return nil, err
	}

	input.MatchID = existing.MatchID
	updated, err := s.buildInjury(ctx, input)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedBy = existing.CreatedBy

	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.injuryRepo.Update(ctx, exec, updated); err != nil {
			return err
		}
		if err := s.indexRepo.UnlinkPlayerAll(ctx, exec, models.EventTypeInjury, updated.ID); err != nil {
			return err
		}
		return s.indexRepo.LinkPlayer(ctx, exec, input.PlayerID, models.EventTypeInjury, updated.ID, models.RelationSustained)
	})
	if err != nil {
		return nil, err
	}

	return s.GetInjury(ctx, updated.ID)
}

func (s *eventService) DeleteInjury(ctx context.Context, id int, actorID *int) (*models.Injury, error) {
	injury, err := s.injuryRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrInjuryNotFound) {
			return nil, ErrInjuryNotFound
		}
		return nil, err
	}

	matchID := 0
	if injury.MatchID != nil {
		matchID = *injury.MatchID
	}

	entry := revokedTimelineEntry(matchID, models.EventTypeInjury, injury.Minute, injury.Player.Name)
	err = s.txRunner.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.injuryRepo.Delete(ctx, exec, injury.ID); err != nil {
			if errors.Is(err, repositories.ErrInjuryNotFound) {
				return ErrInjuryNotFound
			}
			return err
		}
		return s.revokeEvent(ctx, exec, matchID, models.EventTypeInjury, injury.ID, &entry)
	})
	if err != nil {
		return nil, err
	}

	s.broadcastEntry(entry)
	s.audit.Record(ctx, AuditEntry{
		Title:       "injury deleted",
		Description: fmt.Sprintf("injury %d for %s removed", injury.ID, injury.Player.Name),
		Severity:    models.SeverityWarning,
		Metadata:    map[string]interface{}{"injury_id": injury.ID},
		UserID:      actorID,
	})

	return injury, nil
}

func (s *eventService) InjuryStats(ctx context.Context) (*repositories.InjuryStats, error) {
	return s.injuryRepo.Stats(ctx)
}
