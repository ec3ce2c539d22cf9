package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/clubops/club-system/live"
	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fakes embed the repository interfaces so only the methods a test
// actually reaches need an implementation.

type fakeTxRunner struct{}

func (fakeTxRunner) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeMatchRepo struct {
	repositories.MatchRepository
	matches  map[int]*models.Match
	timeline []models.TimelineEntry
	scores   map[int][2]int
}

func newFakeMatchRepo(ids ...int) *fakeMatchRepo {
	r := &fakeMatchRepo{matches: map[int]*models.Match{}, scores: map[int][2]int{}}
	for _, id := range ids {
		r.matches[id] = &models.Match{ID: id, Status: models.MatchStatusLive}
	}
	return r
}

func (r *fakeMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return match, nil
}

func (r *fakeMatchRepo) UpdateScore(_ context.Context, _ repositories.SQLExecutor, id, club, opponent int) error {
	r.scores[id] = [2]int{club, opponent}
	return nil
}

func (r *fakeMatchRepo) AppendTimeline(_ context.Context, _ repositories.SQLExecutor, entry *models.TimelineEntry) error {
	// Mirror the RETURNING scan: the caller's entry gets the assigned id.
	entry.ID = len(r.timeline) + 1
	r.timeline = append(r.timeline, *entry)
	return nil
}

func (r *fakeMatchRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

type fakePlayerRepo struct {
	repositories.PlayerRepository
	players map[int]*models.Player
}

func (r *fakePlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	player, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return player, nil
}

type fakeGoalRepo struct {
	repositories.GoalRepository
	goals  map[int]*models.Goal
	nextID int
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: map[int]*models.Goal{}}
}

func (r *fakeGoalRepo) Create(_ context.Context, _ repositories.SQLExecutor, goal *models.Goal) error {
	r.nextID++
	goal.ID = r.nextID
	stored := *goal
	r.goals[goal.ID] = &stored
	return nil
}

func (r *fakeGoalRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Goal, error) {
	goal, ok := r.goals[id]
	if !ok {
		return nil, repositories.ErrGoalNotFound
	}
	copied := *goal
	return &copied, nil
}

func (r *fakeGoalRepo) Update(_ context.Context, _ repositories.SQLExecutor, goal *models.Goal) error {
	if _, ok := r.goals[goal.ID]; !ok {
		return repositories.ErrGoalNotFound
	}
	stored := *goal
	r.goals[goal.ID] = &stored
	return nil
}

func (r *fakeGoalRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.goals[id]; !ok {
		return repositories.ErrGoalNotFound
	}
	delete(r.goals, id)
	return nil
}

func (r *fakeGoalRepo) ListByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) ([]models.Goal, error) {
	var out []models.Goal
	for _, goal := range r.goals {
		if goal.MatchID == matchID {
			out = append(out, *goal)
		}
	}
	return out, nil
}

type fakeCardRepo struct {
	repositories.CardRepository
	cards  map[int]*models.Card
	nextID int
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{cards: map[int]*models.Card{}}
}

func (r *fakeCardRepo) Create(_ context.Context, _ repositories.SQLExecutor, card *models.Card) error {
	r.nextID++
	card.ID = r.nextID
	stored := *card
	r.cards[card.ID] = &stored
	return nil
}

func (r *fakeCardRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Card, error) {
	card, ok := r.cards[id]
	if !ok {
		return nil, repositories.ErrCardNotFound
	}
	copied := *card
	return &copied, nil
}

func (r *fakeCardRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.cards[id]; !ok {
		return repositories.ErrCardNotFound
	}
	delete(r.cards, id)
	return nil
}

func (r *fakeCardRepo) HasRedCard(_ context.Context, _ repositories.SQLExecutor, matchID, playerID int) (bool, error) {
	for _, card := range r.cards {
		if card.MatchID == matchID && card.Color == models.CardRed &&
			card.Player.PlayerID != nil && *card.Player.PlayerID == playerID {
			return true, nil
		}
	}
	return false, nil
}

type fakeInjuryRepo struct {
	repositories.InjuryRepository
	injuries map[int]*models.Injury
	nextID   int
}

func newFakeInjuryRepo() *fakeInjuryRepo {
	return &fakeInjuryRepo{injuries: map[int]*models.Injury{}}
}

func (r *fakeInjuryRepo) Create(_ context.Context, _ repositories.SQLExecutor, injury *models.Injury) error {
	r.nextID++
	injury.ID = r.nextID
	stored := *injury
	r.injuries[injury.ID] = &stored
	return nil
}

func (r *fakeInjuryRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Injury, error) {
	injury, ok := r.injuries[id]
	if !ok {
		return nil, repositories.ErrInjuryNotFound
	}
	copied := *injury
	return &copied, nil
}

type indexLink struct {
	playerID  int
	eventType models.EventType
	eventID   int
	relation  models.PlayerRelation
}

type matchLink struct {
	eventType models.EventType
	eventID   int
}

type fakeIndexRepo struct {
	repositories.EventIndexRepository
	matchLinks  map[int][]matchLink
	playerLinks []indexLink
}

func newFakeIndexRepo() *fakeIndexRepo {
	return &fakeIndexRepo{matchLinks: map[int][]matchLink{}}
}

func (r *fakeIndexRepo) LinkMatch(_ context.Context, _ repositories.SQLExecutor, matchID int, eventType models.EventType, eventID int) error {
	r.matchLinks[matchID] = append(r.matchLinks[matchID], matchLink{eventType, eventID})
	return nil
}

func (r *fakeIndexRepo) UnlinkMatch(_ context.Context, _ repositories.SQLExecutor, matchID int, eventType models.EventType, eventID int) error {
	kept := r.matchLinks[matchID][:0]
	for _, link := range r.matchLinks[matchID] {
		if link.eventType != eventType || link.eventID != eventID {
			kept = append(kept, link)
		}
	}
	r.matchLinks[matchID] = kept
	return nil
}

func (r *fakeIndexRepo) LinkPlayer(_ context.Context, _ repositories.SQLExecutor, playerID int, eventType models.EventType, eventID int, relation models.PlayerRelation) error {
	r.playerLinks = append(r.playerLinks, indexLink{playerID, eventType, eventID, relation})
	return nil
}

func (r *fakeIndexRepo) UnlinkPlayersByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) error {
	doomed := map[matchLink]bool{}
	for _, link := range r.matchLinks[matchID] {
		if link.eventType == models.EventTypeGoal || link.eventType == models.EventTypeCard {
			doomed[link] = true
		}
	}
	kept := r.playerLinks[:0]
	for _, link := range r.playerLinks {
		if !doomed[matchLink{link.eventType, link.eventID}] {
			kept = append(kept, link)
		}
	}
	r.playerLinks = kept
	return nil
}

func (r *fakeIndexRepo) UnlinkPlayerAll(_ context.Context, _ repositories.SQLExecutor, eventType models.EventType, eventID int) error {
	kept := r.playerLinks[:0]
	for _, link := range r.playerLinks {
		if link.eventType != eventType || link.eventID != eventID {
			kept = append(kept, link)
		}
	}
	r.playerLinks = kept
	return nil
}

func (r *fakeIndexRepo) ListPlayerEventIDs(_ context.Context, playerID int, eventType models.EventType, relation *models.PlayerRelation) ([]int, error) {
	var ids []int
	for _, link := range r.playerLinks {
		if link.playerID != playerID || link.eventType != eventType {
			continue
		}
		if relation != nil && link.relation != *relation {
			continue
		}
		ids = append(ids, link.eventID)
	}
	return ids, nil
}

type fakeAudit struct {
	AuditService
	entries []AuditEntry
}

func (a *fakeAudit) Record(_ context.Context, entry AuditEntry) {
	a.entries = append(a.entries, entry)
}

type fakeBroadcaster struct {
	rooms    []string
	messages []interface{}
}

func (b *fakeBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	b.rooms = append(b.rooms, roomID)
	b.messages = append(b.messages, message)
}

type eventFixture struct {
	service    EventService
	matchRepo  *fakeMatchRepo
	playerRepo *fakePlayerRepo
	goalRepo   *fakeGoalRepo
	cardRepo   *fakeCardRepo
	injuryRepo *fakeInjuryRepo
	indexRepo  *fakeIndexRepo
	audit      *fakeAudit
	broadcast  *fakeBroadcaster
}

func newEventFixture(matchIDs ...int) *eventFixture {
	f := &eventFixture{
		matchRepo:  newFakeMatchRepo(matchIDs...),
		goalRepo:   newFakeGoalRepo(),
		cardRepo:   newFakeCardRepo(),
		injuryRepo: newFakeInjuryRepo(),
		indexRepo:  newFakeIndexRepo(),
		audit:      &fakeAudit{},
		broadcast:  &fakeBroadcaster{},
	}
	f.playerRepo = &fakePlayerRepo{players: map[int]*models.Player{
		7:  {ID: 7, FirstName: "Erik", LastName: "Almas", Number: 9, Position: "forward"},
		11: {ID: 11, FirstName: "Jonas", LastName: "Berg", Number: 8, Position: "midfielder"},
	}}
	f.service = NewEventService(
		fakeTxRunner{},
		f.matchRepo,
		f.playerRepo,
		f.goalRepo,
		f.cardRepo,
		f.injuryRepo,
		f.indexRepo,
		f.audit,
		f.broadcast,
		slog.New(slog.NewTextHandler(os.Stderr, nil)),
	)
	return f
}

func intPtr(v int) *int { return &v }

func TestRecordGoalAppliesAllBackReferences(t *testing.T) {
	f := newEventFixture(1)

	goal, err := f.service.RecordGoal(context.Background(), RecordGoalInput{
		MatchID:     1,
		Minute:      "23",
		ForClub:     true,
		ModeOfScore: "header",
		ScorerID:    intPtr(7),
		AssistID:    intPtr(11),
	})
	require.NoError(t, err)
	require.NotNil(t, goal)

	assert.Equal(t, "Erik Almas", goal.Scorer.Name)
	require.NotNil(t, goal.Assist)
	assert.Equal(t, "Jonas Berg", goal.Assist.Name)

	// Match index, player index (scorer + assist), timeline, score.
	assert.Equal(t, []matchLink{{models.EventTypeGoal, goal.ID}}, f.indexRepo.matchLinks[1])
	require.Len(t, f.indexRepo.playerLinks, 2)
	assert.Equal(t, models.RelationScorer, f.indexRepo.playerLinks[0].relation)
	assert.Equal(t, models.RelationAssist, f.indexRepo.playerLinks[1].relation)

	require.Len(t, f.matchRepo.timeline, 1)
	assert.Equal(t, models.EventTypeGoal, f.matchRepo.timeline[0].EntryType)
	assert.Contains(t, f.matchRepo.timeline[0].Title, "Erik Almas")

	assert.Equal(t, [2]int{1, 0}, f.matchRepo.scores[1])

	// Post-commit side effects.
	require.Len(t, f.broadcast.rooms, 1)
	assert.Equal(t, live.MatchRoom(1), f.broadcast.rooms[0])
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "goal recorded", f.audit.entries[0].Title)
}

func TestRecordGoalValidation(t *testing.T) {
	f := newEventFixture(1)
	ctx := context.Background()

	_, err := f.service.RecordGoal(ctx, RecordGoalInput{MatchID: 1, ScorerID: intPtr(7)})
	assert.ErrorIs(t, err, ErrEventMinuteRequired)

	_, err = f.service.RecordGoal(ctx, RecordGoalInput{MatchID: 1, Minute: "10"})
	assert.ErrorIs(t, err, ErrEventPlayerRequired)

	_, err = f.service.RecordGoal(ctx, RecordGoalInput{MatchID: 99, Minute: "10", ScorerID: intPtr(7)})
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = f.service.RecordGoal(ctx, RecordGoalInput{MatchID: 1, Minute: "10", ScorerID: intPtr(404)})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestRecordGoalForUnregisteredScorer(t *testing.T) {
	f := newEventFixture(1)

	goal, err := f.service.RecordGoal(context.Background(), RecordGoalInput{
		MatchID:    1,
		Minute:     "88",
		ForClub:    false,
		ScorerName: "Trialist",
	})
	require.NoError(t, err)

	assert.Nil(t, goal.Scorer.PlayerID)
	assert.Equal(t, "Trialist", goal.Scorer.Name)
	// No registered player means no player index rows.
	assert.Empty(t, f.indexRepo.playerLinks)
	// Opponent goal: score goes to the right side.
	assert.Equal(t, [2]int{0, 1}, f.matchRepo.scores[1])
}

func TestDeleteGoalRevokesEverything(t *testing.T) {
	f := newEventFixture(1)
	ctx := context.Background()

	goal, err := f.service.RecordGoal(ctx, RecordGoalInput{
		MatchID: 1, Minute: "15", ForClub: true, ScorerID: intPtr(7),
	})
	require.NoError(t, err)

	_, err = f.service.DeleteGoal(ctx, goal.ID, intPtr(3))
	require.NoError(t, err)

	assert.Empty(t, f.indexRepo.matchLinks[1])
	assert.Empty(t, f.indexRepo.playerLinks)
	assert.Equal(t, [2]int{0, 0}, f.matchRepo.scores[1])

	// Timeline keeps the original entry and gains a revocation notice.
	require.Len(t, f.matchRepo.timeline, 2)
	assert.Equal(t, models.EventTypeInfo, f.matchRepo.timeline[1].EntryType)

	_, err = f.service.GetGoal(ctx, goal.ID)
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestUpdateGoalKeepsMatchBinding(t *testing.T) {
	f := newEventFixture(1, 2)
	ctx := context.Background()

	goal, err := f.service.RecordGoal(ctx, RecordGoalInput{
		MatchID: 1, Minute: "15", ForClub: true, ScorerID: intPtr(7),
	})
	require.NoError(t, err)

	updated, err := f.service.UpdateGoal(ctx, goal.ID, RecordGoalInput{
		MatchID:  2, // ignored
		Minute:   "17",
		ForClub:  true,
		ScorerID: intPtr(11),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, updated.MatchID)
	assert.Equal(t, "17", updated.Minute)
	assert.Equal(t, "Jonas Berg", updated.Scorer.Name)

	// The player index follows the new scorer.
	require.Len(t, f.indexRepo.playerLinks, 1)
	assert.Equal(t, 11, f.indexRepo.playerLinks[0].playerID)
}

func TestRecordCardRejectsSecondRed(t *testing.T) {
	f := newEventFixture(1)
	ctx := context.Background()

	_, err := f.service.RecordCard(ctx, RecordCardInput{
		MatchID: 1, Minute: "30", Color: models.CardRed, PlayerID: 7,
	})
	require.NoError(t, err)

	_, err = f.service.RecordCard(ctx, RecordCardInput{
		MatchID: 1, Minute: "31", Color: models.CardRed, PlayerID: 7,
	})
	assert.ErrorIs(t, err, ErrDuplicateRedCard)

	// A second yellow for the same player is fine.
	_, err = f.service.RecordCard(ctx, RecordCardInput{
		MatchID: 1, Minute: "40", Color: models.CardYellow, PlayerID: 7,
	})
	assert.NoError(t, err)

	// And so is a red in another match.
	f.matchRepo.matches[2] = &models.Match{ID: 2}
	_, err = f.service.RecordCard(ctx, RecordCardInput{
		MatchID: 2, Minute: "10", Color: models.CardRed, PlayerID: 7,
	})
	assert.NoError(t, err)
}

func TestRecordCardValidation(t *testing.T) {
	f := newEventFixture(1)
	ctx := context.Background()

	_, err := f.service.RecordCard(ctx, RecordCardInput{MatchID: 1, Minute: "5", Color: "green", PlayerID: 7})
	assert.ErrorIs(t, err, ErrInvalidCardColor)

	_, err = f.service.RecordCard(ctx, RecordCardInput{MatchID: 1, Minute: "5", Color: models.CardYellow})
	assert.ErrorIs(t, err, ErrEventPlayerRequired)
}

func TestRecordInjuryOutsideMatch(t *testing.T) {
	f := newEventFixture()

	injury, err := f.service.RecordInjury(context.Background(), RecordInjuryInput{
		Severity:    models.InjuryMinor,
		Description: "rolled ankle at training",
		PlayerID:    7,
	})
	require.NoError(t, err)

	assert.Nil(t, injury.MatchID)
	// Unset status defaults to recovering.
	assert.Equal(t, models.InjuryRecovering, injury.Status)

	// No match, so no timeline entry, no match index row, no broadcast.
	assert.Empty(t, f.matchRepo.timeline)
	assert.Empty(t, f.indexRepo.matchLinks)
	assert.Empty(t, f.broadcast.rooms)

	// The player index row is still written.
	require.Len(t, f.indexRepo.playerLinks, 1)
	assert.Equal(t, models.RelationSustained, f.indexRepo.playerLinks[0].relation)
}

func TestRecordInjuryDuringMatch(t *testing.T) {
	f := newEventFixture(1)

	injury, err := f.service.RecordInjury(context.Background(), RecordInjuryInput{
		MatchID:     intPtr(1),
		Minute:      "55",
		Severity:    models.InjuryMajor,
		Status:      models.InjuryOutForSeason,
		Description: "hamstring",
		PlayerID:    7,
	})
	require.NoError(t, err)
	require.NotNil(t, injury.MatchID)

	require.Len(t, f.matchRepo.timeline, 1)
	assert.Equal(t, models.EventTypeInjury, f.matchRepo.timeline[0].EntryType)
	assert.Equal(t, live.MatchRoom(1), f.broadcast.rooms[0])
}

func TestPlayerInvolvement(t *testing.T) {
	f := newEventFixture(1)
	ctx := context.Background()

	_, err := f.service.RecordGoal(ctx, RecordGoalInput{
		MatchID: 1, Minute: "10", ForClub: true, ScorerID: intPtr(7), AssistID: intPtr(11),
	})
	require.NoError(t, err)
	_, err = f.service.RecordGoal(ctx, RecordGoalInput{
		MatchID: 1, Minute: "30", ForClub: true, ScorerID: intPtr(7),
	})
	require.NoError(t, err)
	_, err = f.service.RecordCard(ctx, RecordCardInput{
		MatchID: 1, Minute: "60", Color: models.CardYellow, PlayerID: 7,
	})
	require.NoError(t, err)

	involvement, err := f.service.PlayerInvolvement(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, involvement.Goals)
	assert.Equal(t, 0, involvement.Assists)
	assert.Equal(t, 1, involvement.Cards)
	assert.Equal(t, 0, involvement.Injuries)

	assister, err := f.service.PlayerInvolvement(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, 0, assister.Goals)
	assert.Equal(t, 1, assister.Assists)

	_, err = f.service.PlayerInvolvement(ctx, 404)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestBroadcastCarriesPersistedEntry(t *testing.T) {
	f := newEventFixture(1)

	_, err := f.service.RecordGoal(context.Background(), RecordGoalInput{
		MatchID: 1, Minute: "12", ForClub: true, ScorerID: intPtr(7),
	})
	require.NoError(t, err)

	// Ticker clients get the row the timeline endpoint returns, id included.
	require.Len(t, f.broadcast.messages, 1)
	msg, ok := f.broadcast.messages[0].(live.Message)
	require.True(t, ok)
	sent, ok := msg.Payload.(models.TimelineEntry)
	require.True(t, ok)
	require.Len(t, f.matchRepo.timeline, 1)
	assert.NotZero(t, sent.ID)
	assert.Equal(t, f.matchRepo.timeline[0].ID, sent.ID)
}

// goneGoalRepo reports the row missing on delete, as when a concurrent
// delete commits between the pre-read and the transaction.
type goneGoalRepo struct {
	*fakeGoalRepo
}

func (r *goneGoalRepo) Delete(_ context.Context, _ repositories.SQLExecutor, _ int) error {
	return repositories.ErrGoalNotFound
}

func TestDeleteGoalLosingRaceReportsNotFound(t *testing.T) {
	f := newEventFixture(1)
	ctx := context.Background()

	goal, err := f.service.RecordGoal(ctx, RecordGoalInput{
		MatchID: 1, Minute: "15", ForClub: true, ScorerID: intPtr(7),
	})
	require.NoError(t, err)

	loser := NewEventService(
		fakeTxRunner{},
		f.matchRepo,
		f.playerRepo,
		&goneGoalRepo{f.goalRepo},
		f.cardRepo,
		f.injuryRepo,
		f.indexRepo,
		f.audit,
		f.broadcast,
		slog.New(slog.NewTextHandler(os.Stderr, nil)),
	)
	_, err = loser.DeleteGoal(ctx, goal.ID, nil)
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestRecordInjuryRejectsUnknownSeverity(t *testing.T) {
	f := newEventFixture(1)

	_, err := f.service.RecordInjury(context.Background(), RecordInjuryInput{
		MatchID:  intPtr(1),
		Severity: "shrug",
		PlayerID: 7,
	})
	assert.ErrorIs(t, err, ErrInvalidSeverity)
}
