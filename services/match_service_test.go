package services

import (
	"context"
	"testing"

	"github.com/clubops/club-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMatchServiceOver(f *eventFixture) MatchService {
	return NewMatchService(
		fakeTxRunner{},
		f.matchRepo,
		nil, // opponent lookups are not part of the delete path
		f.goalRepo,
		f.cardRepo,
		f.injuryRepo,
		f.indexRepo,
		nil,
		f.audit,
	)
}

func TestDeleteMatchPrunesPlayerIndex(t *testing.T) {
	f := newEventFixture(1)
	ctx := context.Background()

	_, err := f.service.RecordGoal(ctx, RecordGoalInput{
		MatchID: 1, Minute: "20", ForClub: true, ScorerID: intPtr(7), AssistID: intPtr(11),
	})
	require.NoError(t, err)
	_, err = f.service.RecordCard(ctx, RecordCardInput{
		MatchID: 1, Minute: "55", Color: models.CardYellow, PlayerID: 7,
	})
	require.NoError(t, err)
	_, err = f.service.RecordInjury(ctx, RecordInjuryInput{
		MatchID: intPtr(1), Minute: "70", Severity: models.InjuryMinor, PlayerID: 7,
	})
	require.NoError(t, err)
	require.Len(t, f.indexRepo.playerLinks, 4)

	matches := newMatchServiceOver(f)
	require.NoError(t, matches.Delete(ctx, 1, intPtr(2)))

	// Goal and card index rows go with the match; the injury detaches and
	// keeps its player link.
	require.Len(t, f.indexRepo.playerLinks, 1)
	assert.Equal(t, models.RelationSustained, f.indexRepo.playerLinks[0].relation)

	involvement, err := f.service.PlayerInvolvement(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, involvement.Goals)
	assert.Equal(t, 0, involvement.Cards)
	assert.Equal(t, 1, involvement.Injuries)

	assister, err := f.service.PlayerInvolvement(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, 0, assister.Assists)

	last := f.audit.entries[len(f.audit.entries)-1]
	assert.Equal(t, "match deleted", last.Title)
}

func TestDeleteMatchUnknownID(t *testing.T) {
	f := newEventFixture(1)
	matches := newMatchServiceOver(f)

	err := matches.Delete(context.Background(), 99, nil)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}
