package services

import (
	"context"
	"testing"

	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTeamRepo struct {
	repositories.TeamRepository
	teams       map[int]*models.Team
	hasFixtures map[int]bool
}

func newFakeTeamRepo(teams ...*models.Team) *fakeTeamRepo {
	r := &fakeTeamRepo{teams: map[int]*models.Team{}, hasFixtures: map[int]bool{}}
	for _, team := range teams {
		r.teams[team.ID] = team
	}
	return r
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	// The FK from matches.opponent_id blocks the delete.
	if r.hasFixtures[id] {
		return repositories.ErrTeamInUse
	}
	delete(r.teams, id)
	return nil
}

func newTeamFixture(teamRepo *fakeTeamRepo) (TeamService, *fakeArchiveRepo, *fakeAudit) {
	archiveRepo := &fakeArchiveRepo{}
	audit := &fakeAudit{}
	service := NewTeamService(fakeTxRunner{}, teamRepo, nil, archiveRepo, nil, audit)
	return service, archiveRepo, audit
}

func TestTeamDeleteWithFixturesConflicts(t *testing.T) {
	teamRepo := newFakeTeamRepo(&models.Team{ID: 3, Name: "Rivaldale", Kind: models.TeamKindOpponent})
	teamRepo.hasFixtures[3] = true
	service, _, audit := newTeamFixture(teamRepo)

	err := service.Delete(context.Background(), 3, intPtr(1))
	assert.ErrorIs(t, err, ErrTeamInUse)

	// The team survives and nothing is logged as deleted.
	_, err = teamRepo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, audit.entries)
}

func TestTeamDeleteArchivesSnapshotFirst(t *testing.T) {
	teamRepo := newFakeTeamRepo(&models.Team{ID: 4, Name: "Oldham Casuals", Kind: models.TeamKindOpponent})
	service, archiveRepo, audit := newTeamFixture(teamRepo)

	require.NoError(t, service.Delete(context.Background(), 4, intPtr(1)))

	require.Len(t, archiveRepo.archives, 1)
	assert.Equal(t, models.ArchiveSourceTeams, archiveRepo.archives[0].Source)
	assert.Equal(t, 4, archiveRepo.archives[0].SourceID)

	_, err := teamRepo.GetByID(context.Background(), 4)
	assert.ErrorIs(t, err, repositories.ErrTeamNotFound)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "team deleted", audit.entries[0].Title)
}
