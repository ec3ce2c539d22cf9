package services

import (
	"context"
	"testing"
	"time"

	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clubGoal() models.Goal     { return models.Goal{ForClub: true} }
func opponentGoal() models.Goal { return models.Goal{ForClub: false} }

func TestDeriveMatchMetrics(t *testing.T) {
	tests := []struct {
		name     string
		goals    []models.Goal
		club     int
		opponent int
		status   WinStatus
	}{
		{"goalless draw", nil, 0, 0, WinStatusDraw},
		{"home win", []models.Goal{clubGoal(), clubGoal(), opponentGoal()}, 2, 1, WinStatusWin},
		{"loss", []models.Goal{opponentGoal(), opponentGoal()}, 0, 2, WinStatusLoss},
		{"score draw", []models.Goal{clubGoal(), opponentGoal()}, 1, 1, WinStatusDraw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := DeriveMatchMetrics(tt.goals)
			assert.Len(t, metrics.ClubGoals, tt.club)
			assert.Len(t, metrics.OpponentGoals, tt.opponent)
			assert.Equal(t, tt.status, metrics.WinStatus)
		})
	}
}

func TestDeriveMatchMetricsIsDeterministic(t *testing.T) {
	goals := []models.Goal{clubGoal(), opponentGoal(), clubGoal()}
	first := DeriveMatchMetrics(goals)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, DeriveMatchMetrics(goals))
	}
}

type seasonMatchRepo struct {
	repositories.MatchRepository
	matches []models.Match
}

func (r *seasonMatchRepo) ListBySeasonAndStatus(_ context.Context, _ string, _ models.MatchStatus) ([]models.Match, error) {
	return r.matches, nil
}

type seasonGoalRepo struct {
	repositories.GoalRepository
	byMatch map[int][]models.Goal
}

func (r *seasonGoalRepo) ListByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) ([]models.Goal, error) {
	return r.byMatch[matchID], nil
}

func TestSeasonSummary(t *testing.T) {
	date := func(month time.Month, day int) time.Time {
		return time.Date(2025, month, day, 15, 0, 0, 0, time.UTC)
	}
	matchRepo := &seasonMatchRepo{matches: []models.Match{
		{ID: 1, Date: date(time.August, 10)},
		{ID: 2, Date: date(time.August, 24)},
		{ID: 3, Date: date(time.September, 7)},
		{ID: 4, Date: date(time.September, 21)},
	}}
	goalRepo := &seasonGoalRepo{byMatch: map[int][]models.Goal{
		1: {clubGoal(), clubGoal()},                 // 2:0 win
		2: {clubGoal(), opponentGoal()},             // 1:1 draw
		3: {opponentGoal(), opponentGoal(), clubGoal()}, // 1:2 loss
		4: {clubGoal()},                             // 1:0 win
	}}

	service := NewMetricsService(matchRepo, goalRepo, nil, nil, nil, nil)

	summary, err := service.SeasonSummary(context.Background(), "2025/2026")
	require.NoError(t, err)

	assert.Equal(t, "2025/2026", summary.Season)
	assert.Equal(t, 4, summary.Played)
	assert.Equal(t, 2, summary.Wins)
	assert.Equal(t, 1, summary.Draws)
	assert.Equal(t, 1, summary.Losses)
	assert.InDelta(t, 0.5, summary.WinRate, 1e-9)
	assert.Equal(t, 5, summary.GoalsFor)
	assert.Equal(t, 3, summary.GoalsAgainst)
	assert.Equal(t, 2, summary.GoalDifference)

	require.Len(t, summary.Monthly, 2)
	assert.Equal(t, "2025-08", summary.Monthly[0].Month)
	assert.Equal(t, 2, summary.Monthly[0].Played)
	assert.Equal(t, 1, summary.Monthly[0].Wins)
	assert.Equal(t, "2025-09", summary.Monthly[1].Month)
	assert.Equal(t, 2, summary.Monthly[1].GoalsFor)
	assert.Equal(t, 2, summary.Monthly[1].GoalsAgainst)
}

func TestSeasonSummaryEmptySeason(t *testing.T) {
	service := NewMetricsService(&seasonMatchRepo{}, &seasonGoalRepo{}, nil, nil, nil, nil)

	summary, err := service.SeasonSummary(context.Background(), "2031/2032")
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Played)
	assert.Zero(t, summary.WinRate)
	assert.Empty(t, summary.Monthly)
}
