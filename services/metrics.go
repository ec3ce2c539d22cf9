package services

import "github.com/clubops/club-system/models"

type WinStatus string

const (
	WinStatusWin  WinStatus = "win"
	WinStatusDraw WinStatus = "draw"
	WinStatusLoss WinStatus = "loss"
)

// MatchMetrics is the derived, never-persisted view of a match's goal set.
type MatchMetrics struct {
	WinStatus     WinStatus     `json:"win_status"`
	ClubGoals     []models.Goal `json:"club_goals"`
	OpponentGoals []models.Goal `json:"opponent_goals"`
}

// DeriveMatchMetrics partitions goals by ownership and classifies the
// outcome by comparing partition sizes. A match with no goals is a draw.
// Pure: identical goal sets always produce identical metrics.
func DeriveMatchMetrics(goals []models.Goal) MatchMetrics {
	metrics := MatchMetrics{
		ClubGoals:     make([]models.Goal, 0),
		OpponentGoals: make([]models.Goal, 0),
	}

	for _, g := range goals {
		if g.ForClub {
			metrics.ClubGoals = append(metrics.ClubGoals, g)
		} else {
			metrics.OpponentGoals = append(metrics.OpponentGoals, g)
		}
	}

	switch {
	case len(metrics.ClubGoals) > len(metrics.OpponentGoals):
		metrics.WinStatus = WinStatusWin
	case len(metrics.ClubGoals) < len(metrics.OpponentGoals):
		metrics.WinStatus = WinStatusLoss
	default:
		metrics.WinStatus = WinStatusDraw
	}

	return metrics
}
