package services

import (
	"context"
	"errors"
	"sort"

	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
	"golang.org/x/sync/errgroup"
)

// MonthlyBucket is one month of the season trend, keyed "2026-03".
type MonthlyBucket struct {
	Month        string `json:"month"`
	Played       int    `json:"played"`
	Wins         int    `json:"wins"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
}

// SeasonSummary aggregates per-match metrics over one season's finished
// matches.
type SeasonSummary struct {
	Season         string          `json:"season"`
	Played         int             `json:"played"`
	Wins           int             `json:"wins"`
	Draws          int             `json:"draws"`
	Losses         int             `json:"losses"`
	WinRate        float64         `json:"win_rate"`
	GoalsFor       int             `json:"goals_for"`
	GoalsAgainst   int             `json:"goals_against"`
	GoalDifference int             `json:"goal_difference"`
	Monthly        []MonthlyBucket `json:"monthly"`
}

// DashboardStats is the admin overview block.
type DashboardStats struct {
	Summary    *SeasonSummary               `json:"summary,omitempty"`
	TopScorers []repositories.ScorerCount   `json:"top_scorers"`
	Cards      *repositories.CardStats      `json:"cards"`
	Injuries   *repositories.InjuryStats    `json:"injuries"`
	Donations  []repositories.DonationTotal `json:"donations"`
	Positions  []repositories.PositionCount `json:"positions"`
}

type MetricsService interface {
	MatchMetrics(ctx context.Context, matchID int) (*MatchMetrics, error)
	SeasonSummary(ctx context.Context, season string) (*SeasonSummary, error)
	// Dashboard fans the independent stat queries out concurrently. With a
	// season it also includes that season's summary.
	Dashboard(ctx context.Context, season string) (*DashboardStats, error)
}

type metricsService struct {
	matchRepo    repositories.MatchRepository
	goalRepo     repositories.GoalRepository
	cardRepo     repositories.CardRepository
	injuryRepo   repositories.InjuryRepository
	playerRepo   repositories.PlayerRepository
	donationRepo repositories.DonationRepository
}

func NewMetricsService(
	matchRepo repositories.MatchRepository,
	goalRepo repositories.GoalRepository,
	cardRepo repositories.CardRepository,
	injuryRepo repositories.InjuryRepository,
	playerRepo repositories.PlayerRepository,
	donationRepo repositories.DonationRepository,
) MetricsService {
	return &metricsService{
		matchRepo:    matchRepo,
		goalRepo:     goalRepo,
		cardRepo:     cardRepo,
		injuryRepo:   injuryRepo,
		playerRepo:   playerRepo,
		donationRepo: donationRepo,
	}
}

func (s *metricsService) MatchMetrics(ctx context.Context, matchID int) (*MatchMetrics, error) {
	if _, err := s.matchRepo.GetByID(ctx, nil, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	goals, err := s.goalRepo.ListByMatch(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}

	metrics := DeriveMatchMetrics(goals)
	return &metrics, nil
}

func (s *metricsService) SeasonSummary(ctx context.Context, season string) (*SeasonSummary, error) {
	matches, err := s.matchRepo.ListBySeasonAndStatus(ctx, season, models.MatchStatusFinished)
	if err != nil {
		return nil, err
	}

	summary := &SeasonSummary{Season: season, Played: len(matches)}
	buckets := make(map[string]*MonthlyBucket)

	for _, match := range matches {
		goals, err := s.goalRepo.ListByMatch(ctx, nil, match.ID)
		if err != nil {
			return nil, err
		}
		metrics := DeriveMatchMetrics(goals)

		summary.GoalsFor += len(metrics.ClubGoals)
		summary.GoalsAgainst += len(metrics.OpponentGoals)
		switch metrics.WinStatus {
		case WinStatusWin:
			summary.Wins++
		case WinStatusLoss:
			summary.Losses++
		default:
			summary.Draws++
		}

		month := match.Date.Format("2006-01")
		bucket, ok := buckets[month]
		if !ok {
			bucket = &MonthlyBucket{Month: month}
			buckets[month] = bucket
		}
		bucket.Played++
		if metrics.WinStatus == WinStatusWin {
			bucket.Wins++
		}
		bucket.GoalsFor += len(metrics.ClubGoals)
		bucket.GoalsAgainst += len(metrics.OpponentGoals)
	}

	summary.GoalDifference = summary.GoalsFor - summary.GoalsAgainst
	if summary.Played > 0 {
		summary.WinRate = float64(summary.Wins) / float64(summary.Played)
	}

	summary.Monthly = make([]MonthlyBucket, 0, len(buckets))
	for _, bucket := range buckets {
		summary.Monthly = append(summary.Monthly, *bucket)
	}
	sort.Slice(summary.Monthly, func(i, j int) bool {
		return summary.Monthly[i].Month < summary.Monthly[j].Month
	})

	return summary, nil
}

func (s *metricsService) Dashboard(ctx context.Context, season string) (*DashboardStats, error) {
	stats := &DashboardStats{}

	g, ctx := errgroup.WithContext(ctx)
	if season != "" {
		g.Go(func() error {
			var err error
			stats.Summary, err = s.SeasonSummary(ctx, season)
			return err
		})
	}
	g.Go(func() error {
		var err error
		stats.TopScorers, err = s.goalRepo.TopScorers(ctx, 10)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Cards, err = s.cardRepo.Stats(ctx, 10)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Injuries, err = s.injuryRepo.Stats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Donations, err = s.donationRepo.Totals(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Positions, err = s.playerRepo.CountByPosition(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
