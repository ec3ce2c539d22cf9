package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/clubops/club-system/models"
	"github.com/lib/pq"
)

var (
	ErrGoalNotFound     = errors.New("goal not found")
	ErrGoalMatchInvalid = errors.New("goal match reference invalid")
)

type ListGoalsFilter struct {
	ListParams
	MatchID  *int
	PlayerID *int
	ForClub  *bool
}

// ScorerCount is one row of the top-scorers leaderboard.
type ScorerCount struct {
	PlayerID   *int   `json:"player_id,omitempty"`
	PlayerName string `json:"player_name"`
	Goals      int    `json:"goals"`
}

type GoalRepository interface {
	Create(ctx context.Context, exec SQLExecutor, goal *models.Goal) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Goal, error)
	List(ctx context.Context, filter ListGoalsFilter) ([]models.Goal, int, error)
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.Goal, error)
	Update(ctx context.Context, exec SQLExecutor, goal *models.Goal) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	TopScorers(ctx context.Context, limit int) ([]ScorerCount, error)
}

type postgresGoalRepository struct {
	db *sql.DB
}

func NewPostgresGoalRepository(db *sql.DB) GoalRepository {
	return &postgresGoalRepository{db: db}
}

func (r *postgresGoalRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const goalColumns = `id, match_id, minute, for_club, mode_of_score,
	player_id, player_name, player_number, player_position,
	assist_id, assist_name, created_by, created_at`

func (r *postgresGoalRepository) Create(ctx context.Context, exec SQLExecutor, goal *models.Goal) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO goals (match_id, minute, for_club, mode_of_score,
			player_id, player_name, player_number, player_position,
			assist_id, assist_name, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	var assistID *int
	var assistName *string
	if goal.Assist != nil {
		assistID = goal.Assist.PlayerID
		assistName = &goal.Assist.Name
	}

	err := executor.QueryRowContext(ctx, query,
		goal.MatchID, goal.Minute, goal.ForClub, goal.ModeOfScore,
		goal.Scorer.PlayerID, goal.Scorer.Name, goal.Scorer.Number, goal.Scorer.Position,
		assistID, assistName, goal.CreatedBy,
	).Scan(&goal.ID, &goal.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrGoalMatchInvalid
		}
		return err
	}
	return nil
}

func (r *postgresGoalRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Goal, error) {
	executor := r.getExecutor(exec)
	row := executor.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1`, id)
	goal, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

func (r *postgresGoalRepository) List(ctx context.Context, filter ListGoalsFilter) ([]models.Goal, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argID := 1

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(player_name ILIKE $%d OR mode_of_score ILIKE $%d)", argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}
	if filter.MatchID != nil {
		where = append(where, fmt.Sprintf("match_id = $%d", argID))
		args = append(args, *filter.MatchID)
		argID++
	}
	if filter.PlayerID != nil {
		where = append(where, fmt.Sprintf("(player_id = $%d OR assist_id = $%d)", argID, argID))
		args = append(args, *filter.PlayerID)
		argID++
	}
	if filter.ForClub != nil {
		where = append(where, fmt.Sprintf("for_club = $%d", argID))
		args = append(args, *filter.ForClub)
		argID++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM goals WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+goalColumns+` FROM goals WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		whereClause, argID, argID+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	goals, err := scanGoalRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return goals, total, nil
}

func (r *postgresGoalRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.Goal, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE match_id = $1 ORDER BY id ASC`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGoalRows(rows)
}

func (r *postgresGoalRepository) Update(ctx context.Context, exec SQLExecutor, goal *models.Goal) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE goals SET
			minute = $1, for_club = $2, mode_of_score = $3,
			player_id = $4, player_name = $5, player_number = $6, player_position = $7,
			assist_id = $8, assist_name = $9
		WHERE id = $10`

	var assistID *int
	var assistName *string
	if goal.Assist != nil {
		assistID = goal.Assist.PlayerID
		assistName = &goal.Assist.Name
	}

	result, err := executor.ExecContext(ctx, query,
		goal.Minute, goal.ForClub, goal.ModeOfScore,
		goal.Scorer.PlayerID, goal.Scorer.Name, goal.Scorer.Number, goal.Scorer.Position,
		assistID, assistName, goal.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGoalNotFound)
}

func (r *postgresGoalRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGoalNotFound)
}

func (r *postgresGoalRepository) TopScorers(ctx context.Context, limit int) ([]ScorerCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT player_id, player_name, COUNT(*) AS goals
		FROM goals
		WHERE for_club = TRUE
		GROUP BY player_id, player_name
		ORDER BY goals DESC, player_name ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scorers := make([]ScorerCount, 0)
	for rows.Next() {
		var s ScorerCount
		if err := rows.Scan(&s.PlayerID, &s.PlayerName, &s.Goals); err != nil {
			return nil, err
		}
		scorers = append(scorers, s)
	}
	return scorers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGoal(row rowScanner) (*models.Goal, error) {
	g := &models.Goal{}
	var assistID *int
	var assistName *string
	err := row.Scan(
		&g.ID, &g.MatchID, &g.Minute, &g.ForClub, &g.ModeOfScore,
		&g.Scorer.PlayerID, &g.Scorer.Name, &g.Scorer.Number, &g.Scorer.Position,
		&assistID, &assistName, &g.CreatedBy, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if assistName != nil {
		g.Assist = &models.PlayerSnapshot{PlayerID: assistID, Name: *assistName}
	}
	return g, nil
}

func scanGoalRows(rows *sql.Rows) ([]models.Goal, error) {
	goals := make([]models.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}
