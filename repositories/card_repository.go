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
	ErrCardNotFound     = errors.New("card not found")
	ErrCardMatchInvalid = errors.New("card match reference invalid")
)

type ListCardsFilter struct {
	ListParams
	MatchID  *int
	PlayerID *int
	Color    *models.CardColor
}

// CardStats aggregates the cards collection for the stats endpoint.
type CardStats struct {
	Yellow     int           `json:"yellow"`
	Red        int           `json:"red"`
	MostBooked []ScorerCount `json:"most_booked"` // Goals field holds card count here
}

type CardRepository interface {
	Create(ctx context.Context, exec SQLExecutor, card *models.Card) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Card, error)
	List(ctx context.Context, filter ListCardsFilter) ([]models.Card, int, error)
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.Card, error)
	Update(ctx context.Context, exec SQLExecutor, card *models.Card) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	HasRedCard(ctx context.Context, exec SQLExecutor, matchID, playerID int) (bool, error)
	Stats(ctx context.Context, limit int) (*CardStats, error)
}

type postgresCardRepository struct {
	db *sql.DB
}

func NewPostgresCardRepository(db *sql.DB) CardRepository {
	return &postgresCardRepository{db: db}
}

func (r *postgresCardRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const cardColumns = `id, match_id, minute, color, reason,
	player_id, player_name, player_number, player_position, created_by, created_at`

func (r *postgresCardRepository) Create(ctx context.Context, exec SQLExecutor, card *models.Card) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO cards (match_id, minute, color, reason,
			player_id, player_name, player_number, player_position, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		card.MatchID, card.Minute, card.Color, card.Reason,
		card.Player.PlayerID, card.Player.Name, card.Player.Number, card.Player.Position,
		card.CreatedBy,
	).Scan(&card.ID, &card.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrCardMatchInvalid
		}
		return err
	}
	return nil
}

func (r *postgresCardRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Card, error) {
	executor := r.getExecutor(exec)
	row := executor.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, id)
	card, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return card, nil
}

func (r *postgresCardRepository) List(ctx context.Context, filter ListCardsFilter) ([]models.Card, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argID := 1

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(player_name ILIKE $%d OR reason ILIKE $%d)", argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}
	if filter.MatchID != nil {
		where = append(where, fmt.Sprintf("match_id = $%d", argID))
		args = append(args, *filter.MatchID)
		argID++
	}
	if filter.PlayerID != nil {
		where = append(where, fmt.Sprintf("player_id = $%d", argID))
		args = append(args, *filter.PlayerID)
		argID++
	}
	if filter.Color != nil {
		where = append(where, fmt.Sprintf("color = $%d", argID))
		args = append(args, *filter.Color)
		argID++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+cardColumns+` FROM cards WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		whereClause, argID, argID+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	cards, err := scanCardRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

func (r *postgresCardRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.Card, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE match_id = $1 ORDER BY id ASC`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCardRows(rows)
}

func (r *postgresCardRepository) Update(ctx context.Context, exec SQLExecutor, card *models.Card) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE cards SET
			minute = $1, color = $2, reason = $3,
			player_id = $4, player_name = $5, player_number = $6, player_position = $7
		WHERE id = $8`

	result, err := executor.ExecContext(ctx, query,
		card.Minute, card.Color, card.Reason,
		card.Player.PlayerID, card.Player.Name, card.Player.Number, card.Player.Position,
		card.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCardNotFound)
}

func (r *postgresCardRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCardNotFound)
}

// HasRedCard is the best-effort uniqueness pre-check for red cards. Run it on
// the transaction executor so the window between check and insert stays small.
func (r *postgresCardRepository) HasRedCard(ctx context.Context, exec SQLExecutor, matchID, playerID int) (bool, error) {
	executor := r.getExecutor(exec)
	var exists bool
	err := executor.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM cards
			WHERE match_id = $1 AND player_id = $2 AND color = 'red'
		)`, matchID, playerID).Scan(&exists)
	return exists, err
}

func (r *postgresCardRepository) Stats(ctx context.Context, limit int) (*CardStats, error) {
	stats := &CardStats{MostBooked: make([]ScorerCount, 0)}

	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE color = 'yellow'),
			COUNT(*) FILTER (WHERE color = 'red')
		FROM cards`).Scan(&stats.Yellow, &stats.Red)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT player_id, player_name, COUNT(*) AS cards
		FROM cards
		GROUP BY player_id, player_name
		ORDER BY cards DESC, player_name ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s ScorerCount
		if err := rows.Scan(&s.PlayerID, &s.PlayerName, &s.Goals); err != nil {
			return nil, err
		}
		stats.MostBooked = append(stats.MostBooked, s)
	}
	return stats, rows.Err()
}

func scanCard(row rowScanner) (*models.Card, error) {
	c := &models.Card{}
	err := row.Scan(
		&c.ID, &c.MatchID, &c.Minute, &c.Color, &c.Reason,
		&c.Player.PlayerID, &c.Player.Name, &c.Player.Number, &c.Player.Position,
		&c.CreatedBy, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func scanCardRows(rows *sql.Rows) ([]models.Card, error) {
	cards := make([]models.Card, 0)
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}
