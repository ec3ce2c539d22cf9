package repositories

import (
	"context"
	"database/sql"

	"github.com/clubops/club-system/models"
)

// EventIndexRepository maintains the match_events and player_events secondary
// index tables. All event back-references flow through these methods so the
// apply/revoke transaction is the single update path.
type EventIndexRepository interface {
	LinkMatch(ctx context.Context, exec SQLExecutor, matchID int, eventType models.EventType, eventID int) error
	UnlinkMatch(ctx context.Context, exec SQLExecutor, matchID int, eventType models.EventType, eventID int) error
	LinkPlayer(ctx context.Context, exec SQLExecutor, playerID int, eventType models.EventType, eventID int, relation models.PlayerRelation) error
	UnlinkPlayerAll(ctx context.Context, exec SQLExecutor, eventType models.EventType, eventID int) error
	UnlinkPlayersByMatch(ctx context.Context, exec SQLExecutor, matchID int) error

	ListPlayerEventIDs(ctx context.Context, playerID int, eventType models.EventType, relation *models.PlayerRelation) ([]int, error)
}

type postgresEventIndexRepository struct {
	db *sql.DB
}

func NewPostgresEventIndexRepository(db *sql.DB) EventIndexRepository {
	return &postgresEventIndexRepository{db: db}
}

func (r *postgresEventIndexRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresEventIndexRepository) LinkMatch(ctx context.Context, exec SQLExecutor, matchID int, eventType models.EventType, eventID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `
		INSERT INTO match_events (match_id, event_type, event_id)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`,
		matchID, eventType, eventID)
	return err
}

func (r *postgresEventIndexRepository) UnlinkMatch(ctx context.Context, exec SQLExecutor, matchID int, eventType models.EventType, eventID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `
		DELETE FROM match_events
		WHERE match_id = $1 AND event_type = $2 AND event_id = $3`,
		matchID, eventType, eventID)
	return err
}

func (r *postgresEventIndexRepository) LinkPlayer(ctx context.Context, exec SQLExecutor, playerID int, eventType models.EventType, eventID int, relation models.PlayerRelation) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `
		INSERT INTO player_events (player_id, event_type, event_id, relation)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING`,
		playerID, eventType, eventID, relation)
	return err
}

func (r *postgresEventIndexRepository) UnlinkPlayerAll(ctx context.Context, exec SQLExecutor, eventType models.EventType, eventID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `
		DELETE FROM player_events
		WHERE event_type = $1 AND event_id = $2`,
		eventType, eventID)
	return err
}

// UnlinkPlayersByMatch drops the player index rows for a match's goals and
// cards. player_events has no FK on event_id, so deleting a match would
// otherwise leave these rows dangling. Injury rows are kept: injuries detach
// from the match instead of being deleted with it.
func (r *postgresEventIndexRepository) UnlinkPlayersByMatch(ctx context.Context, exec SQLExecutor, matchID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `
		DELETE FROM player_events
		WHERE (event_type, event_id) IN (
			SELECT 'goal', id FROM goals WHERE match_id = $1
			UNION ALL
			SELECT 'card', id FROM cards WHERE match_id = $1
		)`,
		matchID)
	return err
}

func (r *postgresEventIndexRepository) ListPlayerEventIDs(ctx context.Context, playerID int, eventType models.EventType, relation *models.PlayerRelation) ([]int, error) {
	query := `
		SELECT event_id FROM player_events
		WHERE player_id = $1 AND event_type = $2`
	args := []interface{}{playerID, eventType}
	if relation != nil {
		query += ` AND relation = $3`
		args = append(args, *relation)
	}
	query += ` ORDER BY event_id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIDs(rows)
}

func scanIDs(rows *sql.Rows) ([]int, error) {
	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
