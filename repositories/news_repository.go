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
	ErrNewsNotFound     = errors.New("news article not found")
	ErrNewsSlugConflict = errors.New("news slug conflict")
)

type ListNewsFilter struct {
	ListParams
	Published *bool
	AuthorID  *int
}

type NewsRepository interface {
	Create(ctx context.Context, article *models.News) error
	GetByID(ctx context.Context, id int) (*models.News, error)
	GetBySlug(ctx context.Context, slug string) (*models.News, error)
	List(ctx context.Context, filter ListNewsFilter) ([]models.News, int, error)
	Update(ctx context.Context, article *models.News) error
	UpdateCoverKey(ctx context.Context, newsID int, coverKey *string) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresNewsRepository struct {
	db *sql.DB
}

func NewPostgresNewsRepository(db *sql.DB) NewsRepository {
	return &postgresNewsRepository{db: db}
}

const newsColumns = `id, slug, title, body, cover_key, published, author_id, created_at`

func (r *postgresNewsRepository) Create(ctx context.Context, article *models.News) error {
	query := `
		INSERT INTO news (slug, title, body, cover_key, published, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		article.Slug, article.Title, article.Body, article.CoverKey, article.Published, article.AuthorID,
	).Scan(&article.ID, &article.CreatedAt)

	return r.handleNewsError(err)
}

func (r *postgresNewsRepository) GetByID(ctx context.Context, id int) (*models.News, error) {
	return r.scanNews(ctx, `SELECT `+newsColumns+` FROM news WHERE id = $1`, id)
}

func (r *postgresNewsRepository) GetBySlug(ctx context.Context, slug string) (*models.News, error) {
	return r.scanNews(ctx, `SELECT `+newsColumns+` FROM news WHERE slug = $1`, slug)
}

func (r *postgresNewsRepository) List(ctx context.Context, filter ListNewsFilter) ([]models.News, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argID := 1

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR body ILIKE $%d)", argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}
	if filter.Published != nil {
		where = append(where, fmt.Sprintf("published = $%d", argID))
		args = append(args, *filter.Published)
		argID++
	}
	if filter.AuthorID != nil {
		where = append(where, fmt.Sprintf("author_id = $%d", argID))
		args = append(args, *filter.AuthorID)
		argID++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM news WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+newsColumns+` FROM news WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		whereClause, argID, argID+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	articles := make([]models.News, 0)
	for rows.Next() {
		var n models.News
		if err := rows.Scan(&n.ID, &n.Slug, &n.Title, &n.Body, &n.CoverKey, &n.Published, &n.AuthorID, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		articles = append(articles, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (r *postgresNewsRepository) Update(ctx context.Context, article *models.News) error {
	query := `UPDATE news SET slug = $1, title = $2, body = $3, published = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, article.Slug, article.Title, article.Body, article.Published, article.ID)
	if err != nil {
		return r.handleNewsError(err)
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}

func (r *postgresNewsRepository) UpdateCoverKey(ctx context.Context, newsID int, coverKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE news SET cover_key = $1 WHERE id = $2`, coverKey, newsID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}

func (r *postgresNewsRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}

func (r *postgresNewsRepository) scanNews(ctx context.Context, query string, args ...interface{}) (*models.News, error) {
	n := &models.News{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&n.ID, &n.Slug, &n.Title, &n.Body, &n.CoverKey, &n.Published, &n.AuthorID, &n.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return n, nil
}

func (r *postgresNewsRepository) handleNewsError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "news_slug_key" {
		return ErrNewsSlugConflict
	}
	return err
}
