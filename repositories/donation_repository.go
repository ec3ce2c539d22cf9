package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/clubops/club-system/models"
)

var ErrDonationNotFound = errors.New("donation not found")

type ListDonationsFilter struct {
	ListParams
	Status   *models.DonationStatus
	Currency *string
}

// DonationTotal is one row of the donations stats summary.
type DonationTotal struct {
	Status   models.DonationStatus `json:"status"`
	Currency string                `json:"currency"`
	Count    int                   `json:"count"`
	Total    int64                 `json:"total_cents"`
}

type DonationRepository interface {
	Create(ctx context.Context, donation *models.Donation) error
	GetByID(ctx context.Context, id int) (*models.Donation, error)
	List(ctx context.Context, filter ListDonationsFilter) ([]models.Donation, int, error)
	UpdateStatus(ctx context.Context, id int, status models.DonationStatus) error
	Delete(ctx context.Context, id int) error
	Totals(ctx context.Context) ([]DonationTotal, error)
}

type postgresDonationRepository struct {
	db *sql.DB
}

func NewPostgresDonationRepository(db *sql.DB) DonationRepository {
	return &postgresDonationRepository{db: db}
}

const donationColumns = `id, donor_name, donor_email, amount_cents, currency, message, status, created_at`

func (r *postgresDonationRepository) Create(ctx context.Context, donation *models.Donation) error {
	query := `
		INSERT INTO donations (donor_name, donor_email, amount_cents, currency, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		donation.DonorName, donation.DonorEmail, donation.AmountCents,
		donation.Currency, donation.Message, donation.Status,
	).Scan(&donation.ID, &donation.CreatedAt)
}

func (r *postgresDonationRepository) GetByID(ctx context.Context, id int) (*models.Donation, error) {
	d := &models.Donation{}
	err := r.db.QueryRowContext(ctx, `SELECT `+donationColumns+` FROM donations WHERE id = $1`, id).Scan(
		&d.ID, &d.DonorName, &d.DonorEmail, &d.AmountCents, &d.Currency, &d.Message, &d.Status, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *postgresDonationRepository) List(ctx context.Context, filter ListDonationsFilter) ([]models.Donation, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argID := 1

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(donor_name ILIKE $%d OR donor_email ILIKE $%d OR message ILIKE $%d)", argID, argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Currency != nil {
		where = append(where, fmt.Sprintf("currency = $%d", argID))
		args = append(args, *filter.Currency)
		argID++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM donations WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+donationColumns+` FROM donations WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		whereClause, argID, argID+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	donations := make([]models.Donation, 0)
	for rows.Next() {
		var d models.Donation
		if err := rows.Scan(&d.ID, &d.DonorName, &d.DonorEmail, &d.AmountCents, &d.Currency, &d.Message, &d.Status, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return donations, total, nil
}

func (r *postgresDonationRepository) UpdateStatus(ctx context.Context, id int, status models.DonationStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE donations SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrDonationNotFound)
}

func (r *postgresDonationRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM donations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrDonationNotFound)
}

func (r *postgresDonationRepository) Totals(ctx context.Context) ([]DonationTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, currency, COUNT(*), COALESCE(SUM(amount_cents), 0)
		FROM donations
		GROUP BY status, currency
		ORDER BY status, currency`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]DonationTotal, 0)
	for rows.Next() {
		var t DonationTotal
		if err := rows.Scan(&t.Status, &t.Currency, &t.Count, &t.Total); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
