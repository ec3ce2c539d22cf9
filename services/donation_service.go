package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
)

type CreateDonationInput struct {
	DonorName   string `json:"donor_name"`
	DonorEmail  string `json:"donor_email"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Message     string `json:"message"`
}

type DonationService interface {
	Create(ctx context.Context, input CreateDonationInput) (*models.Donation, error)
	GetByID(ctx context.Context, id int) (*models.Donation, error)
	List(ctx context.Context, filter repositories.ListDonationsFilter) ([]models.Donation, int, error)
	UpdateStatus(ctx context.Context, id int, status models.DonationStatus, actorID *int) (*models.Donation, error)
	Totals(ctx context.Context) ([]repositories.DonationTotal, error)
}

type donationService struct {
	donationRepo repositories.DonationRepository
	audit        AuditService
}

func NewDonationService(donationRepo repositories.DonationRepository, audit AuditService) DonationService {
	return &donationService{
		donationRepo: donationRepo,
		audit:        audit,
	}
}

func (s *donationService) Create(ctx context.Context, input CreateDonationInput) (*models.Donation, error) {
	if input.DonorName == "" || input.AmountCents <= 0 {
		return nil, ErrInvalidDonation
	}
	if input.Currency == "" {
		input.Currency = "USD"
	}

	donation := &models.Donation{
		DonorName:   input.DonorName,
		DonorEmail:  input.DonorEmail,
		AmountCents: input.AmountCents,
		Currency:    input.Currency,
		Message:     input.Message,
		Status:      models.DonationPending,
	}

	if err := s.donationRepo.Create(ctx, donation); err != nil {
		return nil, err
	}
	return donation, nil
}

func (s *donationService) GetByID(ctx context.Context, id int) (*models.Donation, error) {
	donation, err := s.donationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrDonationNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}
	return donation, nil
}

func (s *donationService) List(ctx context.Context, filter repositories.ListDonationsFilter) ([]models.Donation, int, error) {
	filter.ListParams = repositories.NormalizeListParams(filter.ListParams)
	return s.donationRepo.List(ctx, filter)
}

func (s *donationService) UpdateStatus(ctx context.Context, id int, status models.DonationStatus, actorID *int) (*models.Donation, error) {
	if !models.ValidDonationStatus(status) {
		return nil, ErrInvalidDonationState
	}

	donation, err := s.donationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrDonationNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}

	if err := s.donationRepo.UpdateStatus(ctx, donation.ID, status); err != nil {
		return nil, err
	}
	donation.Status = status

	s.audit.Record(ctx, AuditEntry{
		Title:       "donation status changed",
		Description: fmt.Sprintf("donation %d marked %s", donation.ID, status),
		Severity:    models.SeverityInfo,
		Metadata:    map[string]interface{}{"donation_id": donation.ID, "status": string(status)},
		UserID:      actorID,
	})

	return donation, nil
}

func (s *donationService) Totals(ctx context.Context) ([]repositories.DonationTotal, error) {
	return s.donationRepo.Totals(ctx)
}
