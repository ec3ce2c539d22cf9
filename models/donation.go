package models

import "time"

type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationConfirmed DonationStatus = "confirmed"
	DonationRefunded  DonationStatus = "refunded"
)

func ValidDonationStatus(s DonationStatus) bool {
	switch s {
	case DonationPending, DonationConfirmed, DonationRefunded:
		return true
	}
	return false
}

type Donation struct {
	ID          int            `json:"id" db:"id"`
	DonorName   string         `json:"donor_name" db:"donor_name"`
	DonorEmail  string         `json:"donor_email" db:"donor_email"`
	AmountCents int64          `json:"amount_cents" db:"amount_cents"`
	Currency    string         `json:"currency" db:"currency"`
	Message     string         `json:"message" db:"message"`
	Status      DonationStatus `json:"status" db:"status"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}
