package models

import (
	"time"

	id "sharebite/pkg/domain"
	dErrors "sharebite/pkg/domain-errors"
)

// Feedback is an optional rating left by the claimant at collection time.
type Feedback struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// Validate checks the rating range.
func (f *Feedback) Validate() error {
	if f.Rating < 1 || f.Rating > 5 {
		return dErrors.New(dErrors.CodeInvalidInput, "rating must be between 1 and 5")
	}
	return nil
}

// Claim is a claimant's reservation against one donation. The (donation,
// claimant) pair is unique for all time: cancelled and expired claims stay on
// record, and the same claimant cannot retry the same donation.
type Claim struct {
	ID          id.ClaimID     `json:"id"`
	DonationID  id.DonationID  `json:"donationId"`
	Claimant    id.UserID      `json:"claimant"`
	Status      id.ClaimStatus `json:"status"`
	OTP         string         `json:"-"`
	Reason      string         `json:"reason,omitempty"`
	ClaimedAt   time.Time      `json:"claimedAt"`
	ExpiresAt   time.Time      `json:"expiresAt"`
	ConfirmedAt *time.Time     `json:"confirmedAt,omitempty"`
	CollectedAt *time.Time     `json:"collectedAt,omitempty"`
	Feedback    *Feedback      `json:"feedback,omitempty"`
}

// DeadlinePassed reports whether the confirmation window has closed.
func (c *Claim) DeadlinePassed(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
