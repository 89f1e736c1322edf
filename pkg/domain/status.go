package domain

import dErrors "sharebite/pkg/domain-errors"

// DonationStatus is the donation side of the lifecycle state machine.
// The donation record is the mutual-exclusion anchor: every status change
// goes through a compare-and-set against the expected current value.
type DonationStatus string

const (
	DonationAvailable DonationStatus = "available"
	DonationClaimed   DonationStatus = "claimed"
	DonationCollected DonationStatus = "collected"
	DonationExpired   DonationStatus = "expired"
	DonationCancelled DonationStatus = "cancelled"
)

var validDonationStatuses = map[DonationStatus]bool{
	DonationAvailable: true,
	DonationClaimed:   true,
	DonationCollected: true,
	DonationExpired:   true,
	DonationCancelled: true,
}

// ParseDonationStatus constructs a DonationStatus from external input.
func ParseDonationStatus(s string) (DonationStatus, error) {
	st := DonationStatus(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid donation status")
	}
	return st, nil
}

func (s DonationStatus) IsValid() bool {
	return validDonationStatuses[s]
}

// IsTerminal reports whether the donation can never change status again.
func (s DonationStatus) IsTerminal() bool {
	return s == DonationCollected || s == DonationExpired || s == DonationCancelled
}

func (s DonationStatus) String() string { return string(s) }

// ClaimStatus is the claim side of the lifecycle state machine.
type ClaimStatus string

const (
	ClaimPending   ClaimStatus = "pending"
	ClaimConfirmed ClaimStatus = "confirmed"
	ClaimCollected ClaimStatus = "collected"
	ClaimExpired   ClaimStatus = "expired"
	ClaimCancelled ClaimStatus = "cancelled"
)

var validClaimStatuses = map[ClaimStatus]bool{
	ClaimPending:   true,
	ClaimConfirmed: true,
	ClaimCollected: true,
	ClaimExpired:   true,
	ClaimCancelled: true,
}

// ParseClaimStatus constructs a ClaimStatus from external input.
func ParseClaimStatus(s string) (ClaimStatus, error) {
	st := ClaimStatus(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid claim status")
	}
	return st, nil
}

func (s ClaimStatus) IsValid() bool {
	return validClaimStatuses[s]
}

// IsActive reports whether the claim still holds its donation in limbo.
func (s ClaimStatus) IsActive() bool {
	return s == ClaimPending || s == ClaimConfirmed
}

// IsTerminal reports whether the claim can never change status again.
func (s ClaimStatus) IsTerminal() bool {
	return s == ClaimCollected || s == ClaimExpired || s == ClaimCancelled
}

func (s ClaimStatus) String() string { return string(s) }
