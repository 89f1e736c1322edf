// Package domain holds the typed identifiers and enumerations shared across
// the platform. Construct values via the Parse helpers at trust boundaries;
// direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "sharebite/pkg/domain-errors"
)

// UserID identifies a donor or claimant.
type UserID uuid.UUID

func NewUserID() UserID { return UserID(uuid.New()) }

// ParseUserID constructs a UserID from external input.
func ParseUserID(s string) (UserID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid user id")
	}
	return UserID(u), nil
}

func (id UserID) String() string { return uuid.UUID(id).String() }
func (id UserID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }

func (id UserID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// DonationID identifies a posted donation.
type DonationID uuid.UUID

func NewDonationID() DonationID { return DonationID(uuid.New()) }

// ParseDonationID constructs a DonationID from external input.
func ParseDonationID(s string) (DonationID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return DonationID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid donation id")
	}
	return DonationID(u), nil
}

func (id DonationID) String() string { return uuid.UUID(id).String() }
func (id DonationID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }

func (id DonationID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *DonationID) UnmarshalText(b []byte) error {
	parsed, err := ParseDonationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ClaimID identifies a claimant's reservation against one donation.
type ClaimID uuid.UUID

func NewClaimID() ClaimID { return ClaimID(uuid.New()) }

// ParseClaimID constructs a ClaimID from external input.
func ParseClaimID(s string) (ClaimID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ClaimID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid claim id")
	}
	return ClaimID(u), nil
}

func (id ClaimID) String() string { return uuid.UUID(id).String() }
func (id ClaimID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }

func (id ClaimID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ClaimID) UnmarshalText(b []byte) error {
	parsed, err := ParseClaimID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
