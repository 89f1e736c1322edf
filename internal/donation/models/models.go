package models

import (
	"time"

	id "sharebite/pkg/domain"
	dErrors "sharebite/pkg/domain-errors"
)

// PickupWindow is the donor-specified range during which physical collection
// may occur. It is independent of the claim's confirmation deadline.
type PickupWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Location pins a donation to a pickup point. City doubles as the fan-out's
// location channel key.
type Location struct {
	Address string  `json:"address"`
	City    string  `json:"city"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Donation is a posted surplus item available for pickup.
//
// Invariant: ClaimedBy and OTP are set iff Status == claimed; every exit from
// claimed except collected clears both. Lifecycle fields change only through
// the store's compare-and-set, never through the CRUD update path.
type Donation struct {
	ID             id.DonationID     `json:"id"`
	Donor          id.UserID         `json:"donor"`
	Category       id.Category       `json:"category"`
	Description    string            `json:"description"`
	Quantity       float64           `json:"quantity"`
	Unit           string            `json:"unit"`
	ExpiryDate     time.Time         `json:"expiryDate"`
	PickupWindow   PickupWindow      `json:"pickupWindow"`
	Location       Location          `json:"location"`
	Status         id.DonationStatus `json:"status"`
	ClaimedBy      *id.UserID        `json:"claimedBy,omitempty"`
	ClaimedAt      *time.Time        `json:"claimedAt,omitempty"`
	OTP            string            `json:"-"`
	EstimatedValue float64           `json:"estimatedValue"`
	CollectedAt    *time.Time        `json:"collectedAt,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// EstimatedValue computes quantity * the category's base rate.
func EstimatedValue(category id.Category, quantity float64) float64 {
	return quantity * category.BaseRate()
}

// Validate checks the fields a donor controls at create/update time.
func (d *Donation) Validate(now time.Time) error {
	if !d.Category.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid category")
	}
	if d.Quantity <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "quantity must be positive")
	}
	if d.Unit == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "unit is required")
	}
	if !d.ExpiryDate.After(now) {
		return dErrors.New(dErrors.CodeInvalidInput, "expiry date must be in the future")
	}
	if !d.PickupWindow.End.After(d.PickupWindow.Start) {
		return dErrors.New(dErrors.CodeInvalidInput, "pickup window end must be after start")
	}
	if d.Location.City == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "city is required")
	}
	if d.Location.Lat < -90 || d.Location.Lat > 90 || d.Location.Lng < -180 || d.Location.Lng > 180 {
		return dErrors.New(dErrors.CodeInvalidInput, "coordinates out of range")
	}
	return nil
}
