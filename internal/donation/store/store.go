package store

import (
	"context"
	"time"

	"sharebite/internal/donation/models"
	id "sharebite/pkg/domain"
	dErrors "sharebite/pkg/domain-errors"
)

// ErrNotFound keeps store-level 404s consistent across implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "donation not found")

// ListFilter narrows List results. Zero values mean "any".
type ListFilter struct {
	Status   id.DonationStatus
	Category id.Category
	City     string
	Donor    id.UserID
}

// StatusPatch is the full set of lifecycle fields written by a successful
// compare-and-set. Nil pointers clear the corresponding column; lifecycle
// state is always replaced wholesale, never merged.
type StatusPatch struct {
	Status      id.DonationStatus
	ClaimedBy   *id.UserID
	ClaimedAt   *time.Time
	OTP         string
	CollectedAt *time.Time
}

// DetailsPatch covers the donor-editable fields. The CRUD update path can
// only ever write these; status-bearing fields are unreachable from here.
type DetailsPatch struct {
	Description  *string
	Quantity     *float64
	Unit         *string
	ExpiryDate   *time.Time
	PickupWindow *models.PickupWindow
}

// Store persists donations. CompareAndSetStatus is the concurrency primitive
// the whole lifecycle rests on: it applies the patch only when the stored
// status equals expected, atomically, and reports whether it won.
type Store interface {
	Create(ctx context.Context, donation *models.Donation) error
	FindByID(ctx context.Context, donationID id.DonationID) (*models.Donation, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Donation, error)
	CompareAndSetStatus(ctx context.Context, donationID id.DonationID, expected id.DonationStatus, patch StatusPatch) (bool, error)
	UpdateDetails(ctx context.Context, donationID id.DonationID, patch DetailsPatch, estimatedValue float64) error
	ListExpiredAvailable(ctx context.Context, now time.Time) ([]*models.Donation, error)
}
