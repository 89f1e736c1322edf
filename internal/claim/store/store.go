package store

import (
	"context"
	"time"

	"sharebite/internal/claim/models"
	id "sharebite/pkg/domain"
	dErrors "sharebite/pkg/domain-errors"
)

var (
	// ErrNotFound keeps store-level 404s consistent across implementations.
	ErrNotFound = dErrors.New(dErrors.CodeNotFound, "claim not found")
	// ErrDuplicateClaim enforces one claim per (donation, claimant) pair.
	ErrDuplicateClaim = dErrors.New(dErrors.CodeDuplicateClaim, "claimant already has a claim for this donation")
)

// ListFilter narrows List results. Zero values mean "any".
type ListFilter struct {
	Claimant id.UserID
	Donation id.DonationID
	Status   id.ClaimStatus
}

// StatusPatch is the set of fields written by a successful claim transition.
type StatusPatch struct {
	Status      id.ClaimStatus
	ConfirmedAt *time.Time
	CollectedAt *time.Time
	Feedback    *models.Feedback
}

// Store persists claims. Create fails with ErrDuplicateClaim when the
// (donation, claimant) pair already exists; CompareAndSetStatus applies the
// patch only when the stored status equals expected.
type Store interface {
	Create(ctx context.Context, claim *models.Claim) error
	FindByID(ctx context.Context, claimID id.ClaimID) (*models.Claim, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Claim, error)
	CompareAndSetStatus(ctx context.Context, claimID id.ClaimID, expected id.ClaimStatus, patch StatusPatch) (bool, error)
	ListPendingExpired(ctx context.Context, now time.Time) ([]*models.Claim, error)
	Delete(ctx context.Context, claimID id.ClaimID) error
}
