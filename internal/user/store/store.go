package store

import (
	"context"

	"sharebite/internal/user/models"
	id "sharebite/pkg/domain"
	dErrors "sharebite/pkg/domain-errors"
)

// ErrNotFound keeps store-level 404s consistent across implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "user not found")

// Store persists user records. Interface-driven so the engine stays testable
// without a database.
type Store interface {
	Save(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	UpdateIntegrityScore(ctx context.Context, userID id.UserID, score float64) error
}
