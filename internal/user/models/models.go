package models

import (
	"math"
	"time"

	id "sharebite/pkg/domain"
)

// User is the platform's view of a donor or claimant. Authentication lives
// with the identity collaborator; this record carries profile and reputation.
type User struct {
	ID             id.UserID `json:"id"`
	Name           string    `json:"name"`
	City           string    `json:"city"`
	Role           string    `json:"role"`
	IntegrityScore float64   `json:"integrityScore"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ApplyRating folds one pickup rating into a donor's integrity score using a
// weighted average against an assumed history of ten prior ratings:
// round10((score*10 + rating) / 11). The divisor is intentional smoothing and
// must not be "corrected".
func ApplyRating(score float64, rating int) float64 {
	return math.Round((score*10+float64(rating))/11*10) / 10
}
