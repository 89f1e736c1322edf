package audit

import (
	"time"

	id "sharebite/pkg/domain"
)

// Action names the lifecycle step an audit event records.
type Action string

const (
	ActionDonationCreated   Action = "donation_created"
	ActionDonationUpdated   Action = "donation_updated"
	ActionDonationCancelled Action = "donation_cancelled"
	ActionDonationExpired   Action = "donation_expired"
	ActionClaimCreated      Action = "claim_created"
	ActionPickupConfirmed   Action = "pickup_confirmed"
	ActionConfirmFailed     Action = "confirm_failed"
	ActionClaimCollected    Action = "claim_collected"
	ActionClaimCancelled    Action = "claim_cancelled"
	ActionClaimExpired      Action = "claim_expired"
)

// Event is one append-only audit record. Claims are never hard-deleted, so
// the trail plus the claim history reconstructs every handoff attempt.
type Event struct {
	Actor      id.UserID         `json:"actor"`
	Action     Action            `json:"action"`
	DonationID string            `json:"donationId,omitempty"`
	ClaimID    string            `json:"claimId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	ClientIP   string            `json:"clientIp,omitempty"`
	UserAgent  string            `json:"userAgent,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}
