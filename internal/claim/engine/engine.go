// Package engine orchestrates the claim/donation lifecycle state machine.
// Every state change in the system — user-driven or sweeper-driven — goes
// through exactly one transition method here, and every transition performs
// its writes through the stores' compare-and-set primitive. A false
// compare-and-set is never retried silently; it surfaces as a conflict.
package engine

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sharebite/internal/audit"
	claimmodels "sharebite/internal/claim/models"
	claimstore "sharebite/internal/claim/store"
	donationmodels "sharebite/internal/donation/models"
	donationstore "sharebite/internal/donation/store"
	"sharebite/internal/events"
	"sharebite/internal/otp"
	"sharebite/internal/platform/metrics"
	usermodels "sharebite/internal/user/models"
	userstore "sharebite/internal/user/store"
	id "sharebite/pkg/domain"
	dErrors "sharebite/pkg/domain-errors"
	"sharebite/pkg/requestcontext"
)

// Engine owns the lifecycle spanning a donation and its claims. It holds no
// locks: the donation record is the mutual-exclusion anchor, and each
// transition is a single atomic round trip per store.
type Engine struct {
	donations donationstore.Store
	claims    claimstore.Store
	users     userstore.Store
	otp       otp.Generator
	broker    events.Broker
	audit     *audit.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
	claimTTL  time.Duration
}

func New(
	donations donationstore.Store,
	claims claimstore.Store,
	users userstore.Store,
	generator otp.Generator,
	broker events.Broker,
	auditPub *audit.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	claimTTL time.Duration,
) *Engine {
	return &Engine{
		donations: donations,
		claims:    claims,
		users:     users,
		otp:       generator,
		broker:    broker,
		audit:     auditPub,
		metrics:   m,
		logger:    logger,
		tracer:    otel.Tracer("sharebite/claim-engine"),
		claimTTL:  claimTTL,
	}
}

// CreateClaimResult is returned to the claimant; the OTP appears here and on
// the claimant's private event channel, nowhere else.
type CreateClaimResult struct {
	Claim            *claimmodels.Claim `json:"claim"`
	OTP              string             `json:"otp"`
	ExpiresInMinutes int                `json:"expiresInMinutes"`
}

// CreateClaim reserves an available donation exclusively for the claimant.
// Exactly one of N racing callers wins the donation's available→claimed
// compare-and-set; the rest get a conflict.
func (e *Engine) CreateClaim(ctx context.Context, donationID id.DonationID, claimant id.UserID, reason string) (*CreateClaimResult, error) {
	ctx, span := e.tracer.Start(ctx, "engine.CreateClaim",
		trace.WithAttributes(attribute.String("donation_id", donationID.String())))
	defer span.End()

	d, err := e.donations.FindByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if d.Donor == claimant {
		return nil, dErrors.New(dErrors.CodeForbidden, "cannot claim your own donation")
	}

	now := requestcontext.Now(ctx)
	if d.Status != id.DonationAvailable {
		return nil, dErrors.New(dErrors.CodeConflict, "donation is not available")
	}
	if now.After(d.ExpiryDate) {
		return nil, dErrors.New(dErrors.CodeConflict, "donation has expired")
	}

	code, err := e.otp.Code()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "generate verification code")
	}

	claim := &claimmodels.Claim{
		ID:         id.NewClaimID(),
		DonationID: donationID,
		Claimant:   claimant,
		Status:     id.ClaimPending,
		OTP:        code,
		Reason:     reason,
		ClaimedAt:  now,
		ExpiresAt:  now.Add(e.claimTTL),
	}
	if err := e.claims.Create(ctx, claim); err != nil {
		return nil, err
	}

	claimedAt := now
	won, err := e.donations.CompareAndSetStatus(ctx, donationID, id.DonationAvailable, donationstore.StatusPatch{
		Status:    id.DonationClaimed,
		ClaimedBy: &claimant,
		ClaimedAt: &claimedAt,
		OTP:       code,
	})
	if err != nil {
		e.compensateClaim(ctx, claim.ID)
		return nil, err
	}
	if !won {
		// Lost the race; release the claim row so the pair can be retried
		// once the donation is available again.
		e.compensateClaim(ctx, claim.ID)
		e.metrics.IncCASConflict()
		return nil, dErrors.New(dErrors.CodeConflict, "donation was claimed by someone else")
	}

	d.Status = id.DonationClaimed
	d.ClaimedBy = &claimant
	d.ClaimedAt = &claimedAt
	d.OTP = code

	e.publish(ctx, events.DonationClaimed{Donation: d, Claim: claim})
	e.publish(ctx, events.ClaimCreated{Claim: claim, OTP: code})
	e.emitAudit(ctx, audit.Event{
		Actor:      claimant,
		Action:     audit.ActionClaimCreated,
		DonationID: donationID.String(),
		ClaimID:    claim.ID.String(),
	})
	e.metrics.IncClaimsCreated()
	e.metrics.IncTransition("create")

	return &CreateClaimResult{
		Claim:            claim,
		OTP:              code,
		ExpiresInMinutes: int(e.claimTTL.Minutes()),
	}, nil
}

// ConfirmPickup is the donor's verification of the claimant's code. A wrong
// code is retryable until the deadline; a missed deadline expires the claim
// as a side effect and wins over a matching code.
func (e *Engine) ConfirmPickup(ctx context.Context, claimID id.ClaimID, donor id.UserID, code string) (*claimmodels.Claim, error) {
	ctx, span := e.tracer.Start(ctx, "engine.ConfirmPickup",
		trace.WithAttributes(attribute.String("claim_id", claimID.String())))
	defer span.End()

	c, err := e.claims.FindByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	d, err := e.donations.FindByID(ctx, c.DonationID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "claim references missing donation")
	}
	if d.Donor != donor {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the donor can confirm pickup")
	}
	if c.Status != id.ClaimPending {
		return nil, dErrors.New(dErrors.CodeConflict, "claim is not pending")
	}

	now := requestcontext.Now(ctx)
	if c.DeadlinePassed(now) {
		// Lazy expiry: the window's closure takes precedence even over a
		// matching code.
		if _, err := e.expireClaim(ctx, c, now); err != nil {
			e.logger.ErrorContext(ctx, "lazy expiry failed",
				"claim_id", claimID.String(), "error", err.Error())
		}
		return nil, dErrors.New(dErrors.CodeExpired, "claim window has closed")
	}

	if code != c.OTP {
		e.emitAudit(ctx, audit.Event{
			Actor:      donor,
			Action:     audit.ActionConfirmFailed,
			DonationID: c.DonationID.String(),
			ClaimID:    claimID.String(),
		})
		return nil, dErrors.New(dErrors.CodeInvalidCode, "verification code does not match")
	}

	confirmedAt := now
	won, err := e.claims.CompareAndSetStatus(ctx, claimID, id.ClaimPending, claimstore.StatusPatch{
		Status:      id.ClaimConfirmed,
		ConfirmedAt: &confirmedAt,
	})
	if err != nil {
		return nil, err
	}
	if !won {
		e.metrics.IncCASConflict()
		return nil, dErrors.New(dErrors.CodeConflict, "claim state changed, re-fetch and retry")
	}

	c.Status = id.ClaimConfirmed
	c.ConfirmedAt = &confirmedAt

	e.publish(ctx, events.PickupConfirmed{Claim: c, Donor: donor})
	e.emitAudit(ctx, audit.Event{
		Actor:      donor,
		Action:     audit.ActionPickupConfirmed,
		DonationID: c.DonationID.String(),
		ClaimID:    claimID.String(),
	})
	e.metrics.IncTransition("confirm")

	return c, nil
}

// MarkCollected completes the handoff. Optional feedback updates the donor's
// integrity score.
func (e *Engine) MarkCollected(ctx context.Context, claimID id.ClaimID, claimant id.UserID, feedback *claimmodels.Feedback) (*claimmodels.Claim, error) {
	ctx, span := e.tracer.Start(ctx, "engine.MarkCollected",
		trace.WithAttributes(attribute.String("claim_id", claimID.String())))
	defer span.End()

	c, err := e.claims.FindByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if c.Claimant != claimant {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the claimant can mark collection")
	}
	if feedback != nil {
		if err := feedback.Validate(); err != nil {
			return nil, err
		}
	}
	if c.Status != id.ClaimConfirmed {
		return nil, dErrors.New(dErrors.CodeConflict, "pickup has not been confirmed")
	}
	d, err := e.donations.FindByID(ctx, c.DonationID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "claim references missing donation")
	}

	now := requestcontext.Now(ctx)
	collectedAt := now
	won, err := e.claims.CompareAndSetStatus(ctx, claimID, id.ClaimConfirmed, claimstore.StatusPatch{
		Status:      id.ClaimCollected,
		CollectedAt: &collectedAt,
		Feedback:    feedback,
	})
	if err != nil {
		return nil, err
	}
	if !won {
		e.metrics.IncCASConflict()
		return nil, dErrors.New(dErrors.CodeConflict, "claim state changed, re-fetch and retry")
	}

	donationWon, err := e.donations.CompareAndSetStatus(ctx, c.DonationID, id.DonationClaimed, donationstore.StatusPatch{
		Status:      id.DonationCollected,
		CollectedAt: &collectedAt,
	})
	if err != nil {
		return nil, err
	}
	if !donationWon {
		e.logger.WarnContext(ctx, "donation left claimed state before collection patch",
			"donation_id", c.DonationID.String(), "claim_id", claimID.String())
	}

	c.Status = id.ClaimCollected
	c.CollectedAt = &collectedAt
	c.Feedback = feedback

	if feedback != nil {
		e.applyDonorRating(ctx, d.Donor, feedback.Rating)
	}

	e.publish(ctx, events.DonationCollected{Claim: c, Donor: d.Donor})
	e.emitAudit(ctx, audit.Event{
		Actor:      claimant,
		Action:     audit.ActionClaimCollected,
		DonationID: c.DonationID.String(),
		ClaimID:    claimID.String(),
	})
	e.metrics.IncTransition("collect")

	return c, nil
}

// CancelClaim releases an active claim and returns the donation to the pool.
func (e *Engine) CancelClaim(ctx context.Context, claimID id.ClaimID, claimant id.UserID) error {
	ctx, span := e.tracer.Start(ctx, "engine.CancelClaim",
		trace.WithAttributes(attribute.String("claim_id", claimID.String())))
	defer span.End()

	c, err := e.claims.FindByID(ctx, claimID)
	if err != nil {
		return err
	}
	if c.Claimant != claimant {
		return dErrors.New(dErrors.CodeForbidden, "only the claimant can cancel this claim")
	}
	if !c.Status.IsActive() {
		if c.Status == id.ClaimCollected {
			return dErrors.New(dErrors.CodeConflict, "donation was already collected")
		}
		return dErrors.New(dErrors.CodeConflict, "claim is no longer active")
	}

	won, err := e.claims.CompareAndSetStatus(ctx, claimID, c.Status, claimstore.StatusPatch{
		Status: id.ClaimCancelled,
	})
	if err != nil {
		return err
	}
	if !won {
		e.metrics.IncCASConflict()
		return dErrors.New(dErrors.CodeConflict, "claim state changed, re-fetch and retry")
	}

	d := e.releaseDonation(ctx, c.DonationID)
	if d != nil {
		e.publish(ctx, events.ClaimCancelled{Donation: d, Claimant: claimant})
		e.publish(ctx, events.DonationStatusUpdated{Donation: d})
	}
	e.emitAudit(ctx, audit.Event{
		Actor:      claimant,
		Action:     audit.ActionClaimCancelled,
		DonationID: c.DonationID.String(),
		ClaimID:    claimID.String(),
	})
	e.metrics.IncTransition("cancel")

	return nil
}

// GetClaim returns a claim to one of its two parties.
func (e *Engine) GetClaim(ctx context.Context, claimID id.ClaimID, caller id.UserID) (*claimmodels.Claim, error) {
	c, err := e.claims.FindByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if c.Claimant == caller {
		return c, nil
	}
	d, err := e.donations.FindByID(ctx, c.DonationID)
	if err == nil && d.Donor == caller {
		return c, nil
	}
	return nil, dErrors.New(dErrors.CodeForbidden, "not a party to this claim")
}

// ListClaims returns the caller's own claims.
func (e *Engine) ListClaims(ctx context.Context, claimant id.UserID) ([]*claimmodels.Claim, error) {
	return e.claims.List(ctx, claimstore.ListFilter{Claimant: claimant})
}

// ExpireDueClaims forces every pending claim past its deadline through the
// expire transition. Idempotent: claims already expired are skipped, and a
// lost compare-and-set counts as someone else having done the work.
func (e *Engine) ExpireDueClaims(ctx context.Context, now time.Time) (int, error) {
	ctx, span := e.tracer.Start(ctx, "engine.ExpireDueClaims")
	defer span.End()

	due, err := e.claims.ListPendingExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, c := range due {
		won, err := e.expireClaim(ctx, c, now)
		if err != nil {
			e.logger.ErrorContext(ctx, "expire claim failed",
				"claim_id", c.ID.String(), "error", err.Error())
			continue
		}
		if won {
			expired++
		}
	}
	return expired, nil
}

// ExpireDueDonations expires available donations past their expiry date.
// Claimed donations ride out their claim's window first so the per-donation
// transition chain stays totally ordered.
func (e *Engine) ExpireDueDonations(ctx context.Context, now time.Time) (int, error) {
	ctx, span := e.tracer.Start(ctx, "engine.ExpireDueDonations")
	defer span.End()

	due, err := e.donations.ListExpiredAvailable(ctx, now)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, d := range due {
		won, err := e.donations.CompareAndSetStatus(ctx, d.ID, id.DonationAvailable, donationstore.StatusPatch{
			Status: id.DonationExpired,
		})
		if err != nil {
			e.logger.ErrorContext(ctx, "expire donation failed",
				"donation_id", d.ID.String(), "error", err.Error())
			continue
		}
		if !won {
			continue
		}
		d.Status = id.DonationExpired
		e.publish(ctx, events.DonationStatusUpdated{Donation: d})
		e.emitAudit(ctx, audit.Event{
			Actor:      d.Donor,
			Action:     audit.ActionDonationExpired,
			DonationID: d.ID.String(),
		})
		expired++
	}
	return expired, nil
}

// expireClaim is the single expiry path shared by the sweeper and the lazy
// check on confirm. Returns true only for the caller that won the transition.
func (e *Engine) expireClaim(ctx context.Context, c *claimmodels.Claim, now time.Time) (bool, error) {
	if c.Status != id.ClaimPending || !c.DeadlinePassed(now) {
		return false, nil
	}
	won, err := e.claims.CompareAndSetStatus(ctx, c.ID, id.ClaimPending, claimstore.StatusPatch{
		Status: id.ClaimExpired,
	})
	if err != nil {
		return false, err
	}
	if !won {
		// Someone else expired or confirmed it first; nothing more to do.
		return false, nil
	}

	d := e.releaseDonation(ctx, c.DonationID)
	if d != nil {
		e.publish(ctx, events.DonationStatusUpdated{Donation: d})
	}
	e.emitAudit(ctx, audit.Event{
		Actor:      c.Claimant,
		Action:     audit.ActionClaimExpired,
		DonationID: c.DonationID.String(),
		ClaimID:    c.ID.String(),
	})
	e.metrics.IncTransition("expire")
	return true, nil
}

// releaseDonation returns a donation to available, clearing the lifecycle
// fields. Returns the refreshed donation for event payloads, or nil when the
// donation was not in claimed state (already released or collected).
func (e *Engine) releaseDonation(ctx context.Context, donationID id.DonationID) *donationmodels.Donation {
	won, err := e.donations.CompareAndSetStatus(ctx, donationID, id.DonationClaimed, donationstore.StatusPatch{
		Status: id.DonationAvailable,
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "release donation failed",
			"donation_id", donationID.String(), "error", err.Error())
		return nil
	}
	if !won {
		e.logger.WarnContext(ctx, "donation was not claimed during release",
			"donation_id", donationID.String())
		return nil
	}
	d, err := e.donations.FindByID(ctx, donationID)
	if err != nil {
		e.logger.ErrorContext(ctx, "reload donation after release failed",
			"donation_id", donationID.String(), "error", err.Error())
		return nil
	}
	return d
}

func (e *Engine) applyDonorRating(ctx context.Context, donor id.UserID, rating int) {
	u, err := e.users.FindByID(ctx, donor)
	if err != nil {
		e.logger.WarnContext(ctx, "donor lookup for rating failed",
			"donor_id", donor.String(), "error", err.Error())
		return
	}
	newScore := usermodels.ApplyRating(u.IntegrityScore, rating)
	if err := e.users.UpdateIntegrityScore(ctx, donor, newScore); err != nil {
		e.logger.WarnContext(ctx, "integrity score update failed",
			"donor_id", donor.String(), "error", err.Error())
	}
}

func (e *Engine) compensateClaim(ctx context.Context, claimID id.ClaimID) {
	if err := e.claims.Delete(context.WithoutCancel(ctx), claimID); err != nil {
		e.logger.ErrorContext(ctx, "claim compensation delete failed",
			"claim_id", claimID.String(), "error", err.Error())
	}
}

// publish is best-effort: fan-out failure never fails a committed transition.
func (e *Engine) publish(ctx context.Context, event events.Event) {
	if err := e.broker.Publish(ctx, event); err != nil {
		e.logger.WarnContext(ctx, "event publish failed",
			"event", event.Name(), "error", err.Error())
	}
}

func (e *Engine) emitAudit(ctx context.Context, event audit.Event) {
	if e.audit == nil {
		return
	}
	if err := e.audit.Emit(ctx, event); err != nil {
		e.logger.WarnContext(ctx, "audit emit failed",
			"action", string(event.Action), "error", err.Error())
	}
}
