// Package service implements the donor-facing donation operations: posting,
// browsing, editing and cancelling. Lifecycle transitions driven by claims
// live in the claim engine, not here; this package can only ever touch the
// donor-editable fields and the available→cancelled edge.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sharebite/internal/audit"
	"sharebite/internal/donation/models"
	"sharebite/internal/donation/store"
	"sharebite/internal/events"
	"sharebite/internal/platform/metrics"
	id "sharebite/pkg/domain"
	dErrors "sharebite/pkg/domain-errors"
	"sharebite/pkg/requestcontext"
)

type Service struct {
	store   store.Store
	broker  events.Broker
	audit   *audit.Publisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

func New(st store.Store, broker events.Broker, auditPub *audit.Publisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:   st,
		broker:  broker,
		audit:   auditPub,
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer("sharebite/donation-service"),
	}
}

// CreateInput carries the donor-supplied fields of a new donation.
type CreateInput struct {
	Category     id.Category         `json:"category"`
	Description  string              `json:"description"`
	Quantity     float64             `json:"quantity"`
	Unit         string              `json:"unit"`
	ExpiryDate   time.Time           `json:"expiryDate"`
	PickupWindow models.PickupWindow `json:"pickupWindow"`
	Location     models.Location     `json:"location"`
}

// Create posts a new donation in available state. The estimated value is
// derived server-side and never accepted from the client.
func (s *Service) Create(ctx context.Context, donor id.UserID, input CreateInput) (*models.Donation, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreateDonation")
	defer span.End()

	now := requestcontext.Now(ctx)
	d := &models.Donation{
		ID:             id.NewDonationID(),
		Donor:          donor,
		Category:       input.Category,
		Description:    input.Description,
		Quantity:       input.Quantity,
		Unit:           input.Unit,
		ExpiryDate:     input.ExpiryDate,
		PickupWindow:   input.PickupWindow,
		Location:       input.Location,
		Status:         id.DonationAvailable,
		EstimatedValue: models.EstimatedValue(input.Category, input.Quantity),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := d.Validate(now); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("donation_id", d.ID.String()))

	s.publish(ctx, events.NewDonation{Donation: d})
	s.emitAudit(ctx, audit.Event{
		Actor:      donor,
		Action:     audit.ActionDonationCreated,
		DonationID: d.ID.String(),
	})
	s.metrics.IncDonationsCreated()

	return d, nil
}

// Get returns one donation. Donations are publicly readable; the OTP never
// serializes, so there is nothing to hide per caller.
func (s *Service) Get(ctx context.Context, donationID id.DonationID) (*models.Donation, error) {
	return s.store.FindByID(ctx, donationID)
}

// List returns donations matching the filter.
func (s *Service) List(ctx context.Context, filter store.ListFilter) ([]*models.Donation, error) {
	return s.store.List(ctx, filter)
}

// Update edits the donor-editable fields of an available donation. The patch
// cannot express status, claimant or code fields, so the claim lifecycle is
// structurally out of reach here.
func (s *Service) Update(ctx context.Context, donationID id.DonationID, donor id.UserID, patch store.DetailsPatch) (*models.Donation, error) {
	ctx, span := s.tracer.Start(ctx, "service.UpdateDonation",
		trace.WithAttributes(attribute.String("donation_id", donationID.String())))
	defer span.End()

	d, err := s.store.FindByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if d.Donor != donor {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the donor can edit a donation")
	}
	if d.Status != id.DonationAvailable {
		return nil, dErrors.New(dErrors.CodeConflict, "only available donations can be edited")
	}

	applyDetails(d, patch)
	now := requestcontext.Now(ctx)
	if err := d.Validate(now); err != nil {
		return nil, err
	}
	d.EstimatedValue = models.EstimatedValue(d.Category, d.Quantity)
	d.UpdatedAt = now

	if err := s.store.UpdateDetails(ctx, donationID, patch, d.EstimatedValue); err != nil {
		return nil, err
	}

	s.publish(ctx, events.DonationStatusUpdated{Donation: d})
	s.emitAudit(ctx, audit.Event{
		Actor:      donor,
		Action:     audit.ActionDonationUpdated,
		DonationID: donationID.String(),
	})

	return d, nil
}

// Cancel withdraws an available donation. Claimed donations cannot be pulled
// out from under a claimant; the donor waits for the claim to resolve.
func (s *Service) Cancel(ctx context.Context, donationID id.DonationID, donor id.UserID) error {
	ctx, span := s.tracer.Start(ctx, "service.CancelDonation",
		trace.WithAttributes(attribute.String("donation_id", donationID.String())))
	defer span.End()

	d, err := s.store.FindByID(ctx, donationID)
	if err != nil {
		return err
	}
	if d.Donor != donor {
		return dErrors.New(dErrors.CodeForbidden, "only the donor can cancel a donation")
	}

	won, err := s.store.CompareAndSetStatus(ctx, donationID, id.DonationAvailable, store.StatusPatch{
		Status: id.DonationCancelled,
	})
	if err != nil {
		return err
	}
	if !won {
		s.metrics.IncCASConflict()
		return dErrors.New(dErrors.CodeConflict, "donation is not available")
	}

	d.Status = id.DonationCancelled
	s.publish(ctx, events.DonationStatusUpdated{Donation: d})
	s.emitAudit(ctx, audit.Event{
		Actor:      donor,
		Action:     audit.ActionDonationCancelled,
		DonationID: donationID.String(),
	})

	return nil
}

func applyDetails(d *models.Donation, patch store.DetailsPatch) {
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.Quantity != nil {
		d.Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		d.Unit = *patch.Unit
	}
	if patch.ExpiryDate != nil {
		d.ExpiryDate = *patch.ExpiryDate
	}
	if patch.PickupWindow != nil {
		d.PickupWindow = *patch.PickupWindow
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.broker.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "event publish failed",
			"event", event.Name(), "error", err.Error())
	}
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", string(event.Action), "error", err.Error())
	}
}
