package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	claimengine "sharebite/internal/claim/engine"
	claimmodels "sharebite/internal/claim/models"
	"sharebite/internal/sweeper"
	"sharebite/internal/transport/http/shared"
	id "sharebite/pkg/domain"
	dErrors "sharebite/pkg/domain-errors"
	"sharebite/pkg/requestcontext"
)

// ClaimEngine defines the lifecycle operations the transport needs.
type ClaimEngine interface {
	CreateClaim(ctx context.Context, donationID id.DonationID, claimant id.UserID, reason string) (*claimengine.CreateClaimResult, error)
	ConfirmPickup(ctx context.Context, claimID id.ClaimID, donor id.UserID, code string) (*claimmodels.Claim, error)
	MarkCollected(ctx context.Context, claimID id.ClaimID, claimant id.UserID, feedback *claimmodels.Feedback) (*claimmodels.Claim, error)
	CancelClaim(ctx context.Context, claimID id.ClaimID, claimant id.UserID) error
	GetClaim(ctx context.Context, claimID id.ClaimID, caller id.UserID) (*claimmodels.Claim, error)
	ListClaims(ctx context.Context, claimant id.UserID) ([]*claimmodels.Claim, error)
}

// SweepRunner triggers one expiry pass on demand.
type SweepRunner interface {
	Sweep(ctx context.Context) (sweeper.Result, error)
}

type claimHandler struct {
	engine  ClaimEngine
	sweeper SweepRunner
	logger  *slog.Logger
}

type createClaimRequest struct {
	DonationID string `json:"donationId"`
	Reason     string `json:"reason"`
}

func (h *claimHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claimant, ok := authenticatedUser(ctx, h.logger, w)
	if !ok {
		return
	}

	var req createClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	donationID, err := id.ParseDonationID(req.DonationID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	res, err := h.engine.CreateClaim(ctx, donationID, claimant, req.Reason)
	if err != nil {
		h.logError(ctx, "create claim failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, res)
}

func (h *claimHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claimant, ok := authenticatedUser(ctx, h.logger, w)
	if !ok {
		return
	}

	claims, err := h.engine.ListClaims(ctx, claimant)
	if err != nil {
		h.logError(ctx, "list claims failed", err)
		shared.WriteError(w, err)
		return
	}
	if claims == nil {
		claims = []*claimmodels.Claim{}
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"claims": claims})
}

func (h *claimHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := authenticatedUser(ctx, h.logger, w)
	if !ok {
		return
	}
	claimID, err := id.ParseClaimID(chi.URLParam(r, "claimID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	c, err := h.engine.GetClaim(ctx, claimID, caller)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, c)
}

type confirmRequest struct {
	Code string `json:"code"`
}

func (h *claimHandler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donor, ok := authenticatedUser(ctx, h.logger, w)
	if !ok {
		return
	}
	claimID, err := id.ParseClaimID(chi.URLParam(r, "claimID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	c, err := h.engine.ConfirmPickup(ctx, claimID, donor, req.Code)
	if err != nil {
		h.logError(ctx, "confirm pickup failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, c)
}

type collectRequest struct {
	Feedback *claimmodels.Feedback `json:"feedback"`
}

func (h *claimHandler) handleCollect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claimant, ok := authenticatedUser(ctx, h.logger, w)
	if !ok {
		return
	}
	claimID, err := id.ParseClaimID(chi.URLParam(r, "claimID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	// Body is optional; collecting without feedback is fine.
	var req collectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	c, err := h.engine.MarkCollected(ctx, claimID, claimant, req.Feedback)
	if err != nil {
		h.logError(ctx, "mark collected failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, c)
}

func (h *claimHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claimant, ok := authenticatedUser(ctx, h.logger, w)
	if !ok {
		return
	}
	claimID, err := id.ParseClaimID(chi.URLParam(r, "claimID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.engine.CancelClaim(ctx, claimID, claimant); err != nil {
		h.logError(ctx, "cancel claim failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *claimHandler) handleSweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.sweeper.Sweep(ctx)
	if err != nil {
		h.logError(ctx, "manual sweep failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, res)
}

func (h *claimHandler) logError(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	}
}

// authenticatedUser pulls the principal the auth middleware placed in the
// context. An absent principal on a guarded route is a wiring bug.
func authenticatedUser(ctx context.Context, logger *slog.Logger, w http.ResponseWriter) (id.UserID, bool) {
	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.UserID{}, false
	}
	return userID, true
}
