package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	donationmodels "sharebite/internal/donation/models"
	donationservice "sharebite/internal/donation/service"
	donationstore "sharebite/internal/donation/store"
	"sharebite/internal/transport/http/shared"
	id "sharebite/pkg/domain"
	dErrors "sharebite/pkg/domain-errors"
	"sharebite/pkg/requestcontext"
)

// DonationService defines the donation operations the transport needs.
type DonationService interface {
	Create(ctx context.Context, donor id.UserID, input donationservice.CreateInput) (*donationmodels.Donation, error)
	Get(ctx context.Context, donationID id.DonationID) (*donationmodels.Donation, error)
	List(ctx context.Context, filter donationstore.ListFilter) ([]*donationmodels.Donation, error)
	Update(ctx context.Context, donationID id.DonationID, donor id.UserID, patch donationstore.DetailsPatch) (*donationmodels.Donation, error)
	Cancel(ctx context.Context, donationID id.DonationID, donor id.UserID) error
}

type donationHandler struct {
	service DonationService
	logger  *slog.Logger
}

func (h *donationHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donor, ok := authenticatedUser(ctx, h.logger, w)
	if !ok {
		return
	}

	var input donationservice.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	d, err := h.service.Create(ctx, donor, input)
	if err != nil {
		h.logError(ctx, "create donation failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, d)
}

func (h *donationHandler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilterFromQuery(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	donations, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logError(r.Context(), "list donations failed", err)
		shared.WriteError(w, err)
		return
	}
	if donations == nil {
		donations = []*donationmodels.Donation{}
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"donations": donations})
}

func (h *donationHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	donationID, err := id.ParseDonationID(chi.URLParam(r, "donationID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	d, err := h.service.Get(r.Context(), donationID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, d)
}

func (h *donationHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donor, ok := authenticatedUser(ctx, h.logger, w)
	if !ok {
		return
	}
	donationID, err := id.ParseDonationID(chi.URLParam(r, "donationID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var patch donationstore.DetailsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	d, err := h.service.Update(ctx, donationID, donor, patch)
	if err != nil {
		h.logError(ctx, "update donation failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, d)
}

func (h *donationHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donor, ok := authenticatedUser(ctx, h.logger, w)
	if !ok {
		return
	}
	donationID, err := id.ParseDonationID(chi.URLParam(r, "donationID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.service.Cancel(ctx, donationID, donor); err != nil {
		h.logError(ctx, "cancel donation failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *donationHandler) logError(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	}
}

func listFilterFromQuery(r *http.Request) (donationstore.ListFilter, error) {
	var filter donationstore.ListFilter
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		status, err := id.ParseDonationStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = status
	}
	if raw := q.Get("category"); raw != "" {
		category, err := id.ParseCategory(raw)
		if err != nil {
			return filter, err
		}
		filter.Category = category
	}
	filter.City = q.Get("city")
	if raw := q.Get("donor"); raw != "" {
		donor, err := id.ParseUserID(raw)
		if err != nil {
			return filter, err
		}
		filter.Donor = donor
	}
	return filter, nil
}
