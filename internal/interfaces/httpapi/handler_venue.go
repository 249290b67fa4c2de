package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/matchdayhq/matchday/internal/domain/venue"
	"github.com/matchdayhq/matchday/internal/usecase"
)

type createVenueRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Capacity int    `json:"capacity" validate:"omitempty,min=0"`
	OpensAt  string `json:"opens_at" validate:"omitempty,len=5"`
	ClosesAt string `json:"closes_at" validate:"omitempty,len=5"`
	Bookable *bool  `json:"bookable"`
}

type setVenueClosureRequest struct {
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	ClosedAllDay bool   `json:"closed_all_day"`
	Reason       string `json:"reason" validate:"omitempty,max=200"`
	OpensAt      string `json:"opens_at" validate:"omitempty,len=5"`
	ClosesAt     string `json:"closes_at" validate:"omitempty,len=5"`
}

type venueDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	OpensAt   string `json:"opens_at,omitempty"`
	ClosesAt  string `json:"closes_at,omitempty"`
	Bookable  bool   `json:"bookable"`
	CreatedAt string `json:"created_at"`
}

type venueClosureDTO struct {
	VenueID      string `json:"venue_id"`
	Date         string `json:"date"`
	ClosedAllDay bool   `json:"closed_all_day"`
	Reason       string `json:"reason,omitempty"`
	OpensAt      string `json:"opens_at,omitempty"`
	ClosesAt     string `json:"closes_at,omitempty"`
}

func venueToDTO(v venue.Venue) venueDTO {
	dto := venueDTO{
		ID:        v.ID,
		Name:      v.Name,
		Capacity:  v.Capacity,
		Bookable:  v.Bookable,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
	if v.OpensAt != nil {
		dto.OpensAt = v.OpensAt.String()
	}
	if v.ClosesAt != nil {
		dto.ClosesAt = v.ClosesAt.String()
	}
	return dto
}

func venueClosureToDTO(e venue.Exception) venueClosureDTO {
	dto := venueClosureDTO{
		VenueID:      e.VenueID,
		Date:         e.Date.UTC().Format("2006-01-02"),
		ClosedAllDay: e.ClosedAllDay,
		Reason:       e.Reason,
	}
	if e.OpensAt != nil {
		dto.OpensAt = e.OpensAt.String()
	}
	if e.ClosesAt != nil {
		dto.ClosesAt = e.ClosesAt.String()
	}
	return dto
}

func (h *Handler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateVenue")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createVenueRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	bookable := true
	if req.Bookable != nil {
		bookable = *req.Bookable
	}

	created, err := h.venueService.Create(ctx, usecase.CreateVenueInput{
		Name:     req.Name,
		Capacity: req.Capacity,
		OpensAt:  req.OpensAt,
		ClosesAt: req.ClosesAt,
		Bookable: bookable,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create venue failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, venueToDTO(created))
}

func (h *Handler) ListVenues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListVenues")
	defer span.End()

	venues, err := h.venueService.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]venueDTO, 0, len(venues))
	for _, v := range venues {
		items = append(items, venueToDTO(v))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetVenue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetVenue")
	defer span.End()

	found, err := h.venueService.Get(ctx, r.PathValue("venueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, venueToDTO(found))
}

func (h *Handler) SetVenueClosure(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetVenueClosure")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req setVenueClosureRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid date %q", usecase.ErrInvalidInput, req.Date))
		return
	}

	venueID := r.PathValue("venueID")
	saved, err := h.venueService.SetClosure(ctx, usecase.SetClosureInput{
		VenueID:      venueID,
		Date:         date,
		ClosedAllDay: req.ClosedAllDay,
		Reason:       req.Reason,
		OpensAt:      req.OpensAt,
		ClosesAt:     req.ClosesAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set venue closure failed", "user_id", principal.UserID, "venue_id", venueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, venueClosureToDTO(saved))
}

func (h *Handler) ListVenueClosures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListVenueClosures")
	defer span.End()

	closures, err := h.venueService.ListClosures(ctx, r.PathValue("venueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]venueClosureDTO, 0, len(closures))
	for _, e := range closures {
		items = append(items, venueClosureToDTO(e))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) DeleteVenueClosure(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteVenueClosure")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	rawDate := r.PathValue("date")
	date, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid date %q", usecase.ErrInvalidInput, rawDate))
		return
	}

	venueID := r.PathValue("venueID")
	if err := h.venueService.DeleteClosure(ctx, venueID, date); err != nil {
		h.logger.WarnContext(ctx, "delete venue closure failed", "user_id", principal.UserID, "venue_id", venueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}
