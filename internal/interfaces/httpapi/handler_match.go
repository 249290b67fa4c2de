package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/matchdayhq/matchday/internal/domain/match"
	"github.com/matchdayhq/matchday/internal/usecase"
)

type scheduleMatchRequest struct {
	VenueID    string    `json:"venue_id" validate:"required,max=64"`
	HomeTeamID string    `json:"home_team_id" validate:"required,max=64"`
	AwayTeamID string    `json:"away_team_id" validate:"required,max=64"`
	StartsAt   time.Time `json:"starts_at" validate:"required"`
	EndsAt     time.Time `json:"ends_at" validate:"required"`
}

type setPresenceRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed doubt declined"`
}

type matchDTO struct {
	ID            string `json:"id"`
	BookingID     string `json:"booking_id"`
	VenueID       string `json:"venue_id"`
	VenueName     string `json:"venue_name,omitempty"`
	SchedulerID   string `json:"scheduler_id"`
	SchedulerName string `json:"scheduler_name,omitempty"`
	HomeTeamID    string `json:"home_team_id"`
	HomeTeamName  string `json:"home_team_name,omitempty"`
	AwayTeamID    string `json:"away_team_id"`
	AwayTeamName  string `json:"away_team_name,omitempty"`
	StartsAt      string `json:"starts_at"`
	EndsAt        string `json:"ends_at"`
	CreatedAt     string `json:"created_at"`
}

type presenceDTO struct {
	MatchID   string `json:"match_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

type rosterEntryDTO struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name,omitempty"`
	TeamID    string `json:"team_id,omitempty"`
	TeamName  string `json:"team_name,omitempty"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:          m.ID,
		BookingID:   m.BookingID,
		VenueID:     m.VenueID,
		SchedulerID: m.SchedulerID,
		HomeTeamID:  m.HomeTeamID,
		AwayTeamID:  m.AwayTeamID,
		StartsAt:    m.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:      m.EndsAt.UTC().Format(time.RFC3339),
		CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func matchSummaryToDTO(s match.Summary) matchDTO {
	dto := matchToDTO(s.Match)
	dto.VenueName = s.VenueName
	dto.SchedulerName = s.SchedulerName
	dto.HomeTeamName = s.HomeTeamName
	dto.AwayTeamName = s.AwayTeamName
	return dto
}

func presenceToDTO(p match.Presence) presenceDTO {
	return presenceDTO{
		MatchID:   p.MatchID,
		UserID:    p.UserID,
		Status:    string(p.Status),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func rosterEntryToDTO(e match.RosterEntry) rosterEntryDTO {
	return rosterEntryDTO{
		UserID:    e.UserID,
		UserName:  e.UserName,
		TeamID:    e.TeamID,
		TeamName:  e.TeamName,
		Status:    string(e.Status),
		UpdatedAt: e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) ScheduleMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScheduleMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req scheduleMatchRequest
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

	scheduled, err := h.matchService.Schedule(ctx, usecase.ScheduleMatchInput{
		SchedulerID: principal.UserID,
		VenueID:     req.VenueID,
		HomeTeamID:  req.HomeTeamID,
		AwayTeamID:  req.AwayTeamID,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "schedule match failed", "user_id", principal.UserID, "venue_id", req.VenueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(scheduled))
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	matches, err := h.matchService.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, s := range matches {
		items = append(items, matchSummaryToDTO(s))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	found, err := h.matchService.Get(ctx, r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchSummaryToDTO(found))
}

func (h *Handler) CancelMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	matchID := r.PathValue("matchID")
	if err := h.matchService.Cancel(ctx, principal.UserID, matchID); err != nil {
		h.logger.WarnContext(ctx, "cancel match failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "canceled"})
}

func (h *Handler) SetPresence(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetPresence")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req setPresenceRequest
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

	matchID := r.PathValue("matchID")
	saved, err := h.matchService.SetPresence(ctx, principal.UserID, matchID, req.Status)
	if err != nil {
		h.logger.WarnContext(ctx, "set presence failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, presenceToDTO(saved))
}

func (h *Handler) GetMatchRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchRoster")
	defer span.End()

	entries, err := h.matchService.Roster(ctx, r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]rosterEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, rosterEntryToDTO(e))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
