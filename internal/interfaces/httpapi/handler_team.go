package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/matchdayhq/matchday/internal/domain/team"
	"github.com/matchdayhq/matchday/internal/usecase"
)

type createTeamRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	KitColor    string `json:"kit_color" validate:"omitempty,max=50"`
	ShirtNumber int    `json:"shirt_number" validate:"omitempty,min=1,max=99"`
}

type updateTeamRequest struct {
	Name         string `json:"name" validate:"omitempty,max=100"`
	KitColor     string `json:"kit_color" validate:"omitempty,max=50"`
	NewCaptainID string `json:"new_captain_id" validate:"omitempty,max=64"`
}

type addTeamMemberRequest struct {
	UserID      string `json:"user_id" validate:"required,max=64"`
	ShirtNumber int    `json:"shirt_number" validate:"required,min=1,max=99"`
}

type updateTeamMemberRequest struct {
	ShirtNumber int `json:"shirt_number" validate:"required,min=1,max=99"`
}

type teamDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	KitColor  string `json:"kit_color,omitempty"`
	CaptainID string `json:"captain_id"`
	CreatedAt string `json:"created_at"`
}

type teamMemberDTO struct {
	TeamID      string `json:"team_id"`
	UserID      string `json:"user_id"`
	ShirtNumber int    `json:"shirt_number"`
	JoinedAt    string `json:"joined_at"`
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:        t.ID,
		Name:      t.Name,
		KitColor:  t.KitColor,
		CaptainID: t.CaptainID,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func teamMemberToDTO(m team.Member) teamMemberDTO {
	return teamMemberDTO{
		TeamID:      m.TeamID,
		UserID:      m.UserID,
		ShirtNumber: m.ShirtNumber,
		JoinedAt:    m.JoinedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createTeamRequest
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

	created, err := h.teamService.Create(ctx, usecase.CreateTeamInput{
		CreatorID:   principal.UserID,
		Name:        req.Name,
		KitColor:    req.KitColor,
		ShirtNumber: req.ShirtNumber,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create team failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(created))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.teamService.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	found, err := h.teamService.Get(ctx, r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(found))
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req updateTeamRequest
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

	updated, err := h.teamService.Update(ctx, usecase.UpdateTeamInput{
		CallerID:     principal.UserID,
		TeamID:       r.PathValue("teamID"),
		Name:         req.Name,
		KitColor:     req.KitColor,
		NewCaptainID: req.NewCaptainID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update team failed", "user_id", principal.UserID, "team_id", r.PathValue("teamID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(updated))
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	if err := h.teamService.Delete(ctx, principal.UserID, teamID); err != nil {
		h.logger.WarnContext(ctx, "delete team failed", "user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddTeamMember")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req addTeamMemberRequest
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

	added, err := h.teamService.AddMember(ctx, usecase.AddMemberInput{
		CallerID:    principal.UserID,
		TeamID:      r.PathValue("teamID"),
		UserID:      req.UserID,
		ShirtNumber: req.ShirtNumber,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add team member failed", "user_id", principal.UserID, "team_id", r.PathValue("teamID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamMemberToDTO(added))
}

func (h *Handler) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamMembers")
	defer span.End()

	members, err := h.teamService.ListMembers(ctx, r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]teamMemberDTO, 0, len(members))
	for _, m := range members {
		items = append(items, teamMemberToDTO(m))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) UpdateTeamMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTeamMember")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req updateTeamMemberRequest
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

	updated, err := h.teamService.UpdateMemberShirt(ctx, principal.UserID, r.PathValue("teamID"), r.PathValue("userID"), req.ShirtNumber)
	if err != nil {
		h.logger.WarnContext(ctx, "update team member failed", "user_id", principal.UserID, "team_id", r.PathValue("teamID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamMemberToDTO(updated))
}

func (h *Handler) RemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveTeamMember")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	userID := r.PathValue("userID")
	if err := h.teamService.RemoveMember(ctx, principal.UserID, teamID, userID); err != nil {
		h.logger.WarnContext(ctx, "remove team member failed", "user_id", principal.UserID, "team_id", teamID, "member_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "removed"})
}
