package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/matchdayhq/matchday/internal/platform/logging"
	"github.com/matchdayhq/matchday/internal/usecase"
)

type Handler struct {
	userService  *usecase.UserService
	teamService  *usecase.TeamService
	venueService *usecase.VenueService
	matchService *usecase.MatchService
	logger       *logging.Logger
	validator    *validator.Validate
}

func NewHandler(
	userService *usecase.UserService,
	teamService *usecase.TeamService,
	venueService *usecase.VenueService,
	matchService *usecase.MatchService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		userService:  userService,
		teamService:  teamService,
		venueService: venueService,
		matchService: matchService,
		logger:       logger,
		validator:    validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
