package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"roadmap-backend/application/commands"
	"roadmap-backend/application/queries"
	querybus "roadmap-backend/application/queries/bus"
	"roadmap-backend/pkg/auth"
	"roadmap-backend/pkg/common"
	appErrors "roadmap-backend/pkg/errors"
)

// ProgressHandler handles progress-related HTTP requests
type ProgressHandler struct {
	change   *commands.ChangeProgressHandler
	queryBus *querybus.QueryBus
	errors   *appErrors.ErrorHandler
	logger   *zap.Logger
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(
	change *commands.ChangeProgressHandler,
	queryBus *querybus.QueryBus,
	errors *appErrors.ErrorHandler,
	logger *zap.Logger,
) *ProgressHandler {
	return &ProgressHandler{
		change:   change,
		queryBus: queryBus,
		errors:   errors,
		logger:   logger,
	}
}

// ChangeStatusRequest represents the request body for a status change
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// GetProgress handles GET /roadmaps/{roadmapID}/progress
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	query := queries.GetProgressQuery{
		RoadmapID: chi.URLParam(r, "roadmapID"),
		UserID:    userCtx.UserID,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// ChangeStatus handles PUT /roadmaps/{roadmapID}/progress/{topicID}
func (h *ProgressHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	cmd := commands.ChangeProgressStatusCommand{
		UserID:    userCtx.UserID,
		RoadmapID: chi.URLParam(r, "roadmapID"),
		TopicID:   chi.URLParam(r, "topicID"),
		NewStatus: req.Status,
	}
	if err := cmd.Validate(); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.change.Handle(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Progress updated"})
}
