package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"roadmap-backend/application/commands"
	"roadmap-backend/pkg/auth"
	"roadmap-backend/pkg/common"
	appErrors "roadmap-backend/pkg/errors"
)

// AccessHandler handles sharing grant HTTP requests
type AccessHandler struct {
	access *commands.AccessHandler
	star   *commands.StarHandler
	errors *appErrors.ErrorHandler
	logger *zap.Logger
}

// NewAccessHandler creates a new access handler
func NewAccessHandler(
	access *commands.AccessHandler,
	star *commands.StarHandler,
	errors *appErrors.ErrorHandler,
	logger *zap.Logger,
) *AccessHandler {
	return &AccessHandler{
		access: access,
		star:   star,
		errors: errors,
		logger: logger,
	}
}

// GrantAccessRequest represents the request body for granting access
type GrantAccessRequest struct {
	UserID string `json:"user_id"`
}

// GrantAccess handles POST /roadmaps/{roadmapID}/access
func (h *AccessHandler) GrantAccess(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req GrantAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	cmd := commands.GrantAccessCommand{
		RoadmapID:    chi.URLParam(r, "roadmapID"),
		OwnerID:      userCtx.UserID,
		TargetUserID: req.UserID,
	}
	if err := cmd.Validate(); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.access.HandleGrant(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]string{"message": "Access granted"})
}

// RevokeAccess handles DELETE /roadmaps/{roadmapID}/access/{userID}
func (h *AccessHandler) RevokeAccess(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	cmd := commands.RevokeAccessCommand{
		RoadmapID:    chi.URLParam(r, "roadmapID"),
		OwnerID:      userCtx.UserID,
		TargetUserID: chi.URLParam(r, "userID"),
	}
	if err := cmd.Validate(); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.access.HandleRevoke(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// StarRoadmap handles POST /roadmaps/{roadmapID}/star
func (h *AccessHandler) StarRoadmap(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	cmd := commands.StarRoadmapCommand{
		UserID:    userCtx.UserID,
		RoadmapID: chi.URLParam(r, "roadmapID"),
	}
	if err := cmd.Validate(); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.star.HandleStar(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Roadmap starred"})
}

// UnstarRoadmap handles DELETE /roadmaps/{roadmapID}/star
func (h *AccessHandler) UnstarRoadmap(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	cmd := commands.UnstarRoadmapCommand{
		UserID:    userCtx.UserID,
		RoadmapID: chi.URLParam(r, "roadmapID"),
	}
	if err := cmd.Validate(); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.star.HandleUnstar(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
