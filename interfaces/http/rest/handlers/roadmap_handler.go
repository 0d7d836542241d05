package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"roadmap-backend/application/commands"
	"roadmap-backend/application/queries"
	querybus "roadmap-backend/application/queries/bus"
	"roadmap-backend/pkg/auth"
	"roadmap-backend/pkg/common"
	appErrors "roadmap-backend/pkg/errors"
)

// RoadmapHandler handles roadmap-related HTTP requests
type RoadmapHandler struct {
	create   *commands.CreateRoadmapHandler
	update   *commands.UpdateRoadmapHandler
	remove   *commands.DeleteRoadmapHandler
	edit     *commands.EditContentHandler
	publish  *commands.PublishRoadmapHandler
	queryBus *querybus.QueryBus
	errors   *appErrors.ErrorHandler
	logger   *zap.Logger
}

// NewRoadmapHandler creates a new roadmap handler
func NewRoadmapHandler(
	create *commands.CreateRoadmapHandler,
	update *commands.UpdateRoadmapHandler,
	remove *commands.DeleteRoadmapHandler,
	edit *commands.EditContentHandler,
	publish *commands.PublishRoadmapHandler,
	queryBus *querybus.QueryBus,
	errors *appErrors.ErrorHandler,
	logger *zap.Logger,
) *RoadmapHandler {
	return &RoadmapHandler{
		create:   create,
		update:   update,
		remove:   remove,
		edit:     edit,
		publish:  publish,
		queryBus: queryBus,
		errors:   errors,
		logger:   logger,
	}
}

// CreateRoadmapRequest represents the request body for creating a roadmap
type CreateRoadmapRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateRoadmapRequest represents the request body for renaming a roadmap
type UpdateRoadmapRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateRoadmapResponse represents the response for creating a roadmap
type CreateRoadmapResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// CreateRoadmap handles POST /roadmaps
func (h *RoadmapHandler) CreateRoadmap(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req CreateRoadmapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	cmd := commands.CreateRoadmapCommand{
		OwnerID:     userCtx.UserID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := cmd.Validate(); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	roadmap, err := h.create.Handle(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, CreateRoadmapResponse{
		ID:        roadmap.ID().String(),
		Name:      roadmap.Name(),
		Status:    string(roadmap.Status()),
		CreatedAt: roadmap.CreatedAt().Format(time.RFC3339),
	})
}

// GetRoadmap handles GET /roadmaps/{roadmapID}
func (h *RoadmapHandler) GetRoadmap(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	query := queries.GetRoadmapQuery{
		RoadmapID: chi.URLParam(r, "roadmapID"),
		ViewerID:  userCtx.UserID,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// ListRoadmaps handles GET /roadmaps
func (h *RoadmapHandler) ListRoadmaps(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = queries.FilterMy
	}
	params := common.ExtractPaginationParams(r)

	query := queries.ListRoadmapsQuery{
		ViewerID: userCtx.UserID,
		Filter:   filter,
		Name:     r.URL.Query().Get("name"),
		Page:     params.Page,
		PageSize: params.PageSize,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	listView, ok := result.(*queries.RoadmapListView)
	if !ok {
		common.RespondJSON(w, http.StatusOK, result)
		return
	}

	common.RespondPaged(w, http.StatusOK, listView.Items, &common.PaginationInfo{
		Page:       listView.Page,
		PageSize:   listView.PageSize,
		Total:      listView.Total,
		TotalPages: listView.TotalPages,
		HasNext:    listView.Page < listView.TotalPages,
		HasPrev:    listView.Page > 1,
	})
}

// UpdateRoadmap handles PUT /roadmaps/{roadmapID}
func (h *RoadmapHandler) UpdateRoadmap(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req UpdateRoadmapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	cmd := commands.UpdateRoadmapCommand{
		RoadmapID:   chi.URLParam(r, "roadmapID"),
		EditorID:    userCtx.UserID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := cmd.Validate(); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.update.Handle(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Roadmap updated"})
}

// DeleteRoadmap handles DELETE /roadmaps/{roadmapID}
func (h *RoadmapHandler) DeleteRoadmap(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	cmd := commands.DeleteRoadmapCommand{
		RoadmapID:   chi.URLParam(r, "roadmapID"),
		RequesterID: userCtx.UserID,
	}
	if err := cmd.Validate(); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.remove.Handle(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// EditContent handles PUT /roadmaps/{roadmapID}/content. The request
// body is the graph document itself, not an envelope around it.
func (h *RoadmapHandler) EditContent(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Failed to read request body")
		return
	}

	cmd := commands.EditRoadmapContentCommand{
		RoadmapID: chi.URLParam(r, "roadmapID"),
		EditorID:  userCtx.UserID,
		Content:   json.RawMessage(body),
	}
	if err := cmd.Validate(); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.edit.Handle(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Content updated"})
}

// PublishRoadmap handles POST /roadmaps/{roadmapID}/publish
func (h *RoadmapHandler) PublishRoadmap(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	cmd := commands.PublishRoadmapCommand{
		RoadmapID:   chi.URLParam(r, "roadmapID"),
		RequesterID: userCtx.UserID,
	}
	if err := cmd.Validate(); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.publish.Handle(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Roadmap published"})
}
