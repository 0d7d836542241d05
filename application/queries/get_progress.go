package queries

import (
	"context"

	"go.uber.org/zap"

	"roadmap-backend/application/ports"
	"roadmap-backend/application/services"
	"roadmap-backend/pkg/errors"
	"roadmap-backend/pkg/utils"
)

// GetProgressQuery fetches one user's progress record for a roadmap.
// Unlike GetRoadmap this never creates the record.
type GetProgressQuery struct {
	RoadmapID string `json:"roadmap_id" validate:"required,uuid"`
	UserID    string `json:"user_id" validate:"required"`
}

// Validate validates the query
func (q GetProgressQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetProgressHandler handles the GetProgressQuery
type GetProgressHandler struct {
	roadmapRepo  ports.RoadmapRepository
	progressRepo ports.ProgressRepository
	access       *services.AccessService
	logger       *zap.Logger
}

// NewGetProgressHandler creates a new handler instance
func NewGetProgressHandler(
	roadmapRepo ports.RoadmapRepository,
	progressRepo ports.ProgressRepository,
	access *services.AccessService,
	logger *zap.Logger,
) *GetProgressHandler {
	return &GetProgressHandler{
		roadmapRepo:  roadmapRepo,
		progressRepo: progressRepo,
		access:       access,
		logger:       logger,
	}
}

// Handle executes the query
func (h *GetProgressHandler) Handle(ctx context.Context, q GetProgressQuery) (*ProgressView, error) {
	roadmap, err := h.roadmapRepo.FindByID(ctx, q.RoadmapID)
	if err != nil {
		return nil, err
	}
	if roadmap == nil {
		return nil, errors.NewNotFoundError("roadmap")
	}

	allowed, err := h.access.CanView(ctx, roadmap, q.UserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, errors.NewAccessDeniedError(q.RoadmapID)
	}

	progress, err := h.progressRepo.FindByUserAndRoadmap(ctx, q.UserID, q.RoadmapID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return nil, errors.NewProgressNotFoundError()
	}

	return buildProgressView(roadmap, progress), nil
}
