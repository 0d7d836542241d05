package commands

import (
	"context"

	"go.uber.org/zap"

	"roadmap-backend/application/ports"
	"roadmap-backend/pkg/errors"
	"roadmap-backend/pkg/utils"
)

// UpdateRoadmapCommand renames a roadmap
type UpdateRoadmapCommand struct {
	RoadmapID   string `json:"roadmap_id" validate:"required,uuid"`
	EditorID    string `json:"editor_id" validate:"required"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// Validate validates the command
func (cmd UpdateRoadmapCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// UpdateRoadmapHandler handles the UpdateRoadmapCommand
type UpdateRoadmapHandler struct {
	roadmapRepo ports.RoadmapRepository
	logger      *zap.Logger
}

// NewUpdateRoadmapHandler creates a new handler instance
func NewUpdateRoadmapHandler(roadmapRepo ports.RoadmapRepository, logger *zap.Logger) *UpdateRoadmapHandler {
	return &UpdateRoadmapHandler{
		roadmapRepo: roadmapRepo,
		logger:      logger,
	}
}

// Handle executes the update roadmap command
func (h *UpdateRoadmapHandler) Handle(ctx context.Context, cmd UpdateRoadmapCommand) error {
	roadmap, err := h.roadmapRepo.FindByID(ctx, cmd.RoadmapID)
	if err != nil {
		return err
	}
	if roadmap == nil {
		return errors.NewNotFoundError("roadmap")
	}
	if !roadmap.IsOwnedBy(cmd.EditorID) {
		return errors.NewAccessDeniedError(cmd.RoadmapID)
	}

	if err := roadmap.Rename(cmd.Name, cmd.Description); err != nil {
		return err
	}

	return h.roadmapRepo.Save(ctx, roadmap)
}
