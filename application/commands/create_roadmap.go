package commands

import (
	"context"

	"go.uber.org/zap"

	"roadmap-backend/application/ports"
	"roadmap-backend/domain/core/aggregates"
	"roadmap-backend/pkg/utils"
)

// CreateRoadmapCommand represents the command to create a new roadmap
type CreateRoadmapCommand struct {
	OwnerID     string `json:"owner_id" validate:"required"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// Validate validates the command
func (cmd CreateRoadmapCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// CreateRoadmapHandler handles the CreateRoadmapCommand
type CreateRoadmapHandler struct {
	roadmapRepo    ports.RoadmapRepository
	eventPublisher ports.EventPublisher
	logger         *zap.Logger
}

// NewCreateRoadmapHandler creates a new handler instance
func NewCreateRoadmapHandler(
	roadmapRepo ports.RoadmapRepository,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *CreateRoadmapHandler {
	return &CreateRoadmapHandler{
		roadmapRepo:    roadmapRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle executes the create roadmap command
func (h *CreateRoadmapHandler) Handle(ctx context.Context, cmd CreateRoadmapCommand) (*aggregates.Roadmap, error) {
	roadmap, err := aggregates.NewRoadmap(cmd.OwnerID, cmd.Name, cmd.Description)
	if err != nil {
		return nil, err
	}

	if err := h.roadmapRepo.Save(ctx, roadmap); err != nil {
		return nil, err
	}

	if err := h.eventPublisher.Publish(ctx, roadmap.UncommittedEvents()...); err != nil {
		// Events are best effort; the aggregate is already persisted
		h.logger.Warn("failed to publish roadmap events",
			zap.String("roadmap_id", roadmap.ID().String()),
			zap.Error(err))
	}
	roadmap.MarkEventsCommitted()

	h.logger.Info("roadmap created",
		zap.String("roadmap_id", roadmap.ID().String()),
		zap.String("owner_id", cmd.OwnerID))

	return roadmap, nil
}
