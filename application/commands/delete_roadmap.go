package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"roadmap-backend/application/ports"
	"roadmap-backend/domain/events"
	"roadmap-backend/pkg/errors"
	"roadmap-backend/pkg/utils"
)

// DeleteRoadmapCommand removes a roadmap together with its progress
// records and access grants
type DeleteRoadmapCommand struct {
	RoadmapID   string `json:"roadmap_id" validate:"required,uuid"`
	RequesterID string `json:"requester_id" validate:"required"`
}

// Validate validates the command
func (cmd DeleteRoadmapCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// DeleteRoadmapHandler handles the DeleteRoadmapCommand
type DeleteRoadmapHandler struct {
	roadmapRepo    ports.RoadmapRepository
	progressRepo   ports.ProgressRepository
	accessRepo     ports.AccessRepository
	eventPublisher ports.EventPublisher
	logger         *zap.Logger
}

// NewDeleteRoadmapHandler creates a new handler instance
func NewDeleteRoadmapHandler(
	roadmapRepo ports.RoadmapRepository,
	progressRepo ports.ProgressRepository,
	accessRepo ports.AccessRepository,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *DeleteRoadmapHandler {
	return &DeleteRoadmapHandler{
		roadmapRepo:    roadmapRepo,
		progressRepo:   progressRepo,
		accessRepo:     accessRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle executes the delete roadmap command. Dependent rows go
// first so a failure never leaves orphans pointing at a missing
// roadmap.
func (h *DeleteRoadmapHandler) Handle(ctx context.Context, cmd DeleteRoadmapCommand) error {
	roadmap, err := h.roadmapRepo.FindByID(ctx, cmd.RoadmapID)
	if err != nil {
		return err
	}
	if roadmap == nil {
		return errors.NewNotFoundError("roadmap")
	}
	if !roadmap.IsOwnedBy(cmd.RequesterID) {
		return errors.NewAccessDeniedError(cmd.RoadmapID)
	}

	if err := h.progressRepo.DeleteByRoadmap(ctx, cmd.RoadmapID); err != nil {
		return err
	}
	if err := h.accessRepo.DeleteByRoadmap(ctx, cmd.RoadmapID); err != nil {
		return err
	}
	if err := h.roadmapRepo.Delete(ctx, cmd.RoadmapID); err != nil {
		return err
	}

	event := events.NewRoadmapDeleted(cmd.RoadmapID, roadmap.OwnerID(), time.Now())
	if err := h.eventPublisher.Publish(ctx, event); err != nil {
		h.logger.Warn("failed to publish roadmap deleted event",
			zap.String("roadmap_id", cmd.RoadmapID),
			zap.Error(err))
	}

	h.logger.Info("roadmap deleted",
		zap.String("roadmap_id", cmd.RoadmapID),
		zap.String("requester_id", cmd.RequesterID))

	return nil
}
