package commands

import (
	"context"

	"go.uber.org/zap"

	"roadmap-backend/application/ports"
	"roadmap-backend/pkg/errors"
	"roadmap-backend/pkg/utils"
)

// PublishRoadmapCommand makes a roadmap public. Publishing is one
// way: a public roadmap's content is locked against further edits.
type PublishRoadmapCommand struct {
	RoadmapID   string `json:"roadmap_id" validate:"required,uuid"`
	RequesterID string `json:"requester_id" validate:"required"`
}

// Validate validates the command
func (cmd PublishRoadmapCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// PublishRoadmapHandler handles the PublishRoadmapCommand
type PublishRoadmapHandler struct {
	roadmapRepo    ports.RoadmapRepository
	accessRepo     ports.AccessRepository
	eventPublisher ports.EventPublisher
	logger         *zap.Logger
}

// NewPublishRoadmapHandler creates a new handler instance
func NewPublishRoadmapHandler(
	roadmapRepo ports.RoadmapRepository,
	accessRepo ports.AccessRepository,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *PublishRoadmapHandler {
	return &PublishRoadmapHandler{
		roadmapRepo:    roadmapRepo,
		accessRepo:     accessRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle executes the publish command. Access grants become
// meaningless once everyone can view, so they are dropped.
func (h *PublishRoadmapHandler) Handle(ctx context.Context, cmd PublishRoadmapCommand) error {
	roadmap, err := h.roadmapRepo.FindByID(ctx, cmd.RoadmapID)
	if err != nil {
		return err
	}
	if roadmap == nil {
		return errors.NewNotFoundError("roadmap")
	}

	if err := roadmap.Publish(cmd.RequesterID); err != nil {
		return err
	}

	if err := h.accessRepo.DeleteByRoadmap(ctx, cmd.RoadmapID); err != nil {
		return err
	}

	if err := h.roadmapRepo.Save(ctx, roadmap); err != nil {
		return err
	}

	if err := h.eventPublisher.Publish(ctx, roadmap.UncommittedEvents()...); err != nil {
		h.logger.Warn("failed to publish roadmap published event",
			zap.String("roadmap_id", cmd.RoadmapID),
			zap.Error(err))
	}
	roadmap.MarkEventsCommitted()

	h.logger.Info("roadmap published",
		zap.String("roadmap_id", cmd.RoadmapID),
		zap.String("owner_id", roadmap.OwnerID()))

	return nil
}
