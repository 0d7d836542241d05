package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"roadmap-backend/application/ports"
	"roadmap-backend/application/services"
	"roadmap-backend/domain/core/entities"
	"roadmap-backend/domain/core/valueobjects"
	"roadmap-backend/domain/events"
	"roadmap-backend/pkg/errors"
	"roadmap-backend/pkg/utils"
)

// ChangeProgressStatusCommand sets one topic's status in the
// requesting user's progress record
type ChangeProgressStatusCommand struct {
	UserID    string `json:"user_id" validate:"required"`
	RoadmapID string `json:"roadmap_id" validate:"required,uuid"`
	TopicID   string `json:"topic_id" validate:"required,uuid"`
	NewStatus string `json:"new_status" validate:"required"`
}

// Validate validates the command
func (cmd ChangeProgressStatusCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// ChangeProgressHandler handles the ChangeProgressStatusCommand
type ChangeProgressHandler struct {
	roadmapRepo    ports.RoadmapRepository
	progressRepo   ports.ProgressRepository
	userRepo       ports.UserRepository
	access         *services.AccessService
	eventPublisher ports.EventPublisher
	logger         *zap.Logger
}

// NewChangeProgressHandler creates a new handler instance
func NewChangeProgressHandler(
	roadmapRepo ports.RoadmapRepository,
	progressRepo ports.ProgressRepository,
	userRepo ports.UserRepository,
	access *services.AccessService,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *ChangeProgressHandler {
	return &ChangeProgressHandler{
		roadmapRepo:    roadmapRepo,
		progressRepo:   progressRepo,
		userRepo:       userRepo,
		access:         access,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Handle executes the status change. Checks run in a fixed order:
// the requested status must be user assignable, the user and roadmap
// must exist, the user must have viewing rights, the topic must be in
// the current content, and a progress record must already exist from
// a prior view.
func (h *ChangeProgressHandler) Handle(ctx context.Context, cmd ChangeProgressStatusCommand) error {
	newStatus, err := entities.ParseProgressStatus(cmd.NewStatus)
	if err != nil {
		return err
	}
	if !newStatus.UserAssignable() {
		return errors.NewInvalidTransitionError(cmd.NewStatus)
	}

	user, err := h.userRepo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.NewNotFoundError("user")
	}

	roadmap, err := h.roadmapRepo.FindByID(ctx, cmd.RoadmapID)
	if err != nil {
		return err
	}
	if roadmap == nil {
		return errors.NewNotFoundError("roadmap")
	}

	allowed, err := h.access.CanView(ctx, roadmap, cmd.UserID)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.NewAccessDeniedError(cmd.RoadmapID)
	}

	topicID, err := valueobjects.NewTopicIDFromString(cmd.TopicID)
	if err != nil {
		return errors.NewTopicNotFoundError(cmd.TopicID)
	}
	if !roadmap.HasContent() || !roadmap.Content().HasTopic(topicID) {
		return errors.NewTopicNotFoundError(cmd.TopicID)
	}

	progress, err := h.progressRepo.FindByUserAndRoadmap(ctx, cmd.UserID, cmd.RoadmapID)
	if err != nil {
		return err
	}
	if progress == nil {
		// Records are created on first view, not here
		return errors.NewProgressNotFoundError()
	}

	oldStatus, _ := progress.StatusOf(topicID)
	if err := progress.SetTopicStatus(topicID, newStatus); err != nil {
		return err
	}

	if err := h.progressRepo.Save(ctx, progress); err != nil {
		return err
	}

	event := events.NewProgressStatusChanged(
		cmd.RoadmapID, cmd.UserID, cmd.TopicID, string(oldStatus), cmd.NewStatus, time.Now())
	if err := h.eventPublisher.Publish(ctx, event); err != nil {
		h.logger.Warn("failed to publish progress status event",
			zap.String("roadmap_id", cmd.RoadmapID),
			zap.Error(err))
	}

	return nil
}
