package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"roadmap-backend/application/ports"
	"roadmap-backend/domain/core/entities"
	"roadmap-backend/domain/events"
	"roadmap-backend/pkg/errors"
	"roadmap-backend/pkg/utils"
)

// GrantAccessCommand gives a user viewing rights on a private roadmap
type GrantAccessCommand struct {
	RoadmapID    string `json:"roadmap_id" validate:"required,uuid"`
	OwnerID      string `json:"owner_id" validate:"required"`
	TargetUserID string `json:"target_user_id" validate:"required"`
}

// Validate validates the command
func (cmd GrantAccessCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// RevokeAccessCommand removes a user's viewing rights
type RevokeAccessCommand struct {
	RoadmapID    string `json:"roadmap_id" validate:"required,uuid"`
	OwnerID      string `json:"owner_id" validate:"required"`
	TargetUserID string `json:"target_user_id" validate:"required"`
}

// Validate validates the command
func (cmd RevokeAccessCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// AccessHandler handles grant and revoke commands. Granting the
// first access moves a private roadmap to PrivateSharing; revoking
// the last one moves it back.
type AccessHandler struct {
	roadmapRepo    ports.RoadmapRepository
	accessRepo     ports.AccessRepository
	userRepo       ports.UserRepository
	eventPublisher ports.EventPublisher
	logger         *zap.Logger
}

// NewAccessHandler creates a new handler instance
func NewAccessHandler(
	roadmapRepo ports.RoadmapRepository,
	accessRepo ports.AccessRepository,
	userRepo ports.UserRepository,
	eventPublisher ports.EventPublisher,
	logger *zap.Logger,
) *AccessHandler {
	return &AccessHandler{
		roadmapRepo:    roadmapRepo,
		accessRepo:     accessRepo,
		userRepo:       userRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// HandleGrant executes the grant access command
func (h *AccessHandler) HandleGrant(ctx context.Context, cmd GrantAccessCommand) error {
	roadmap, err := h.roadmapRepo.FindByID(ctx, cmd.RoadmapID)
	if err != nil {
		return err
	}
	if roadmap == nil {
		return errors.NewNotFoundError("roadmap")
	}
	if !roadmap.IsOwnedBy(cmd.OwnerID) {
		return errors.NewAccessDeniedError(cmd.RoadmapID)
	}
	if roadmap.IsPublic() {
		return errors.NewConflictError("public roadmaps do not use access grants")
	}

	target, err := h.userRepo.FindByID(ctx, cmd.TargetUserID)
	if err != nil {
		return err
	}
	if target == nil {
		return errors.NewNotFoundError("user")
	}

	exists, err := h.accessRepo.Exists(ctx, cmd.RoadmapID, cmd.TargetUserID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	grant, err := entities.NewAccessGrant(cmd.RoadmapID, cmd.TargetUserID, cmd.OwnerID)
	if err != nil {
		return err
	}
	if err := h.accessRepo.Save(ctx, grant); err != nil {
		return err
	}

	roadmap.MarkShared()
	if err := h.roadmapRepo.Save(ctx, roadmap); err != nil {
		return err
	}

	event := events.NewAccessGranted(cmd.RoadmapID, cmd.TargetUserID, cmd.OwnerID, time.Now())
	if err := h.eventPublisher.Publish(ctx, event); err != nil {
		h.logger.Warn("failed to publish access granted event",
			zap.String("roadmap_id", cmd.RoadmapID),
			zap.Error(err))
	}

	return nil
}

// HandleRevoke executes the revoke access command
func (h *AccessHandler) HandleRevoke(ctx context.Context, cmd RevokeAccessCommand) error {
	roadmap, err := h.roadmapRepo.FindByID(ctx, cmd.RoadmapID)
	if err != nil {
		return err
	}
	if roadmap == nil {
		return errors.NewNotFoundError("roadmap")
	}
	if !roadmap.IsOwnedBy(cmd.OwnerID) {
		return errors.NewAccessDeniedError(cmd.RoadmapID)
	}

	if err := h.accessRepo.Delete(ctx, cmd.RoadmapID, cmd.TargetUserID); err != nil {
		return err
	}

	remaining, err := h.accessRepo.FindByRoadmap(ctx, cmd.RoadmapID)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		roadmap.MarkPrivate()
		if err := h.roadmapRepo.Save(ctx, roadmap); err != nil {
			return err
		}
	}

	event := events.NewAccessRevoked(cmd.RoadmapID, cmd.TargetUserID, time.Now())
	if err := h.eventPublisher.Publish(ctx, event); err != nil {
		h.logger.Warn("failed to publish access revoked event",
			zap.String("roadmap_id", cmd.RoadmapID),
			zap.Error(err))
	}

	return nil
}
