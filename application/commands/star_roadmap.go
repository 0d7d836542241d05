package commands

import (
	"context"

	"go.uber.org/zap"

	"roadmap-backend/application/ports"
	"roadmap-backend/application/services"
	"roadmap-backend/pkg/errors"
	"roadmap-backend/pkg/utils"
)

// StarRoadmapCommand adds a roadmap to the user's starred set
type StarRoadmapCommand struct {
	UserID    string `json:"user_id" validate:"required"`
	RoadmapID string `json:"roadmap_id" validate:"required,uuid"`
}

// Validate validates the command
func (cmd StarRoadmapCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// UnstarRoadmapCommand removes a roadmap from the user's starred set
type UnstarRoadmapCommand struct {
	UserID    string `json:"user_id" validate:"required"`
	RoadmapID string `json:"roadmap_id" validate:"required,uuid"`
}

// Validate validates the command
func (cmd UnstarRoadmapCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// StarHandler handles starring and unstarring
type StarHandler struct {
	userRepo ports.UserRepository
	access   *services.AccessService
	logger   *zap.Logger
}

// NewStarHandler creates a new handler instance
func NewStarHandler(userRepo ports.UserRepository, access *services.AccessService, logger *zap.Logger) *StarHandler {
	return &StarHandler{
		userRepo: userRepo,
		access:   access,
		logger:   logger,
	}
}

// HandleStar executes the star command. Starring requires viewing
// rights; you cannot bookmark what you cannot see.
func (h *StarHandler) HandleStar(ctx context.Context, cmd StarRoadmapCommand) error {
	user, err := h.userRepo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.NewNotFoundError("user")
	}

	allowed, err := h.access.HasViewAccess(ctx, cmd.UserID, cmd.RoadmapID)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.NewAccessDeniedError(cmd.RoadmapID)
	}

	user.Star(cmd.RoadmapID)
	return h.userRepo.Save(ctx, user)
}

// HandleUnstar executes the unstar command
func (h *StarHandler) HandleUnstar(ctx context.Context, cmd UnstarRoadmapCommand) error {
	user, err := h.userRepo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.NewNotFoundError("user")
	}

	user.Unstar(cmd.RoadmapID)
	return h.userRepo.Save(ctx, user)
}
