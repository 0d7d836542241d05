package commands

import (
	"context"

	"go.uber.org/zap"

	"roadmap-backend/application/ports"
	"roadmap-backend/domain/core/entities"
	"roadmap-backend/pkg/errors"
	"roadmap-backend/pkg/utils"
)

// RegisterUserCommand creates the platform-side user record backing
// an identity-provider account
type RegisterUserCommand struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=1,max=100"`
}

// Validate validates the command
func (cmd RegisterUserCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// RegisterUserHandler handles the RegisterUserCommand
type RegisterUserHandler struct {
	userRepo ports.UserRepository
	logger   *zap.Logger
}

// NewRegisterUserHandler creates a new handler instance
func NewRegisterUserHandler(userRepo ports.UserRepository, logger *zap.Logger) *RegisterUserHandler {
	return &RegisterUserHandler{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Handle executes the register user command
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*entities.User, error) {
	existing, err := h.userRepo.FindByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.NewConflictError("a user with this email already exists")
	}

	user, err := entities.NewUser(cmd.Email, cmd.Username)
	if err != nil {
		return nil, err
	}

	if err := h.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	h.logger.Info("user registered", zap.String("user_id", user.ID()))

	return user, nil
}
