package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"roadmap-backend/application/commands"
	"roadmap-backend/pkg/common"
	appErrors "roadmap-backend/pkg/errors"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	register *commands.RegisterUserHandler
	errors   *appErrors.ErrorHandler
	logger   *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(register *commands.RegisterUserHandler, errors *appErrors.ErrorHandler, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		register: register,
		errors:   errors,
		logger:   logger,
	}
}

// RegisterUserRequest represents the request body for registration
type RegisterUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// RegisterUserResponse represents the response for registration
type RegisterUserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// RegisterUser handles POST /users
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	cmd := commands.RegisterUserCommand{
		Email:    req.Email,
		Username: req.Username,
	}
	if err := cmd.Validate(); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	user, err := h.register.Handle(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, RegisterUserResponse{
		ID:        user.ID(),
		Email:     user.Email(),
		Username:  user.Username(),
		CreatedAt: user.CreatedAt().Format(time.RFC3339),
	})
}
