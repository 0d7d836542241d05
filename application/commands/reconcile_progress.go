package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	cmdbus "roadmap-backend/application/commands/bus"
	"roadmap-backend/application/services"
	"roadmap-backend/domain/versioning"
	"roadmap-backend/pkg/errors"
)

// ReconcileProgressCommand replays a content diff against a roadmap's
// progress records. The retry worker dispatches it when an inline
// reconciliation failed partway; replaying is safe because each
// record's update is keyed by topic id.
type ReconcileProgressCommand struct {
	RoadmapID string                  `json:"roadmap_id"`
	Diff      *versioning.ContentDiff `json:"diff"`
}

// Validate validates the command
func (cmd ReconcileProgressCommand) Validate() error {
	if cmd.RoadmapID == "" {
		return errors.NewValidationError("roadmap ID cannot be empty")
	}
	if cmd.Diff == nil {
		return errors.NewValidationError("diff is required")
	}
	return nil
}

// ReconcileProgressHandler handles the ReconcileProgressCommand
type ReconcileProgressHandler struct {
	reconciler *services.Reconciler
	logger     *zap.Logger
}

// NewReconcileProgressHandler creates a new handler instance
func NewReconcileProgressHandler(reconciler *services.Reconciler, logger *zap.Logger) *ReconcileProgressHandler {
	return &ReconcileProgressHandler{
		reconciler: reconciler,
		logger:     logger,
	}
}

// Handle implements the command bus handler interface
func (h *ReconcileProgressHandler) Handle(ctx context.Context, cmd cmdbus.Command) error {
	reconcile, ok := cmd.(ReconcileProgressCommand)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}

	updated, err := h.reconciler.Reconcile(ctx, reconcile.RoadmapID, reconcile.Diff)
	if err != nil {
		return err
	}

	h.logger.Info("progress reconciliation replayed",
		zap.String("roadmap_id", reconcile.RoadmapID),
		zap.Int("records_updated", updated))

	return nil
}
