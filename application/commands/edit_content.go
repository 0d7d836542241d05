package commands

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"roadmap-backend/application/ports"
	"roadmap-backend/application/services"
	"roadmap-backend/domain/core/validators"
	"roadmap-backend/domain/events"
	"roadmap-backend/domain/versioning"
	"roadmap-backend/pkg/errors"
	"roadmap-backend/pkg/observability"
	"roadmap-backend/pkg/utils"
)

// lockTTL bounds how long a content edit may hold the roadmap lock
const lockTTL = 30 * time.Second

// EditRoadmapContentCommand replaces a roadmap's content document.
// The edit diffs the new document against the stored one and
// reconciles every user's progress record before the edit commits.
type EditRoadmapContentCommand struct {
	RoadmapID string          `json:"roadmap_id" validate:"required,uuid"`
	EditorID  string          `json:"editor_id" validate:"required"`
	Content   json.RawMessage `json:"content" validate:"required"`
}

// Validate validates the command
func (cmd EditRoadmapContentCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// EditContentHandler handles the EditRoadmapContentCommand
type EditContentHandler struct {
	roadmapRepo    ports.RoadmapRepository
	validator      *validators.DocumentValidator
	differ         *versioning.Differ
	reconciler     *services.Reconciler
	lock           ports.DistributedLock
	eventPublisher ports.EventPublisher
	tracer         *observability.Tracer
	logger         *zap.Logger
}

// NewEditContentHandler creates a new handler instance
func NewEditContentHandler(
	roadmapRepo ports.RoadmapRepository,
	validator *validators.DocumentValidator,
	differ *versioning.Differ,
	reconciler *services.Reconciler,
	lock ports.DistributedLock,
	eventPublisher ports.EventPublisher,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *EditContentHandler {
	return &EditContentHandler{
		roadmapRepo:    roadmapRepo,
		validator:      validator,
		differ:         differ,
		reconciler:     reconciler,
		lock:           lock,
		eventPublisher: eventPublisher,
		tracer:         tracer,
		logger:         logger,
	}
}

// Handle executes the content edit as one logical unit of work:
// validate the document, serialize per roadmap, diff against the
// stored content, reconcile every progress record, then persist the
// new content. A reconciliation failure aborts before the content is
// committed, so a retry re-runs the whole edit against unchanged
// stored content.
func (h *EditContentHandler) Handle(ctx context.Context, cmd EditRoadmapContentCommand) error {
	return h.tracer.TraceFunction(ctx, "EditRoadmapContent", func(ctx context.Context) error {
		// Decode before touching anything; malformed input must fail
		// with zero side effects
		newDoc, err := h.validator.ValidateDocument(cmd.Content)
		if err != nil {
			return err
		}

		unlocker, err := h.lock.Acquire(ctx, cmd.RoadmapID, lockTTL)
		if err != nil {
			return err
		}
		defer unlocker.Release(ctx)

		roadmap, err := h.roadmapRepo.FindByID(ctx, cmd.RoadmapID)
		if err != nil {
			return err
		}
		if roadmap == nil {
			return errors.NewNotFoundError("roadmap")
		}

		oldDoc := roadmap.Content()
		diff := h.differ.Diff(oldDoc, newDoc)

		if err := roadmap.ReplaceContent(cmd.EditorID, newDoc); err != nil {
			return err
		}

		// Reconcile before committing the content so the caller never
		// observes new content with stale progress
		updated, err := h.reconciler.Reconcile(ctx, cmd.RoadmapID, diff)
		if err != nil {
			return err
		}

		if err := h.roadmapRepo.Save(ctx, roadmap); err != nil {
			return err
		}

		now := time.Now()
		contentEvent := events.NewRoadmapContentUpdated(
			cmd.RoadmapID, cmd.EditorID, roadmap.TopicsCount(), newDoc.Checksum(), diff, now)
		reconcileEvent := events.NewProgressReconciled(cmd.RoadmapID, updated, now)
		if err := h.eventPublisher.Publish(ctx, contentEvent, reconcileEvent); err != nil {
			h.logger.Warn("failed to publish content update events",
				zap.String("roadmap_id", cmd.RoadmapID),
				zap.Error(err))
		}

		h.tracer.AddAnnotation(ctx, "roadmap_id", cmd.RoadmapID)
		h.logger.Info("roadmap content updated",
			zap.String("roadmap_id", cmd.RoadmapID),
			zap.String("editor_id", cmd.EditorID),
			zap.Int("topics_count", roadmap.TopicsCount()),
			zap.Int("topics_added", len(diff.Added)),
			zap.Int("topics_removed", len(diff.Removed)),
			zap.Int("topics_modified", len(diff.Modified)),
			zap.Int("progress_records_updated", updated))

		return nil
	})
}
