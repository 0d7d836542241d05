package services

import (
	"context"

	"go.uber.org/zap"

	"roadmap-backend/application/ports"
	"roadmap-backend/domain/versioning"
	"roadmap-backend/pkg/errors"
)

// Reconciler applies a content diff to every progress record of a
// roadmap in one fan-out: removed topics are dropped, modified topics
// become ChangedByAuthor, added topics appear as Pending, and all
// untouched entries keep their status. The fan-out runs exactly once
// per content edit, never per viewer.
type Reconciler struct {
	progressRepo ports.ProgressRepository
	logger       *zap.Logger
}

// NewReconciler creates a new reconciler
func NewReconciler(progressRepo ports.ProgressRepository, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		progressRepo: progressRepo,
		logger:       logger,
	}
}

// Reconcile updates every progress record for the roadmap against the
// diff and returns how many records changed. A persistence failure
// aborts the fan-out and surfaces as a retryable error; re-running is
// safe because each record's update is keyed by topic id.
func (r *Reconciler) Reconcile(ctx context.Context, roadmapID string, diff *versioning.ContentDiff) (int, error) {
	if diff.IsEmpty() {
		return 0, nil
	}

	records, err := r.progressRepo.FindByRoadmap(ctx, roadmapID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to load progress records")
	}

	updated := 0
	for _, record := range records {
		if !record.ApplyDiff(diff) {
			continue
		}
		if err := r.progressRepo.Save(ctx, record); err != nil {
			r.logger.Error("progress reconciliation aborted",
				zap.String("roadmap_id", roadmapID),
				zap.String("user_id", record.UserID()),
				zap.Int("records_updated", updated),
				zap.Error(err))
			return updated, errors.Wrapf(err, "failed to persist progress for user %s", record.UserID())
		}
		updated++
	}

	r.logger.Info("progress reconciled",
		zap.String("roadmap_id", roadmapID),
		zap.Int("records_total", len(records)),
		zap.Int("records_updated", updated),
		zap.Int("topics_added", len(diff.Added)),
		zap.Int("topics_removed", len(diff.Removed)),
		zap.Int("topics_modified", len(diff.Modified)))

	return updated, nil
}
