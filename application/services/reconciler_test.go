package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roadmap-backend/domain/core/entities"
	"roadmap-backend/domain/core/valueobjects"
	"roadmap-backend/domain/versioning"
	"roadmap-backend/infrastructure/persistence/memory"
	appErrors "roadmap-backend/pkg/errors"
)

// throttlingProgressRepo fails Save once its write budget is spent
type throttlingProgressRepo struct {
	*memory.ProgressRepository
	allowed int
	saves   int
}

func (r *throttlingProgressRepo) Save(ctx context.Context, progress *entities.Progress) error {
	if r.saves >= r.allowed {
		return appErrors.NewDatabaseError("save progress", fmt.Errorf("throughput exceeded"))
	}
	r.saves++
	return r.ProgressRepository.Save(ctx, progress)
}

func seedRecord(t *testing.T, repo *memory.ProgressRepository, userID, roadmapID string, topics []valueobjects.TopicID) *entities.Progress {
	t.Helper()
	progress, err := entities.NewProgress(userID, roadmapID, topics)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), progress))
	return progress
}

func TestReconcilerFanOut(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProgressRepository()
	reconciler := NewReconciler(repo, zap.NewNop())

	a := valueobjects.NewTopicID()
	b := valueobjects.NewTopicID()
	c := valueobjects.NewTopicID()

	// Three readers with state on the same roadmap
	for i := 0; i < 3; i++ {
		seedRecord(t, repo, fmt.Sprintf("user-%d", i), "roadmap-1", []valueobjects.TopicID{a, b})
	}
	// A reader on a different roadmap must stay untouched
	other := seedRecord(t, repo, "user-9", "roadmap-2", []valueobjects.TopicID{a})

	diff := &versioning.ContentDiff{
		Added:    []valueobjects.TopicID{c},
		Removed:  []valueobjects.TopicID{b},
		Modified: []valueobjects.TopicID{a},
	}

	updated, err := reconciler.Reconcile(ctx, "roadmap-1", diff)
	require.NoError(t, err)
	assert.Equal(t, 3, updated)

	records, err := repo.FindByRoadmap(ctx, "roadmap-1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, record := range records {
		status, ok := record.StatusOf(a)
		require.True(t, ok)
		assert.Equal(t, entities.StatusChangedByAuthor, status)

		_, ok = record.StatusOf(b)
		assert.False(t, ok)

		status, ok = record.StatusOf(c)
		require.True(t, ok)
		assert.Equal(t, entities.StatusPending, status)
	}

	status, ok := other.StatusOf(a)
	require.True(t, ok)
	assert.Equal(t, entities.StatusPending, status)
}

func TestReconcilerIdempotentRerun(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProgressRepository()
	reconciler := NewReconciler(repo, zap.NewNop())

	a := valueobjects.NewTopicID()
	b := valueobjects.NewTopicID()
	seedRecord(t, repo, "user-1", "roadmap-1", []valueobjects.TopicID{a})

	diff := &versioning.ContentDiff{Added: []valueobjects.TopicID{b}, Modified: []valueobjects.TopicID{a}}

	updated, err := reconciler.Reconcile(ctx, "roadmap-1", diff)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	// Replaying the same diff converges without further writes
	updated, err = reconciler.Reconcile(ctx, "roadmap-1", diff)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}

func TestReconcilerPartialFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProgressRepository()

	a := valueobjects.NewTopicID()
	b := valueobjects.NewTopicID()
	for i := 0; i < 3; i++ {
		seedRecord(t, store, fmt.Sprintf("user-%d", i), "roadmap-1", []valueobjects.TopicID{a})
	}

	diff := &versioning.ContentDiff{
		Added:    []valueobjects.TopicID{b},
		Modified: []valueobjects.TopicID{a},
	}

	// The store fails on the second write of the fan-out
	flaky := &throttlingProgressRepo{ProgressRepository: store, allowed: 1}
	updated, err := NewReconciler(flaky, zap.NewNop()).Reconcile(ctx, "roadmap-1", diff)
	require.Error(t, err)
	assert.True(t, appErrors.IsRetryable(err))
	assert.Equal(t, 1, updated)

	// A full rerun against the healthy store converges every record
	_, err = NewReconciler(store, zap.NewNop()).Reconcile(ctx, "roadmap-1", diff)
	require.NoError(t, err)

	records, err := store.FindByRoadmap(ctx, "roadmap-1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, record := range records {
		status, ok := record.StatusOf(a)
		require.True(t, ok)
		assert.Equal(t, entities.StatusChangedByAuthor, status)

		status, ok = record.StatusOf(b)
		require.True(t, ok)
		assert.Equal(t, entities.StatusPending, status)
	}
}

func TestReconcilerEmptyDiff(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProgressRepository()
	reconciler := NewReconciler(repo, zap.NewNop())

	updated, err := reconciler.Reconcile(ctx, "roadmap-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)

	updated, err = reconciler.Reconcile(ctx, "roadmap-1", &versioning.ContentDiff{})
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}

func TestReconcilerNoRecords(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProgressRepository()
	reconciler := NewReconciler(repo, zap.NewNop())

	diff := &versioning.ContentDiff{Added: []valueobjects.TopicID{valueobjects.NewTopicID()}}

	updated, err := reconciler.Reconcile(ctx, "roadmap-1", diff)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}
