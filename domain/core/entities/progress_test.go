package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmap-backend/domain/core/valueobjects"
	"roadmap-backend/domain/versioning"
	appErrors "roadmap-backend/pkg/errors"
)

func topicIDs(t *testing.T, n int) []valueobjects.TopicID {
	t.Helper()
	out := make([]valueobjects.TopicID, n)
	for i := range out {
		out[i] = valueobjects.NewTopicID()
	}
	return out
}

func TestNewProgress(t *testing.T) {
	topics := topicIDs(t, 3)

	progress, err := NewProgress("user-1", "roadmap-1", topics)
	require.NoError(t, err)

	items := progress.Items()
	require.Len(t, items, 3)
	for i, item := range items {
		assert.Equal(t, topics[i], item.TopicID)
		assert.Equal(t, StatusPending, item.Status)
	}

	_, err = NewProgress("", "roadmap-1", topics)
	assert.Error(t, err)
	_, err = NewProgress("user-1", "", topics)
	assert.Error(t, err)
}

func TestSetTopicStatus(t *testing.T) {
	topics := topicIDs(t, 1)
	progress, err := NewProgress("user-1", "roadmap-1", topics)
	require.NoError(t, err)

	t.Run("user statuses move freely in any direction", func(t *testing.T) {
		for _, status := range []ProgressStatus{StatusInProgress, StatusClosed, StatusPending, StatusClosed} {
			require.NoError(t, progress.SetTopicStatus(topics[0], status))
			got, ok := progress.StatusOf(topics[0])
			require.True(t, ok)
			assert.Equal(t, status, got)
		}
	})

	t.Run("ChangedByAuthor is not user assignable", func(t *testing.T) {
		err := progress.SetTopicStatus(topics[0], StatusChangedByAuthor)
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.CodeInvalidTransition))

		// The prior status survives a rejected change
		got, _ := progress.StatusOf(topics[0])
		assert.Equal(t, StatusClosed, got)
	})

	t.Run("clearing ChangedByAuthor back to a user status", func(t *testing.T) {
		record := ReconstructProgress("p-1", "user-1", "roadmap-1", []ProgressItem{
			{TopicID: topics[0], Status: StatusChangedByAuthor},
		}, progress.CreatedAt(), progress.UpdatedAt(), 1)

		require.NoError(t, record.SetTopicStatus(topics[0], StatusInProgress))
		got, _ := record.StatusOf(topics[0])
		assert.Equal(t, StatusInProgress, got)
	})
}

func TestApplyDiff(t *testing.T) {
	topics := topicIDs(t, 3)
	a, b, c := topics[0], topics[1], topics[2]

	build := func(t *testing.T) *Progress {
		t.Helper()
		progress, err := NewProgress("user-1", "roadmap-1", []valueobjects.TopicID{a, b})
		require.NoError(t, err)
		require.NoError(t, progress.SetTopicStatus(a, StatusInProgress))
		require.NoError(t, progress.SetTopicStatus(b, StatusClosed))
		return progress
	}

	t.Run("removed dropped, added pending, modified flagged", func(t *testing.T) {
		progress := build(t)

		diff := &versioning.ContentDiff{
			Added:    []valueobjects.TopicID{c},
			Removed:  []valueobjects.TopicID{b},
			Modified: []valueobjects.TopicID{a},
		}

		changed := progress.ApplyDiff(diff)
		assert.True(t, changed)

		_, ok := progress.StatusOf(b)
		assert.False(t, ok)

		gotA, _ := progress.StatusOf(a)
		assert.Equal(t, StatusChangedByAuthor, gotA)

		gotC, _ := progress.StatusOf(c)
		assert.Equal(t, StatusPending, gotC)
	})

	t.Run("replay is idempotent", func(t *testing.T) {
		progress := build(t)

		diff := &versioning.ContentDiff{
			Added:    []valueobjects.TopicID{c},
			Removed:  []valueobjects.TopicID{b},
			Modified: []valueobjects.TopicID{a},
		}

		require.True(t, progress.ApplyDiff(diff))
		before := progress.Items()
		version := progress.Version()

		assert.False(t, progress.ApplyDiff(diff))
		assert.Equal(t, before, progress.Items())
		assert.Equal(t, version, progress.Version())
	})

	t.Run("added topic never clobbers existing state", func(t *testing.T) {
		progress := build(t)

		changed := progress.ApplyDiff(&versioning.ContentDiff{Added: []valueobjects.TopicID{a}})
		assert.False(t, changed)

		gotA, _ := progress.StatusOf(a)
		assert.Equal(t, StatusInProgress, gotA)
	})

	t.Run("modified topic missing from record is skipped", func(t *testing.T) {
		progress := build(t)

		changed := progress.ApplyDiff(&versioning.ContentDiff{Modified: []valueobjects.TopicID{c}})
		assert.False(t, changed)
	})

	t.Run("empty and nil diffs are no-ops", func(t *testing.T) {
		progress := build(t)
		version := progress.Version()

		assert.False(t, progress.ApplyDiff(nil))
		assert.False(t, progress.ApplyDiff(&versioning.ContentDiff{}))
		assert.Equal(t, version, progress.Version())
	})
}

func TestParseProgressStatus(t *testing.T) {
	for _, valid := range []string{"Pending", "InProgress", "Closed", "ChangedByAuthor"} {
		status, err := ParseProgressStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, ProgressStatus(valid), status)
	}

	_, err := ParseProgressStatus("Done")
	assert.Error(t, err)

	// Status names are case sensitive
	_, err = ParseProgressStatus("pending")
	assert.Error(t, err)
}

func TestUserAssignable(t *testing.T) {
	assert.True(t, StatusPending.UserAssignable())
	assert.True(t, StatusInProgress.UserAssignable())
	assert.True(t, StatusClosed.UserAssignable())
	assert.False(t, StatusChangedByAuthor.UserAssignable())
}
