package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmap-backend/domain/core/valueobjects"
	appErrors "roadmap-backend/pkg/errors"
)

const sampleContent = `{"cells":[{"id":"11111111-1111-4111-8111-111111111111","attrs":{"text":{"text":"Learn Go"}}}]}`

func decodeContent(t *testing.T) *valueobjects.GraphDocument {
	t.Helper()
	doc, err := valueobjects.DecodeGraphDocument([]byte(sampleContent))
	require.NoError(t, err)
	return doc
}

func TestNewRoadmap(t *testing.T) {
	roadmap, err := NewRoadmap("owner-1", "Go from zero", "a path")
	require.NoError(t, err)

	assert.Equal(t, StatusPrivate, roadmap.Status())
	assert.False(t, roadmap.HasContent())
	assert.Equal(t, 0, roadmap.TopicsCount())
	assert.Len(t, roadmap.UncommittedEvents(), 1)

	_, err = NewRoadmap("", "name", "")
	assert.Error(t, err)
	_, err = NewRoadmap("owner-1", "", "")
	assert.Error(t, err)
}

func TestReplaceContent(t *testing.T) {
	t.Run("installs content and recomputes topic count", func(t *testing.T) {
		roadmap, err := NewRoadmap("owner-1", "Go from zero", "")
		require.NoError(t, err)

		require.NoError(t, roadmap.ReplaceContent("owner-1", decodeContent(t)))
		assert.True(t, roadmap.HasContent())
		assert.Equal(t, 1, roadmap.TopicsCount())
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		roadmap, err := NewRoadmap("owner-1", "Go from zero", "")
		require.NoError(t, err)

		err = roadmap.ReplaceContent("intruder", decodeContent(t))
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.CodeAccessDenied))
	})

	t.Run("published roadmaps are locked", func(t *testing.T) {
		roadmap, err := NewRoadmap("owner-1", "Go from zero", "")
		require.NoError(t, err)
		require.NoError(t, roadmap.ReplaceContent("owner-1", decodeContent(t)))
		require.NoError(t, roadmap.Publish("owner-1"))

		err = roadmap.ReplaceContent("owner-1", decodeContent(t))
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.CodeRoadmapLocked))
	})
}

func TestPublish(t *testing.T) {
	t.Run("requires content", func(t *testing.T) {
		roadmap, err := NewRoadmap("owner-1", "Go from zero", "")
		require.NoError(t, err)

		assert.Error(t, roadmap.Publish("owner-1"))
	})

	t.Run("owner only", func(t *testing.T) {
		roadmap, err := NewRoadmap("owner-1", "Go from zero", "")
		require.NoError(t, err)
		require.NoError(t, roadmap.ReplaceContent("owner-1", decodeContent(t)))

		err = roadmap.Publish("intruder")
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.CodeAccessDenied))
	})

	t.Run("publishing twice conflicts", func(t *testing.T) {
		roadmap, err := NewRoadmap("owner-1", "Go from zero", "")
		require.NoError(t, err)
		require.NoError(t, roadmap.ReplaceContent("owner-1", decodeContent(t)))
		require.NoError(t, roadmap.Publish("owner-1"))

		err = roadmap.Publish("owner-1")
		require.Error(t, err)
		assert.True(t, appErrors.IsConflict(err))
	})
}

func TestSharingTransitions(t *testing.T) {
	roadmap, err := NewRoadmap("owner-1", "Go from zero", "")
	require.NoError(t, err)

	roadmap.MarkShared()
	assert.Equal(t, StatusPrivateSharing, roadmap.Status())

	// no-op while already sharing
	roadmap.MarkShared()
	assert.Equal(t, StatusPrivateSharing, roadmap.Status())

	roadmap.MarkPrivate()
	assert.Equal(t, StatusPrivate, roadmap.Status())

	// publishing pins the status; MarkPrivate cannot undo it
	require.NoError(t, roadmap.ReplaceContent("owner-1", decodeContent(t)))
	require.NoError(t, roadmap.Publish("owner-1"))
	roadmap.MarkPrivate()
	assert.Equal(t, StatusPublic, roadmap.Status())
}
