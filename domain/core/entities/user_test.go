package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordVisit(t *testing.T) {
	user, err := NewUser("reader@example.com", "reader")
	require.NoError(t, err)

	t.Run("most recent first", func(t *testing.T) {
		user.RecordVisit("r1", 5)
		user.RecordVisit("r2", 5)
		user.RecordVisit("r3", 5)

		assert.Equal(t, []string{"r3", "r2", "r1"}, user.RecentlyVisited())
	})

	t.Run("revisits move to the front without duplicating", func(t *testing.T) {
		user.RecordVisit("r1", 5)

		assert.Equal(t, []string{"r1", "r3", "r2"}, user.RecentlyVisited())
	})

	t.Run("list is bounded", func(t *testing.T) {
		for _, id := range []string{"r4", "r5", "r6"} {
			user.RecordVisit(id, 5)
		}

		visited := user.RecentlyVisited()
		assert.Len(t, visited, 5)
		assert.Equal(t, []string{"r6", "r5", "r4", "r1", "r3"}, visited)
	})

	t.Run("forgetting a roadmap removes it", func(t *testing.T) {
		user.ForgetVisit("r5")
		assert.NotContains(t, user.RecentlyVisited(), "r5")
	})
}

func TestStarring(t *testing.T) {
	user, err := NewUser("reader@example.com", "reader")
	require.NoError(t, err)

	assert.False(t, user.HasStarred("r1"))

	user.Star("r1")
	user.Star("r2")
	user.Star("r1") // idempotent

	assert.True(t, user.HasStarred("r1"))
	assert.ElementsMatch(t, []string{"r1", "r2"}, user.Starred())

	user.Unstar("r1")
	assert.False(t, user.HasStarred("r1"))
	assert.ElementsMatch(t, []string{"r2"}, user.Starred())
}

func TestNewUserValidation(t *testing.T) {
	_, err := NewUser("", "reader")
	assert.Error(t, err)

	_, err = NewUser("reader@example.com", "")
	assert.Error(t, err)
}
