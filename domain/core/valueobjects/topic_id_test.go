package valueobjects

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTopicIDFromString(t *testing.T) {
	t.Run("accepts a valid uuid", func(t *testing.T) {
		id, err := NewTopicIDFromString("11111111-1111-4111-8111-111111111111")
		require.NoError(t, err)
		assert.Equal(t, "11111111-1111-4111-8111-111111111111", id.String())
	})

	t.Run("rejects empty and non-uuid values", func(t *testing.T) {
		_, err := NewTopicIDFromString("")
		assert.Error(t, err)

		_, err = NewTopicIDFromString("not-a-uuid")
		assert.Error(t, err)
	})
}

func TestTopicIDJSON(t *testing.T) {
	t.Run("round trips a valid id", func(t *testing.T) {
		original := NewTopicID()

		data, err := json.Marshal(original)
		require.NoError(t, err)

		var decoded TopicID
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, original.Equals(decoded))
	})

	t.Run("rejects a corrupt stored id", func(t *testing.T) {
		var id TopicID
		err := json.Unmarshal([]byte(`"not-a-uuid"`), &id)
		require.Error(t, err)
		assert.True(t, id.IsZero())
	})

	t.Run("rejects non-string values", func(t *testing.T) {
		var id TopicID
		assert.Error(t, json.Unmarshal([]byte(`42`), &id))
	})

	t.Run("null leaves the zero value", func(t *testing.T) {
		var id TopicID
		require.NoError(t, json.Unmarshal([]byte(`null`), &id))
		assert.True(t, id.IsZero())
	})
}
