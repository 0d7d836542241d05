package versioning

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmap-backend/domain/core/valueobjects"
)

const (
	topicA = "11111111-1111-4111-8111-111111111111"
	topicB = "22222222-2222-4222-8222-222222222222"
	topicC = "33333333-3333-4333-8333-333333333333"
)

func mustDecode(t *testing.T, cells ...string) *valueobjects.GraphDocument {
	t.Helper()
	data := "{\"cells\":["
	for i, cell := range cells {
		if i > 0 {
			data += ","
		}
		data += cell
	}
	data += "]}"

	doc, err := valueobjects.DecodeGraphDocument([]byte(data))
	require.NoError(t, err)
	return doc
}

func node(id, text string) string {
	return fmt.Sprintf(`{"id":%q,"attrs":{"text":{"text":%q}}}`, id, text)
}

func nodeWithData(id, text, data string) string {
	return fmt.Sprintf(`{"id":%q,"attrs":{"text":{"text":%q}},"data":%s}`, id, text, data)
}

func ids(t *testing.T, raw ...string) []valueobjects.TopicID {
	t.Helper()
	out := make([]valueobjects.TopicID, 0, len(raw))
	for _, r := range raw {
		id, err := valueobjects.NewTopicIDFromString(r)
		require.NoError(t, err)
		out = append(out, id)
	}
	return out
}

func TestDifferDiff(t *testing.T) {
	differ := NewDiffer()

	t.Run("added and removed", func(t *testing.T) {
		oldDoc := mustDecode(t, node(topicA, "a"), node(topicB, "b"))
		newDoc := mustDecode(t, node(topicB, "b"), node(topicC, "c"))

		diff := differ.Diff(oldDoc, newDoc)

		assert.Equal(t, ids(t, topicC), diff.Added)
		assert.Equal(t, ids(t, topicA), diff.Removed)
		assert.Empty(t, diff.Modified)
	})

	t.Run("text change marks modified", func(t *testing.T) {
		oldDoc := mustDecode(t, node(topicA, "Learn Go"))
		newDoc := mustDecode(t, node(topicA, "Master Go"))

		diff := differ.Diff(oldDoc, newDoc)

		assert.Empty(t, diff.Added)
		assert.Empty(t, diff.Removed)
		assert.Equal(t, ids(t, topicA), diff.Modified)
	})

	t.Run("data change marks modified", func(t *testing.T) {
		oldDoc := mustDecode(t, nodeWithData(topicA, "a", `{"level":1}`))
		newDoc := mustDecode(t, nodeWithData(topicA, "a", `{"level":2}`))

		diff := differ.Diff(oldDoc, newDoc)

		assert.Equal(t, ids(t, topicA), diff.Modified)
	})

	t.Run("layout-only change is not modified", func(t *testing.T) {
		oldDoc := mustDecode(t, `{"id":"`+topicA+`","x":10,"attrs":{"text":{"text":"a"}}}`)
		newDoc := mustDecode(t, `{"id":"`+topicA+`","x":99,"attrs":{"text":{"text":"a"}}}`)

		diff := differ.Diff(oldDoc, newDoc)

		assert.True(t, diff.IsEmpty())
	})

	t.Run("nil old document means everything is added", func(t *testing.T) {
		newDoc := mustDecode(t, node(topicA, "a"), node(topicB, "b"))

		diff := differ.Diff(nil, newDoc)

		assert.Equal(t, ids(t, topicA, topicB), diff.Added)
		assert.Empty(t, diff.Removed)
		assert.Empty(t, diff.Modified)
	})

	t.Run("identical documents short-circuit on checksum", func(t *testing.T) {
		data := []byte(`{"cells":[` + node(topicA, "a") + `]}`)
		oldDoc, err := valueobjects.DecodeGraphDocument(data)
		require.NoError(t, err)
		newDoc, err := valueobjects.DecodeGraphDocument(data)
		require.NoError(t, err)

		assert.True(t, differ.Diff(oldDoc, newDoc).IsEmpty())
	})

	t.Run("sets are pairwise disjoint", func(t *testing.T) {
		oldDoc := mustDecode(t, node(topicA, "a"), node(topicB, "b"))
		newDoc := mustDecode(t, node(topicB, "b2"), node(topicC, "c"))

		diff := differ.Diff(oldDoc, newDoc)

		seen := make(map[valueobjects.TopicID]int)
		for _, id := range diff.TopicIDs() {
			seen[id]++
		}
		for id, count := range seen {
			assert.Equal(t, 1, count, "topic %s appears in more than one set", id)
		}
	})
}

func TestContentDiffIsEmpty(t *testing.T) {
	var nilDiff *ContentDiff
	assert.True(t, nilDiff.IsEmpty())
	assert.True(t, (&ContentDiff{}).IsEmpty())
	assert.False(t, (&ContentDiff{Added: ids(t, topicA)}).IsEmpty())
}
