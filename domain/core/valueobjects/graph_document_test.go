package valueobjects

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "roadmap-backend/pkg/errors"
)

const (
	topicA = "11111111-1111-4111-8111-111111111111"
	topicB = "22222222-2222-4222-8222-222222222222"
)

func nodeCell(id, text string) string {
	return fmt.Sprintf(`{"id":%q,"attrs":{"text":{"text":%q}}}`, id, text)
}

func TestDecodeGraphDocument(t *testing.T) {
	t.Run("decodes topics and skips edges", func(t *testing.T) {
		data := []byte(`{"cells":[` +
			nodeCell(topicA, "Learn Go") + `,` +
			`{"shape":"edge","source":{"cell":"` + topicA + `"},"target":{"cell":"` + topicB + `"}},` +
			nodeCell(topicB, "Learn SQL") +
			`]}`)

		doc, err := DecodeGraphDocument(data)
		require.NoError(t, err)

		assert.Equal(t, 3, doc.CellCount())
		assert.Equal(t, 2, doc.TopicCount())

		topics := doc.Topics()
		require.Len(t, topics, 2)
		assert.Equal(t, topicA, topics[0].String())
		assert.Equal(t, topicB, topics[1].String())

		idA, _ := NewTopicIDFromString(topicA)
		details, ok := doc.TopicDetails(idA)
		require.True(t, ok)
		assert.Equal(t, "Learn Go", details.Text)
		assert.Nil(t, details.Data)
	})

	t.Run("edge cells carry no topic identity", func(t *testing.T) {
		data := []byte(`{"cells":[{"shape":"edge"}]}`)

		doc, err := DecodeGraphDocument(data)
		require.NoError(t, err)

		assert.Equal(t, 1, doc.CellCount())
		assert.Equal(t, 0, doc.TopicCount())
		assert.Empty(t, doc.Topics())
	})

	t.Run("empty input is malformed", func(t *testing.T) {
		_, err := DecodeGraphDocument(nil)
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.CodeMalformedDocument))

		_, err = DecodeGraphDocument([]byte("   "))
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.CodeMalformedDocument))
	})

	t.Run("invalid JSON is malformed", func(t *testing.T) {
		_, err := DecodeGraphDocument([]byte(`{"cells":[`))
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.CodeMalformedDocument))
	})

	t.Run("node cell without parsable id is malformed", func(t *testing.T) {
		_, err := DecodeGraphDocument([]byte(`{"cells":[{"id":"not-a-uuid"}]}`))
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.CodeMalformedDocument))
	})

	t.Run("duplicate topic id is malformed", func(t *testing.T) {
		data := []byte(`{"cells":[` + nodeCell(topicA, "one") + `,` + nodeCell(topicA, "two") + `]}`)

		_, err := DecodeGraphDocument(data)
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.CodeMalformedDocument))
	})

	t.Run("document without cells decodes empty", func(t *testing.T) {
		doc, err := DecodeGraphDocument([]byte(`{}`))
		require.NoError(t, err)
		assert.Equal(t, 0, doc.CellCount())
	})
}

func TestGraphDocumentRoundTrip(t *testing.T) {
	// Unknown fields and formatting must survive untouched
	data := []byte(`{"cells":[{"id":"` + topicA + `","zIndex":4,"attrs":{"text":{"text":"Learn Go"},"body":{"fill":"#fff"}},"data":{"label":"basics"}}]}`)

	doc, err := DecodeGraphDocument(data)
	require.NoError(t, err)

	assert.Equal(t, data, doc.EncodeJSON())
}

func TestGraphDocumentChecksum(t *testing.T) {
	data := []byte(`{"cells":[` + nodeCell(topicA, "Learn Go") + `]}`)

	first, err := DecodeGraphDocument(data)
	require.NoError(t, err)
	second, err := DecodeGraphDocument(data)
	require.NoError(t, err)

	assert.Equal(t, first.Checksum(), second.Checksum())

	other, err := DecodeGraphDocument([]byte(`{"cells":[` + nodeCell(topicA, "Learn Rust") + `]}`))
	require.NoError(t, err)
	assert.NotEqual(t, first.Checksum(), other.Checksum())
}

func TestGraphDocumentNilReceiver(t *testing.T) {
	var doc *GraphDocument

	assert.Nil(t, doc.Topics())
	assert.Equal(t, 0, doc.TopicCount())
	assert.Equal(t, 0, doc.CellCount())
	assert.False(t, doc.HasTopic(NewTopicID()))
	assert.Equal(t, "", doc.Checksum())

	_, ok := doc.TopicDetails(NewTopicID())
	assert.False(t, ok)
}

func TestTopicDetailsEquals(t *testing.T) {
	withData := TopicDetails{Text: "a", Data: []byte(`{"x":1}`)}

	assert.True(t, withData.Equals(TopicDetails{Text: "a", Data: []byte(`{"x":1}`)}))
	assert.False(t, withData.Equals(TopicDetails{Text: "b", Data: []byte(`{"x":1}`)}))
	assert.False(t, withData.Equals(TopicDetails{Text: "a", Data: []byte(`{"x":2}`)}))
	assert.False(t, withData.Equals(TopicDetails{Text: "a"}))
	assert.True(t, TopicDetails{Text: "a"}.Equals(TopicDetails{Text: "a"}))
}
