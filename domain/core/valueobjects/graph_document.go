package valueobjects

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	appErrors "roadmap-backend/pkg/errors"
)

// CellKind discriminates the two cell variants of a graph document
type CellKind string

const (
	CellKindNode CellKind = "node"
	CellKindEdge CellKind = "edge"
)

// edgeShape is the shape tag marking connector cells
const edgeShape = "edge"

// Cell is one element of a graph document, decoded once at the
// boundary. Edge cells carry no topic identity. The original cell
// JSON is retained so re-encoding is lossless.
type Cell struct {
	kind CellKind
	id   TopicID
	text string
	data json.RawMessage
	raw  json.RawMessage
}

// Kind returns the cell variant
func (c Cell) Kind() CellKind {
	return c.kind
}

// TopicID returns the topic identifier; zero for edge cells
func (c Cell) TopicID() TopicID {
	return c.id
}

// Text returns the display label of a node cell
func (c Cell) Text() string {
	return c.text
}

// Data returns the free-form payload of a node cell, nil when absent
func (c Cell) Data() json.RawMessage {
	return c.data
}

// TopicDetails is the comparable payload of one topic node
type TopicDetails struct {
	Text string
	Data json.RawMessage
}

// Equals reports whether two payloads are identical. A nil data field
// and a present one never compare equal.
func (d TopicDetails) Equals(other TopicDetails) bool {
	if d.Text != other.Text {
		return false
	}
	if (d.Data == nil) != (other.Data == nil) {
		return false
	}
	return bytes.Equal(d.Data, other.Data)
}

// GraphDocument is an immutable parsed representation of a roadmap's
// content: an ordered sequence of cells plus the original serialized
// form for lossless round trips.
type GraphDocument struct {
	cells []Cell
	index map[TopicID]int
	raw   []byte
}

// rawDocument mirrors the serialized document envelope
type rawDocument struct {
	Cells []json.RawMessage `json:"cells"`
}

// rawCell probes the fields this engine cares about; everything else
// stays untouched inside the retained raw JSON
type rawCell struct {
	Shape string `json:"shape"`
	ID    string `json:"id"`
	Attrs struct {
		Text struct {
			Text string `json:"text"`
		} `json:"text"`
	} `json:"attrs"`
	Data json.RawMessage `json:"data"`
}

// DecodeGraphDocument parses serialized roadmap content into a typed
// document. Cells whose shape is "edge" are connectors; every other
// cell is a topic node and must carry a parsable id. Duplicate topic
// ids or unparsable input fail with a malformed-document error.
func DecodeGraphDocument(data []byte) (*GraphDocument, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, appErrors.NewMalformedDocumentError("content document is empty")
	}

	var envelope rawDocument
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, appErrors.NewMalformedDocumentError(fmt.Sprintf("content is not valid JSON: %v", err))
	}

	doc := &GraphDocument{
		cells: make([]Cell, 0, len(envelope.Cells)),
		index: make(map[TopicID]int),
		raw:   append([]byte(nil), data...),
	}

	for i, rawJSON := range envelope.Cells {
		var probe rawCell
		if err := json.Unmarshal(rawJSON, &probe); err != nil {
			return nil, appErrors.NewMalformedDocumentError(fmt.Sprintf("cell %d is not an object: %v", i, err))
		}

		if probe.Shape == edgeShape {
			doc.cells = append(doc.cells, Cell{
				kind: CellKindEdge,
				raw:  rawJSON,
			})
			continue
		}

		topicID, err := NewTopicIDFromString(probe.ID)
		if err != nil {
			return nil, appErrors.NewMalformedDocumentError(fmt.Sprintf("cell %d has no parsable topic id: %v", i, err))
		}
		if _, exists := doc.index[topicID]; exists {
			return nil, appErrors.NewMalformedDocumentError(fmt.Sprintf("duplicate topic id %s", topicID))
		}

		doc.index[topicID] = len(doc.cells)
		doc.cells = append(doc.cells, Cell{
			kind: CellKindNode,
			id:   topicID,
			text: probe.Attrs.Text.Text,
			data: probe.Data,
			raw:  rawJSON,
		})
	}

	return doc, nil
}

// Topics returns the ordered topic ids of all node cells. A nil
// document yields an empty slice.
func (d *GraphDocument) Topics() []TopicID {
	if d == nil {
		return nil
	}
	topics := make([]TopicID, 0, len(d.index))
	for _, cell := range d.cells {
		if cell.kind == CellKindNode {
			topics = append(topics, cell.id)
		}
	}
	return topics
}

// TopicDetails returns the comparable payload of the topic with the
// given id. The second return value is false when no node cell
// carries that id.
func (d *GraphDocument) TopicDetails(id TopicID) (TopicDetails, bool) {
	if d == nil {
		return TopicDetails{}, false
	}
	pos, ok := d.index[id]
	if !ok {
		return TopicDetails{}, false
	}
	cell := d.cells[pos]
	return TopicDetails{Text: cell.text, Data: cell.data}, true
}

// HasTopic reports whether a node cell with the given id exists
func (d *GraphDocument) HasTopic(id TopicID) bool {
	if d == nil {
		return false
	}
	_, ok := d.index[id]
	return ok
}

// TopicCount returns the number of node cells
func (d *GraphDocument) TopicCount() int {
	if d == nil {
		return 0
	}
	return len(d.index)
}

// CellCount returns the total number of cells, edges included
func (d *GraphDocument) CellCount() int {
	if d == nil {
		return 0
	}
	return len(d.cells)
}

// Cells returns the ordered cells of the document
func (d *GraphDocument) Cells() []Cell {
	if d == nil {
		return nil
	}
	return d.cells
}

// EncodeJSON returns the original serialized form, byte for byte
func (d *GraphDocument) EncodeJSON() []byte {
	if d == nil {
		return nil
	}
	return d.raw
}

// Checksum returns a hex SHA-256 digest over the serialized form,
// used to short-circuit no-op content edits
func (d *GraphDocument) Checksum() string {
	if d == nil {
		return ""
	}
	sum := sha256.Sum256(d.raw)
	return hex.EncodeToString(sum[:])
}
