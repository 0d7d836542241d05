package aggregates

import (
	"time"

	"github.com/google/uuid"

	"roadmap-backend/domain/core/valueobjects"
	"roadmap-backend/domain/events"
	"roadmap-backend/pkg/errors"
)

// RoadmapID represents a unique roadmap identifier
type RoadmapID string

// NewRoadmapID creates a new random RoadmapID
func NewRoadmapID() RoadmapID {
	return RoadmapID(uuid.New().String())
}

// String returns the string representation
func (id RoadmapID) String() string {
	return string(id)
}

// RoadmapStatus is the sharing state of a roadmap
type RoadmapStatus string

const (
	// StatusPrivate: only the owner can see the roadmap
	StatusPrivate RoadmapStatus = "Private"
	// StatusPrivateSharing: the owner plus users holding a grant
	StatusPrivateSharing RoadmapStatus = "PrivateSharing"
	// StatusPublic: everyone. Published roadmaps are locked against
	// content edits.
	StatusPublic RoadmapStatus = "Public"
)

// ParseRoadmapStatus parses a status string
func ParseRoadmapStatus(s string) (RoadmapStatus, error) {
	switch RoadmapStatus(s) {
	case StatusPrivate, StatusPrivateSharing, StatusPublic:
		return RoadmapStatus(s), nil
	default:
		return "", errors.NewValidationError("unknown roadmap status " + s)
	}
}

// Roadmap is the aggregate root for an authored roadmap. It owns the
// content document, the denormalized topic count, and the sharing
// state machine, and is the consistency boundary for content edits.
type Roadmap struct {
	id          RoadmapID
	ownerID     string
	name        string
	description string
	content     *valueobjects.GraphDocument
	topicsCount int
	status      RoadmapStatus
	createdAt   time.Time
	updatedAt   time.Time
	version     int
	events      []events.DomainEvent
}

// NewRoadmap creates a new private roadmap without content
func NewRoadmap(ownerID, name, description string) (*Roadmap, error) {
	if ownerID == "" {
		return nil, errors.NewValidationError("owner ID cannot be empty")
	}
	if name == "" {
		return nil, errors.NewValidationError("roadmap name cannot be empty")
	}

	now := time.Now()
	roadmap := &Roadmap{
		id:          NewRoadmapID(),
		ownerID:     ownerID,
		name:        name,
		description: description,
		status:      StatusPrivate,
		createdAt:   now,
		updatedAt:   now,
		version:     1,
		events:      []events.DomainEvent{},
	}

	roadmap.addEvent(events.NewRoadmapCreated(roadmap.id.String(), ownerID, name, now))

	return roadmap, nil
}

// ReconstructRoadmap rebuilds a roadmap from storage. Content is nil
// when none has been authored yet.
func ReconstructRoadmap(id RoadmapID, ownerID, name, description string, content *valueobjects.GraphDocument, topicsCount int, status RoadmapStatus, createdAt, updatedAt time.Time, version int) *Roadmap {
	return &Roadmap{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		description: description,
		content:     content,
		topicsCount: topicsCount,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		version:     version,
		events:      []events.DomainEvent{},
	}
}

func (r *Roadmap) ID() RoadmapID         { return r.id }
func (r *Roadmap) OwnerID() string       { return r.ownerID }
func (r *Roadmap) Name() string          { return r.name }
func (r *Roadmap) Description() string   { return r.description }
func (r *Roadmap) TopicsCount() int      { return r.topicsCount }
func (r *Roadmap) Status() RoadmapStatus { return r.status }
func (r *Roadmap) CreatedAt() time.Time  { return r.createdAt }
func (r *Roadmap) UpdatedAt() time.Time  { return r.updatedAt }
func (r *Roadmap) Version() int          { return r.version }

// Content returns the current content document, nil when unset
func (r *Roadmap) Content() *valueobjects.GraphDocument {
	return r.content
}

// HasContent reports whether any content has been authored
func (r *Roadmap) HasContent() bool {
	return r.content != nil
}

// IsOwnedBy reports whether the given user owns this roadmap
func (r *Roadmap) IsOwnedBy(userID string) bool {
	return r.ownerID == userID
}

// IsPublic reports whether the roadmap is published
func (r *Roadmap) IsPublic() bool {
	return r.status == StatusPublic
}

// Rename updates the display name and description
func (r *Roadmap) Rename(name, description string) error {
	if name == "" {
		return errors.NewValidationError("roadmap name cannot be empty")
	}
	r.name = name
	r.description = description
	r.touch()
	return nil
}

// ReplaceContent installs a new content document and recomputes the
// denormalized topic count. Published roadmaps are locked. The editor
// must be the owner; callers verify that before invoking.
func (r *Roadmap) ReplaceContent(editorID string, doc *valueobjects.GraphDocument) error {
	if !r.IsOwnedBy(editorID) {
		return errors.NewAccessDeniedError(r.id.String())
	}
	if r.IsPublic() {
		return errors.NewRoadmapLockedError(r.id.String())
	}
	if doc == nil {
		return errors.NewMalformedDocumentError("content document is required")
	}

	r.content = doc
	r.topicsCount = doc.TopicCount()
	r.touch()
	return nil
}

// Publish makes the roadmap public. Requires content; a roadmap with
// nothing to learn cannot be published. Access grants become
// irrelevant once public and are dropped by the caller.
func (r *Roadmap) Publish(userID string) error {
	if !r.IsOwnedBy(userID) {
		return errors.NewAccessDeniedError(r.id.String())
	}
	if r.IsPublic() {
		return errors.NewConflictError("roadmap is already published")
	}
	if !r.HasContent() {
		return errors.NewValidationError("cannot publish a roadmap without content")
	}

	r.status = StatusPublic
	r.touch()
	r.addEvent(events.NewRoadmapPublished(r.id.String(), r.ownerID, r.updatedAt))
	return nil
}

// MarkShared transitions Private to PrivateSharing when the first
// grant is issued. No-op when already sharing or public.
func (r *Roadmap) MarkShared() {
	if r.status == StatusPrivate {
		r.status = StatusPrivateSharing
		r.touch()
	}
}

// MarkPrivate transitions PrivateSharing back to Private when the
// last grant is revoked. No-op otherwise.
func (r *Roadmap) MarkPrivate() {
	if r.status == StatusPrivateSharing {
		r.status = StatusPrivate
		r.touch()
	}
}

// UncommittedEvents returns events raised since the last commit
func (r *Roadmap) UncommittedEvents() []events.DomainEvent {
	return r.events
}

// MarkEventsCommitted clears the uncommitted events
func (r *Roadmap) MarkEventsCommitted() {
	r.events = []events.DomainEvent{}
}

func (r *Roadmap) addEvent(event events.DomainEvent) {
	r.events = append(r.events, event)
}

func (r *Roadmap) touch() {
	r.updatedAt = time.Now()
	r.version++
}
