package events

import (
	"time"

	"roadmap-backend/domain/versioning"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Roadmap Events

// RoadmapCreated is raised when a new roadmap is created
type RoadmapCreated struct {
	BaseEvent
	RoadmapID string `json:"roadmap_id"`
	OwnerID   string `json:"owner_id"`
	Name      string `json:"name"`
}

// NewRoadmapCreated creates a RoadmapCreated event
func NewRoadmapCreated(roadmapID, ownerID, name string, timestamp time.Time) RoadmapCreated {
	return RoadmapCreated{
		BaseEvent: BaseEvent{
			AggregateID: roadmapID,
			EventType:   "roadmap.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		RoadmapID: roadmapID,
		OwnerID:   ownerID,
		Name:      name,
	}
}

// RoadmapContentUpdated is raised when a roadmap's content document
// changes. It carries the diff so downstream consumers can replay the
// progress reconciliation without re-deriving it.
type RoadmapContentUpdated struct {
	BaseEvent
	RoadmapID   string                   `json:"roadmap_id"`
	EditorID    string                   `json:"editor_id"`
	TopicsCount int                      `json:"topics_count"`
	Checksum    string                   `json:"checksum"`
	Diff        *versioning.ContentDiff  `json:"diff"`
}

// NewRoadmapContentUpdated creates a RoadmapContentUpdated event
func NewRoadmapContentUpdated(roadmapID, editorID string, topicsCount int, checksum string, diff *versioning.ContentDiff, timestamp time.Time) RoadmapContentUpdated {
	return RoadmapContentUpdated{
		BaseEvent: BaseEvent{
			AggregateID: roadmapID,
			EventType:   "roadmap.content_updated",
			Timestamp:   timestamp,
			Version:     1,
		},
		RoadmapID:   roadmapID,
		EditorID:    editorID,
		TopicsCount: topicsCount,
		Checksum:    checksum,
		Diff:        diff,
	}
}

// RoadmapPublished is raised when a roadmap becomes public
type RoadmapPublished struct {
	BaseEvent
	RoadmapID string `json:"roadmap_id"`
	OwnerID   string `json:"owner_id"`
}

// NewRoadmapPublished creates a RoadmapPublished event
func NewRoadmapPublished(roadmapID, ownerID string, timestamp time.Time) RoadmapPublished {
	return RoadmapPublished{
		BaseEvent: BaseEvent{
			AggregateID: roadmapID,
			EventType:   "roadmap.published",
			Timestamp:   timestamp,
			Version:     1,
		},
		RoadmapID: roadmapID,
		OwnerID:   ownerID,
	}
}

// RoadmapDeleted is raised when a roadmap is deleted
type RoadmapDeleted struct {
	BaseEvent
	RoadmapID string `json:"roadmap_id"`
	OwnerID   string `json:"owner_id"`
}

// NewRoadmapDeleted creates a RoadmapDeleted event
func NewRoadmapDeleted(roadmapID, ownerID string, timestamp time.Time) RoadmapDeleted {
	return RoadmapDeleted{
		BaseEvent: BaseEvent{
			AggregateID: roadmapID,
			EventType:   "roadmap.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		RoadmapID: roadmapID,
		OwnerID:   ownerID,
	}
}

// Access Events

// AccessGranted is raised when a user receives viewing rights on a
// privately shared roadmap
type AccessGranted struct {
	BaseEvent
	RoadmapID string `json:"roadmap_id"`
	UserID    string `json:"user_id"`
	GrantedBy string `json:"granted_by"`
}

// NewAccessGranted creates an AccessGranted event
func NewAccessGranted(roadmapID, userID, grantedBy string, timestamp time.Time) AccessGranted {
	return AccessGranted{
		BaseEvent: BaseEvent{
			AggregateID: roadmapID,
			EventType:   "roadmap.access_granted",
			Timestamp:   timestamp,
			Version:     1,
		},
		RoadmapID: roadmapID,
		UserID:    userID,
		GrantedBy: grantedBy,
	}
}

// AccessRevoked is raised when a user loses viewing rights
type AccessRevoked struct {
	BaseEvent
	RoadmapID string `json:"roadmap_id"`
	UserID    string `json:"user_id"`
}

// NewAccessRevoked creates an AccessRevoked event
func NewAccessRevoked(roadmapID, userID string, timestamp time.Time) AccessRevoked {
	return AccessRevoked{
		BaseEvent: BaseEvent{
			AggregateID: roadmapID,
			EventType:   "roadmap.access_revoked",
			Timestamp:   timestamp,
			Version:     1,
		},
		RoadmapID: roadmapID,
		UserID:    userID,
	}
}

// Progress Events

// ProgressReconciled is raised after every progress record of a
// roadmap has been updated against a content diff
type ProgressReconciled struct {
	BaseEvent
	RoadmapID      string `json:"roadmap_id"`
	RecordsUpdated int    `json:"records_updated"`
}

// NewProgressReconciled creates a ProgressReconciled event
func NewProgressReconciled(roadmapID string, recordsUpdated int, timestamp time.Time) ProgressReconciled {
	return ProgressReconciled{
		BaseEvent: BaseEvent{
			AggregateID: roadmapID,
			EventType:   "progress.reconciled",
			Timestamp:   timestamp,
			Version:     1,
		},
		RoadmapID:      roadmapID,
		RecordsUpdated: recordsUpdated,
	}
}

// ProgressStatusChanged is raised when a user changes one topic's status
type ProgressStatusChanged struct {
	BaseEvent
	RoadmapID string `json:"roadmap_id"`
	UserID    string `json:"user_id"`
	TopicID   string `json:"topic_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// NewProgressStatusChanged creates a ProgressStatusChanged event
func NewProgressStatusChanged(roadmapID, userID, topicID, oldStatus, newStatus string, timestamp time.Time) ProgressStatusChanged {
	return ProgressStatusChanged{
		BaseEvent: BaseEvent{
			AggregateID: roadmapID,
			EventType:   "progress.status_changed",
			Timestamp:   timestamp,
			Version:     1,
		},
		RoadmapID: roadmapID,
		UserID:    userID,
		TopicID:   topicID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}
}
