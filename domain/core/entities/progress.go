package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"roadmap-backend/domain/core/valueobjects"
	"roadmap-backend/domain/versioning"
	"roadmap-backend/pkg/errors"
)

// ProgressStatus is a user's completion state for one topic
type ProgressStatus string

const (
	StatusPending    ProgressStatus = "Pending"
	StatusInProgress ProgressStatus = "InProgress"
	StatusClosed     ProgressStatus = "Closed"

	// StatusChangedByAuthor is system-only: the reconciler sets it when
	// the author substantively edits a topic the user had state on.
	// Users can never request it directly.
	StatusChangedByAuthor ProgressStatus = "ChangedByAuthor"
)

// ParseProgressStatus parses a status string
func ParseProgressStatus(s string) (ProgressStatus, error) {
	switch ProgressStatus(s) {
	case StatusPending, StatusInProgress, StatusClosed, StatusChangedByAuthor:
		return ProgressStatus(s), nil
	default:
		return "", errors.NewValidationError(fmt.Sprintf("unknown progress status %q", s))
	}
}

// UserAssignable reports whether a user may request this status directly
func (s ProgressStatus) UserAssignable() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusClosed:
		return true
	default:
		return false
	}
}

// ProgressItem is one (topic, status) entry of a progress record
type ProgressItem struct {
	TopicID valueobjects.TopicID `json:"topicId"`
	Status  ProgressStatus       `json:"status"`
}

// Progress is a user's per-topic completion state for one roadmap.
// Exactly one record exists per (user, roadmap) pair. Items keep
// insertion order so stored and rendered output stays stable.
type Progress struct {
	id        string
	userID    string
	roadmapID string
	items     []ProgressItem
	index     map[valueobjects.TopicID]int
	createdAt time.Time
	updatedAt time.Time
	version   int
}

// NewProgress creates a progress record with every topic Pending
func NewProgress(userID, roadmapID string, topics []valueobjects.TopicID) (*Progress, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user ID cannot be empty")
	}
	if roadmapID == "" {
		return nil, errors.NewValidationError("roadmap ID cannot be empty")
	}

	now := time.Now()
	p := &Progress{
		id:        uuid.New().String(),
		userID:    userID,
		roadmapID: roadmapID,
		items:     make([]ProgressItem, 0, len(topics)),
		index:     make(map[valueobjects.TopicID]int, len(topics)),
		createdAt: now,
		updatedAt: now,
		version:   0,
	}
	for _, topicID := range topics {
		p.upsert(topicID, StatusPending)
	}
	return p, nil
}

// ReconstructProgress rebuilds a progress record from storage
func ReconstructProgress(id, userID, roadmapID string, items []ProgressItem, createdAt, updatedAt time.Time, version int) *Progress {
	p := &Progress{
		id:        id,
		userID:    userID,
		roadmapID: roadmapID,
		items:     make([]ProgressItem, 0, len(items)),
		index:     make(map[valueobjects.TopicID]int, len(items)),
		createdAt: createdAt,
		updatedAt: updatedAt,
		version:   version,
	}
	for _, item := range items {
		p.upsert(item.TopicID, item.Status)
	}
	return p
}

func (p *Progress) ID() string            { return p.id }
func (p *Progress) UserID() string        { return p.userID }
func (p *Progress) RoadmapID() string     { return p.roadmapID }
func (p *Progress) CreatedAt() time.Time  { return p.createdAt }
func (p *Progress) UpdatedAt() time.Time  { return p.updatedAt }
func (p *Progress) Version() int          { return p.version }

// Items returns a copy of the record's entries in stable order
func (p *Progress) Items() []ProgressItem {
	out := make([]ProgressItem, len(p.items))
	copy(out, p.items)
	return out
}

// StatusOf returns the status for one topic
func (p *Progress) StatusOf(topicID valueobjects.TopicID) (ProgressStatus, bool) {
	pos, ok := p.index[topicID]
	if !ok {
		return "", false
	}
	return p.items[pos].Status, true
}

// SetTopicStatus applies a user-requested status change to one topic.
// ChangedByAuthor is rejected; it is produced only by reconciliation.
func (p *Progress) SetTopicStatus(topicID valueobjects.TopicID, status ProgressStatus) error {
	if !status.UserAssignable() {
		return errors.NewInvalidTransitionError(string(status))
	}
	p.upsert(topicID, status)
	p.touch()
	return nil
}

// ApplyDiff reconciles the record against a content diff: removed
// topics are dropped, modified topics become ChangedByAuthor, added
// topics are upserted as Pending. Upsert-by-id keeps the operation
// idempotent; replaying the same diff leaves the record unchanged.
// Returns true when any entry changed.
func (p *Progress) ApplyDiff(diff *versioning.ContentDiff) bool {
	if diff == nil || diff.IsEmpty() {
		return false
	}

	changed := false

	for _, topicID := range diff.Removed {
		if p.remove(topicID) {
			changed = true
		}
	}

	for _, topicID := range diff.Modified {
		pos, ok := p.index[topicID]
		if !ok {
			continue
		}
		if p.items[pos].Status != StatusChangedByAuthor {
			p.items[pos].Status = StatusChangedByAuthor
			changed = true
		}
	}

	for _, topicID := range diff.Added {
		if _, ok := p.index[topicID]; ok {
			continue
		}
		p.upsert(topicID, StatusPending)
		changed = true
	}

	if changed {
		p.touch()
	}
	return changed
}

func (p *Progress) upsert(topicID valueobjects.TopicID, status ProgressStatus) {
	if pos, ok := p.index[topicID]; ok {
		p.items[pos].Status = status
		return
	}
	p.index[topicID] = len(p.items)
	p.items = append(p.items, ProgressItem{TopicID: topicID, Status: status})
}

func (p *Progress) remove(topicID valueobjects.TopicID) bool {
	pos, ok := p.index[topicID]
	if !ok {
		return false
	}
	p.items = append(p.items[:pos], p.items[pos+1:]...)
	delete(p.index, topicID)
	for i := pos; i < len(p.items); i++ {
		p.index[p.items[i].TopicID] = i
	}
	return true
}

func (p *Progress) touch() {
	p.updatedAt = time.Now()
	p.version++
}
