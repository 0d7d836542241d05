package queries

import (
	"encoding/json"
	"time"
)

// RoadmapView is the full read model for one roadmap, including the
// viewer's progress when content exists
type RoadmapView struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	TopicsCount int             `json:"topics_count"`
	Content     json.RawMessage `json:"content,omitempty"`
	Progress    *ProgressView   `json:"progress,omitempty"`
	Starred     bool            `json:"starred"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// RoadmapSummary is the listing read model
type RoadmapSummary struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	TopicsCount int       `json:"topics_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoadmapListView is one page of roadmap summaries
type RoadmapListView struct {
	Items      []RoadmapSummary `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// ProgressView is the read model for one user's progress record
type ProgressView struct {
	RoadmapID string             `json:"roadmap_id"`
	UserID    string             `json:"user_id"`
	Items     []ProgressItemView `json:"items"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ProgressItemView is one (topic, status) entry with display fields
// resolved from the current content
type ProgressItemView struct {
	TopicID string `json:"topic_id"`
	Text    string `json:"text,omitempty"`
	Status  string `json:"status"`
}
