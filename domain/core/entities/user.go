package entities

import (
	"time"

	"github.com/google/uuid"

	"roadmap-backend/pkg/errors"
)

// User holds the per-user collections the roadmap platform maintains:
// a bounded most-recent-first list of visited roadmaps and the set of
// starred roadmaps. Both are owned by the aggregate; callers never
// mutate them directly.
type User struct {
	id              string
	email           string
	username        string
	recentlyVisited []string
	starred         map[string]struct{}
	createdAt       time.Time
	updatedAt       time.Time
}

// NewUser creates a new user
func NewUser(email, username string) (*User, error) {
	if email == "" {
		return nil, errors.NewValidationError("email cannot be empty")
	}
	if username == "" {
		return nil, errors.NewValidationError("username cannot be empty")
	}

	now := time.Now()
	return &User{
		id:        uuid.New().String(),
		email:     email,
		username:  username,
		starred:   make(map[string]struct{}),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructUser rebuilds a user from storage
func ReconstructUser(id, email, username string, recentlyVisited []string, starred []string, createdAt, updatedAt time.Time) *User {
	u := &User{
		id:              id,
		email:           email,
		username:        username,
		recentlyVisited: append([]string(nil), recentlyVisited...),
		starred:         make(map[string]struct{}, len(starred)),
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
	for _, roadmapID := range starred {
		u.starred[roadmapID] = struct{}{}
	}
	return u
}

func (u *User) ID() string           { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) Username() string     { return u.username }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// RecordVisit moves a roadmap to the front of the recently visited
// list, evicting the oldest entry once the list exceeds limit
func (u *User) RecordVisit(roadmapID string, limit int) {
	if roadmapID == "" || limit <= 0 {
		return
	}

	visited := make([]string, 0, limit)
	visited = append(visited, roadmapID)
	for _, id := range u.recentlyVisited {
		if id == roadmapID {
			continue
		}
		visited = append(visited, id)
		if len(visited) == limit {
			break
		}
	}

	u.recentlyVisited = visited
	u.updatedAt = time.Now()
}

// ForgetVisit removes a roadmap from the recently visited list,
// used when a roadmap is deleted
func (u *User) ForgetVisit(roadmapID string) {
	for i, id := range u.recentlyVisited {
		if id == roadmapID {
			u.recentlyVisited = append(u.recentlyVisited[:i], u.recentlyVisited[i+1:]...)
			u.updatedAt = time.Now()
			return
		}
	}
}

// RecentlyVisited returns the visited roadmap ids, most recent first
func (u *User) RecentlyVisited() []string {
	return append([]string(nil), u.recentlyVisited...)
}

// Star marks a roadmap as starred
func (u *User) Star(roadmapID string) {
	if roadmapID == "" {
		return
	}
	if _, ok := u.starred[roadmapID]; ok {
		return
	}
	u.starred[roadmapID] = struct{}{}
	u.updatedAt = time.Now()
}

// Unstar removes a roadmap from the starred set
func (u *User) Unstar(roadmapID string) {
	if _, ok := u.starred[roadmapID]; !ok {
		return
	}
	delete(u.starred, roadmapID)
	u.updatedAt = time.Now()
}

// HasStarred reports whether a roadmap is starred
func (u *User) HasStarred(roadmapID string) bool {
	_, ok := u.starred[roadmapID]
	return ok
}

// Starred returns the starred roadmap ids in unspecified order
func (u *User) Starred() []string {
	out := make([]string, 0, len(u.starred))
	for roadmapID := range u.starred {
		out = append(out, roadmapID)
	}
	return out
}
