package entities

import (
	"time"

	"github.com/google/uuid"

	"roadmap-backend/pkg/errors"
)

// AccessGrant gives one user viewing rights on one privately shared
// roadmap. Grants are dropped when the roadmap is published.
type AccessGrant struct {
	id        string
	roadmapID string
	userID    string
	grantedBy string
	createdAt time.Time
}

// NewAccessGrant creates a grant for a user on a roadmap
func NewAccessGrant(roadmapID, userID, grantedBy string) (*AccessGrant, error) {
	if roadmapID == "" {
		return nil, errors.NewValidationError("roadmap ID cannot be empty")
	}
	if userID == "" {
		return nil, errors.NewValidationError("user ID cannot be empty")
	}
	if userID == grantedBy {
		return nil, errors.NewValidationError("cannot grant access to yourself")
	}

	return &AccessGrant{
		id:        uuid.New().String(),
		roadmapID: roadmapID,
		userID:    userID,
		grantedBy: grantedBy,
		createdAt: time.Now(),
	}, nil
}

// ReconstructAccessGrant rebuilds a grant from storage
func ReconstructAccessGrant(id, roadmapID, userID, grantedBy string, createdAt time.Time) *AccessGrant {
	return &AccessGrant{
		id:        id,
		roadmapID: roadmapID,
		userID:    userID,
		grantedBy: grantedBy,
		createdAt: createdAt,
	}
}

func (g *AccessGrant) ID() string           { return g.id }
func (g *AccessGrant) RoadmapID() string    { return g.roadmapID }
func (g *AccessGrant) UserID() string       { return g.userID }
func (g *AccessGrant) GrantedBy() string    { return g.grantedBy }
func (g *AccessGrant) CreatedAt() time.Time { return g.createdAt }
