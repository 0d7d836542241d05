package ports

import (
	"context"
	"time"

	"roadmap-backend/domain/core/aggregates"
	"roadmap-backend/domain/core/entities"
	"roadmap-backend/domain/events"
)

// RoadmapRepository persists roadmap aggregates. Lookups return
// (nil, nil) when no aggregate matches; errors are reserved for
// storage failures.
type RoadmapRepository interface {
	Save(ctx context.Context, roadmap *aggregates.Roadmap) error
	FindByID(ctx context.Context, roadmapID string) (*aggregates.Roadmap, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*aggregates.Roadmap, error)
	FindPublic(ctx context.Context) ([]*aggregates.Roadmap, error)
	FindByIDs(ctx context.Context, roadmapIDs []string) ([]*aggregates.Roadmap, error)
	Delete(ctx context.Context, roadmapID string) error
}

// ProgressRepository persists per-user progress records
type ProgressRepository interface {
	Save(ctx context.Context, progress *entities.Progress) error
	FindByUserAndRoadmap(ctx context.Context, userID, roadmapID string) (*entities.Progress, error)
	FindByRoadmap(ctx context.Context, roadmapID string) ([]*entities.Progress, error)
	DeleteByRoadmap(ctx context.Context, roadmapID string) error
}

// UserRepository persists user entities
type UserRepository interface {
	Save(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, userID string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
}

// AccessRepository persists private-sharing access grants
type AccessRepository interface {
	Save(ctx context.Context, grant *entities.AccessGrant) error
	Exists(ctx context.Context, roadmapID, userID string) (bool, error)
	FindByRoadmap(ctx context.Context, roadmapID string) ([]*entities.AccessGrant, error)
	FindByUser(ctx context.Context, userID string) ([]*entities.AccessGrant, error)
	Delete(ctx context.Context, roadmapID, userID string) error
	DeleteByRoadmap(ctx context.Context, roadmapID string) error
}

// EventPublisher publishes domain events to downstream consumers
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}

// Unlocker releases a held lock
type Unlocker interface {
	Release(ctx context.Context) error
}

// DistributedLock serializes work per key. Content edits acquire the
// roadmap's lock so two concurrent edits never interleave their
// reconciliation fan-outs.
type DistributedLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Unlocker, error)
}

// Cache provides read-side caching for query handlers
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl int) error
	Delete(ctx context.Context, key string) error
}
