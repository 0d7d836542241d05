package memory

import (
	"context"
	"sync"

	"roadmap-backend/application/ports"
	"roadmap-backend/domain/core/aggregates"
	"roadmap-backend/domain/core/entities"
)

// In-memory repositories backing local development and tests. They
// satisfy the same ports as the DynamoDB implementations, including
// the (nil, nil) not-found convention.

// RoadmapRepository is an in-memory ports.RoadmapRepository
type RoadmapRepository struct {
	mu       sync.RWMutex
	roadmaps map[string]*aggregates.Roadmap
}

// NewRoadmapRepository creates an empty in-memory roadmap repository
func NewRoadmapRepository() *RoadmapRepository {
	return &RoadmapRepository{
		roadmaps: make(map[string]*aggregates.Roadmap),
	}
}

func (r *RoadmapRepository) Save(ctx context.Context, roadmap *aggregates.Roadmap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roadmaps[roadmap.ID().String()] = roadmap
	return nil
}

func (r *RoadmapRepository) FindByID(ctx context.Context, roadmapID string) (*aggregates.Roadmap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roadmaps[roadmapID], nil
}

func (r *RoadmapRepository) FindByOwner(ctx context.Context, ownerID string) ([]*aggregates.Roadmap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*aggregates.Roadmap
	for _, roadmap := range r.roadmaps {
		if roadmap.OwnerID() == ownerID {
			out = append(out, roadmap)
		}
	}
	return out, nil
}

func (r *RoadmapRepository) FindPublic(ctx context.Context) ([]*aggregates.Roadmap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*aggregates.Roadmap
	for _, roadmap := range r.roadmaps {
		if roadmap.IsPublic() {
			out = append(out, roadmap)
		}
	}
	return out, nil
}

func (r *RoadmapRepository) FindByIDs(ctx context.Context, roadmapIDs []string) ([]*aggregates.Roadmap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*aggregates.Roadmap, 0, len(roadmapIDs))
	for _, id := range roadmapIDs {
		if roadmap, ok := r.roadmaps[id]; ok {
			out = append(out, roadmap)
		}
	}
	return out, nil
}

func (r *RoadmapRepository) Delete(ctx context.Context, roadmapID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.roadmaps, roadmapID)
	return nil
}

// ProgressRepository is an in-memory ports.ProgressRepository
type ProgressRepository struct {
	mu sync.RWMutex
	// roadmapID -> userID -> record
	records map[string]map[string]*entities.Progress
}

// NewProgressRepository creates an empty in-memory progress repository
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{
		records: make(map[string]map[string]*entities.Progress),
	}
}

func (r *ProgressRepository) Save(ctx context.Context, progress *entities.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byUser, ok := r.records[progress.RoadmapID()]
	if !ok {
		byUser = make(map[string]*entities.Progress)
		r.records[progress.RoadmapID()] = byUser
	}
	byUser[progress.UserID()] = progress
	return nil
}

func (r *ProgressRepository) FindByUserAndRoadmap(ctx context.Context, userID, roadmapID string) (*entities.Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records[roadmapID][userID], nil
}

func (r *ProgressRepository) FindByRoadmap(ctx context.Context, roadmapID string) ([]*entities.Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entities.Progress
	for _, record := range r.records[roadmapID] {
		out = append(out, record)
	}
	return out, nil
}

func (r *ProgressRepository) DeleteByRoadmap(ctx context.Context, roadmapID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, roadmapID)
	return nil
}

// UserRepository is an in-memory ports.UserRepository
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*entities.User
}

// NewUserRepository creates an empty in-memory user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[string]*entities.User),
	}
}

func (r *UserRepository) Save(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID()] = user
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, userID string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[userID], nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email() == email {
			return user, nil
		}
	}
	return nil, nil
}

// AccessRepository is an in-memory ports.AccessRepository
type AccessRepository struct {
	mu sync.RWMutex
	// roadmapID -> userID -> grant
	grants map[string]map[string]*entities.AccessGrant
}

// NewAccessRepository creates an empty in-memory access repository
func NewAccessRepository() *AccessRepository {
	return &AccessRepository{
		grants: make(map[string]map[string]*entities.AccessGrant),
	}
}

func (r *AccessRepository) Save(ctx context.Context, grant *entities.AccessGrant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byUser, ok := r.grants[grant.RoadmapID()]
	if !ok {
		byUser = make(map[string]*entities.AccessGrant)
		r.grants[grant.RoadmapID()] = byUser
	}
	byUser[grant.UserID()] = grant
	return nil
}

func (r *AccessRepository) Exists(ctx context.Context, roadmapID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.grants[roadmapID][userID]
	return ok, nil
}

func (r *AccessRepository) FindByRoadmap(ctx context.Context, roadmapID string) ([]*entities.AccessGrant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entities.AccessGrant
	for _, grant := range r.grants[roadmapID] {
		out = append(out, grant)
	}
	return out, nil
}

func (r *AccessRepository) FindByUser(ctx context.Context, userID string) ([]*entities.AccessGrant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entities.AccessGrant
	for _, byUser := range r.grants {
		if grant, ok := byUser[userID]; ok {
			out = append(out, grant)
		}
	}
	return out, nil
}

func (r *AccessRepository) Delete(ctx context.Context, roadmapID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.grants[roadmapID], userID)
	return nil
}

func (r *AccessRepository) DeleteByRoadmap(ctx context.Context, roadmapID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.grants, roadmapID)
	return nil
}

// Interface checks
var (
	_ ports.RoadmapRepository  = (*RoadmapRepository)(nil)
	_ ports.ProgressRepository = (*ProgressRepository)(nil)
	_ ports.UserRepository     = (*UserRepository)(nil)
	_ ports.AccessRepository   = (*AccessRepository)(nil)
)
