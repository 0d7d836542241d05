package services

import (
	"context"

	"go.uber.org/zap"

	"roadmap-backend/application/ports"
	"roadmap-backend/domain/core/aggregates"
	"roadmap-backend/pkg/errors"
)

// AccessService answers one question: may this user view this
// roadmap. Public roadmaps are visible to everyone; private ones to
// the owner and, while in PrivateSharing, to users holding a grant.
type AccessService struct {
	roadmapRepo ports.RoadmapRepository
	accessRepo  ports.AccessRepository
	logger      *zap.Logger
}

// NewAccessService creates a new access service
func NewAccessService(roadmapRepo ports.RoadmapRepository, accessRepo ports.AccessRepository, logger *zap.Logger) *AccessService {
	return &AccessService{
		roadmapRepo: roadmapRepo,
		accessRepo:  accessRepo,
		logger:      logger,
	}
}

// HasViewAccess resolves the roadmap and checks viewing rights
func (s *AccessService) HasViewAccess(ctx context.Context, userID, roadmapID string) (bool, error) {
	roadmap, err := s.roadmapRepo.FindByID(ctx, roadmapID)
	if err != nil {
		return false, err
	}
	if roadmap == nil {
		return false, errors.NewNotFoundError("roadmap")
	}
	return s.CanView(ctx, roadmap, userID)
}

// CanView checks viewing rights against an already loaded aggregate
func (s *AccessService) CanView(ctx context.Context, roadmap *aggregates.Roadmap, userID string) (bool, error) {
	if roadmap.IsPublic() {
		return true, nil
	}
	if roadmap.IsOwnedBy(userID) {
		return true, nil
	}

	granted, err := s.accessRepo.Exists(ctx, roadmap.ID().String(), userID)
	if err != nil {
		return false, err
	}
	return granted, nil
}
