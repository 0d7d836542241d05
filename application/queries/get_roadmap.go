package queries

import (
	"context"

	"go.uber.org/zap"

	"roadmap-backend/application/ports"
	"roadmap-backend/application/services"
	"roadmap-backend/domain/config"
	"roadmap-backend/domain/core/aggregates"
	"roadmap-backend/domain/core/entities"
	"roadmap-backend/pkg/errors"
	"roadmap-backend/pkg/utils"
)

// GetRoadmapQuery fetches one roadmap for a viewer. Viewing is what
// creates the viewer's progress record: the first time a user with
// access opens a roadmap that has content, a record is created with
// every topic Pending. The view also lands on the user's recently
// visited list.
type GetRoadmapQuery struct {
	RoadmapID string `json:"roadmap_id" validate:"required,uuid"`
	ViewerID  string `json:"viewer_id" validate:"required"`
}

// Validate validates the query
func (q GetRoadmapQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetRoadmapHandler handles the GetRoadmapQuery
type GetRoadmapHandler struct {
	roadmapRepo  ports.RoadmapRepository
	progressRepo ports.ProgressRepository
	userRepo     ports.UserRepository
	access       *services.AccessService
	domainCfg    *config.DomainConfig
	logger       *zap.Logger
}

// NewGetRoadmapHandler creates a new handler instance
func NewGetRoadmapHandler(
	roadmapRepo ports.RoadmapRepository,
	progressRepo ports.ProgressRepository,
	userRepo ports.UserRepository,
	access *services.AccessService,
	domainCfg *config.DomainConfig,
	logger *zap.Logger,
) *GetRoadmapHandler {
	return &GetRoadmapHandler{
		roadmapRepo:  roadmapRepo,
		progressRepo: progressRepo,
		userRepo:     userRepo,
		access:       access,
		domainCfg:    domainCfg,
		logger:       logger,
	}
}

// Handle executes the query
func (h *GetRoadmapHandler) Handle(ctx context.Context, q GetRoadmapQuery) (*RoadmapView, error) {
	roadmap, err := h.roadmapRepo.FindByID(ctx, q.RoadmapID)
	if err != nil {
		return nil, err
	}
	if roadmap == nil {
		return nil, errors.NewNotFoundError("roadmap")
	}

	allowed, err := h.access.CanView(ctx, roadmap, q.ViewerID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, errors.NewAccessDeniedError(q.RoadmapID)
	}

	view := &RoadmapView{
		ID:          roadmap.ID().String(),
		OwnerID:     roadmap.OwnerID(),
		Name:        roadmap.Name(),
		Description: roadmap.Description(),
		Status:      string(roadmap.Status()),
		TopicsCount: roadmap.TopicsCount(),
		CreatedAt:   roadmap.CreatedAt(),
		UpdatedAt:   roadmap.UpdatedAt(),
	}
	if roadmap.HasContent() {
		view.Content = roadmap.Content().EncodeJSON()
	}

	user, err := h.userRepo.FindByID(ctx, q.ViewerID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		view.Starred = user.HasStarred(q.RoadmapID)

		user.RecordVisit(q.RoadmapID, h.domainCfg.MaxRecentRoadmaps)
		if err := h.userRepo.Save(ctx, user); err != nil {
			// A view should not fail because the visit list did
			h.logger.Warn("failed to record roadmap visit",
				zap.String("user_id", q.ViewerID),
				zap.Error(err))
		}
	}

	if roadmap.HasContent() {
		progress, err := h.ensureProgress(ctx, roadmap, q.ViewerID)
		if err != nil {
			return nil, err
		}
		view.Progress = buildProgressView(roadmap, progress)
	}

	return view, nil
}

// ensureProgress returns the viewer's progress record, creating it on
// first view with every current topic Pending
func (h *GetRoadmapHandler) ensureProgress(ctx context.Context, roadmap *aggregates.Roadmap, viewerID string) (*entities.Progress, error) {
	progress, err := h.progressRepo.FindByUserAndRoadmap(ctx, viewerID, roadmap.ID().String())
	if err != nil {
		return nil, err
	}
	if progress != nil {
		return progress, nil
	}

	progress, err = entities.NewProgress(viewerID, roadmap.ID().String(), roadmap.Content().Topics())
	if err != nil {
		return nil, err
	}
	if err := h.progressRepo.Save(ctx, progress); err != nil {
		return nil, err
	}

	h.logger.Info("progress record created on first view",
		zap.String("roadmap_id", roadmap.ID().String()),
		zap.String("user_id", viewerID))

	return progress, nil
}

// buildProgressView resolves display labels from the current content
func buildProgressView(roadmap *aggregates.Roadmap, progress *entities.Progress) *ProgressView {
	items := progress.Items()
	view := &ProgressView{
		RoadmapID: progress.RoadmapID(),
		UserID:    progress.UserID(),
		Items:     make([]ProgressItemView, 0, len(items)),
		UpdatedAt: progress.UpdatedAt(),
	}
	for _, item := range items {
		itemView := ProgressItemView{
			TopicID: item.TopicID.String(),
			Status:  string(item.Status),
		}
		if details, ok := roadmap.Content().TopicDetails(item.TopicID); ok {
			itemView.Text = details.Text
		}
		view.Items = append(view.Items, itemView)
	}
	return view
}
