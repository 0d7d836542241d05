package queries

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"roadmap-backend/application/ports"
	"roadmap-backend/domain/core/aggregates"
	"roadmap-backend/pkg/common"
	"roadmap-backend/pkg/errors"
	"roadmap-backend/pkg/utils"
)

// Listing filters
const (
	FilterPublic  = "public"
	FilterMy      = "my"
	FilterStarred = "starred"
	FilterShared  = "shared"
	FilterRecent  = "recent"
)

// ListRoadmapsQuery returns one page of roadmap summaries for a
// viewer. Filters: public (everyone's published roadmaps), my (owned
// by the viewer), starred, shared (grants held by the viewer), and
// recent (the bounded recently visited list, most recent first).
// Name narrows the public listing by a case-insensitive substring.
type ListRoadmapsQuery struct {
	ViewerID string `json:"viewer_id" validate:"required"`
	Filter   string `json:"filter" validate:"required,oneof=public my starred shared recent"`
	Name     string `json:"name" validate:"omitempty,max=100"`
	Page     int    `json:"page" validate:"min=0"`
	PageSize int    `json:"page_size" validate:"min=0,max=100"`
}

// Validate validates the query
func (q ListRoadmapsQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// ListRoadmapsHandler handles the ListRoadmapsQuery
type ListRoadmapsHandler struct {
	roadmapRepo ports.RoadmapRepository
	userRepo    ports.UserRepository
	accessRepo  ports.AccessRepository
	logger      *zap.Logger
}

// NewListRoadmapsHandler creates a new handler instance
func NewListRoadmapsHandler(
	roadmapRepo ports.RoadmapRepository,
	userRepo ports.UserRepository,
	accessRepo ports.AccessRepository,
	logger *zap.Logger,
) *ListRoadmapsHandler {
	return &ListRoadmapsHandler{
		roadmapRepo: roadmapRepo,
		userRepo:    userRepo,
		accessRepo:  accessRepo,
		logger:      logger,
	}
}

// Handle executes the query
func (h *ListRoadmapsHandler) Handle(ctx context.Context, q ListRoadmapsQuery) (*RoadmapListView, error) {
	roadmaps, err := h.resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	params := common.PaginationParams{Page: q.Page, PageSize: q.PageSize}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = common.DefaultPageSize
	}

	page := common.PageSlice(roadmaps, params)

	view := &RoadmapListView{
		Items:      make([]RoadmapSummary, 0, len(page)),
		Total:      len(roadmaps),
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: common.CalculateTotalPages(len(roadmaps), params.PageSize),
	}
	for _, roadmap := range page {
		view.Items = append(view.Items, RoadmapSummary{
			ID:          roadmap.ID().String(),
			OwnerID:     roadmap.OwnerID(),
			Name:        roadmap.Name(),
			Description: roadmap.Description(),
			Status:      string(roadmap.Status()),
			TopicsCount: roadmap.TopicsCount(),
			UpdatedAt:   roadmap.UpdatedAt(),
		})
	}

	return view, nil
}

func (h *ListRoadmapsHandler) resolve(ctx context.Context, q ListRoadmapsQuery) ([]*aggregates.Roadmap, error) {
	switch q.Filter {
	case FilterPublic:
		roadmaps, err := h.roadmapRepo.FindPublic(ctx)
		if err != nil {
			return nil, err
		}
		if q.Name == "" {
			return roadmaps, nil
		}
		needle := strings.ToLower(q.Name)
		matched := make([]*aggregates.Roadmap, 0, len(roadmaps))
		for _, roadmap := range roadmaps {
			if strings.Contains(strings.ToLower(roadmap.Name()), needle) {
				matched = append(matched, roadmap)
			}
		}
		return matched, nil

	case FilterMy:
		return h.roadmapRepo.FindByOwner(ctx, q.ViewerID)

	case FilterStarred:
		user, err := h.userRepo.FindByID(ctx, q.ViewerID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, errors.NewNotFoundError("user")
		}
		return h.roadmapRepo.FindByIDs(ctx, user.Starred())

	case FilterShared:
		grants, err := h.accessRepo.FindByUser(ctx, q.ViewerID)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(grants))
		for _, grant := range grants {
			ids = append(ids, grant.RoadmapID())
		}
		return h.roadmapRepo.FindByIDs(ctx, ids)

	case FilterRecent:
		user, err := h.userRepo.FindByID(ctx, q.ViewerID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, errors.NewNotFoundError("user")
		}
		// FindByIDs preserves the requested order, so the page stays
		// most recent first
		return h.roadmapRepo.FindByIDs(ctx, user.RecentlyVisited())

	default:
		return nil, errors.NewValidationError("unknown filter " + q.Filter)
	}
}
