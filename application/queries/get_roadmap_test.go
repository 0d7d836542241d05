package queries

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roadmap-backend/application/services"
	domainconfig "roadmap-backend/domain/config"
	"roadmap-backend/domain/core/aggregates"
	"roadmap-backend/domain/core/entities"
	"roadmap-backend/domain/core/valueobjects"
	"roadmap-backend/infrastructure/persistence/memory"
	appErrors "roadmap-backend/pkg/errors"
)

const viewTopicID = "11111111-1111-4111-8111-111111111111"

type getRoadmapFixture struct {
	handler      *GetRoadmapHandler
	roadmapRepo  *memory.RoadmapRepository
	progressRepo *memory.ProgressRepository
	userRepo     *memory.UserRepository
	accessRepo   *memory.AccessRepository
	roadmap      *aggregates.Roadmap
	owner        *entities.User
	reader       *entities.User
}

func newGetRoadmapFixture(t *testing.T, withContent bool) *getRoadmapFixture {
	t.Helper()
	ctx := context.Background()

	roadmapRepo := memory.NewRoadmapRepository()
	progressRepo := memory.NewProgressRepository()
	userRepo := memory.NewUserRepository()
	accessRepo := memory.NewAccessRepository()
	logger := zap.NewNop()

	owner, err := entities.NewUser("owner@example.com", "owner")
	require.NoError(t, err)
	require.NoError(t, userRepo.Save(ctx, owner))

	reader, err := entities.NewUser("reader@example.com", "reader")
	require.NoError(t, err)
	require.NoError(t, userRepo.Save(ctx, reader))

	roadmap, err := aggregates.NewRoadmap(owner.ID(), "Go from zero", "")
	require.NoError(t, err)
	if withContent {
		doc, err := valueobjects.DecodeGraphDocument([]byte(`{"cells":[{"id":"` + viewTopicID + `","attrs":{"text":{"text":"Learn Go"}}}]}`))
		require.NoError(t, err)
		require.NoError(t, roadmap.ReplaceContent(owner.ID(), doc))
	}
	require.NoError(t, roadmapRepo.Save(ctx, roadmap))

	handler := NewGetRoadmapHandler(
		roadmapRepo,
		progressRepo,
		userRepo,
		services.NewAccessService(roadmapRepo, accessRepo, logger),
		domainconfig.DefaultDomainConfig(),
		logger,
	)

	return &getRoadmapFixture{
		handler:      handler,
		roadmapRepo:  roadmapRepo,
		progressRepo: progressRepo,
		userRepo:     userRepo,
		accessRepo:   accessRepo,
		roadmap:      roadmap,
		owner:        owner,
		reader:       reader,
	}
}

func TestGetRoadmapHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("first view creates an all pending progress record", func(t *testing.T) {
		f := newGetRoadmapFixture(t, true)

		view, err := f.handler.Handle(ctx, GetRoadmapQuery{
			RoadmapID: f.roadmap.ID().String(),
			ViewerID:  f.owner.ID(),
		})
		require.NoError(t, err)
		require.NotNil(t, view.Progress)
		require.Len(t, view.Progress.Items, 1)
		assert.Equal(t, viewTopicID, view.Progress.Items[0].TopicID)
		assert.Equal(t, "Pending", view.Progress.Items[0].Status)
		assert.Equal(t, "Learn Go", view.Progress.Items[0].Text)

		stored, err := f.progressRepo.FindByUserAndRoadmap(ctx, f.owner.ID(), f.roadmap.ID().String())
		require.NoError(t, err)
		require.NotNil(t, stored)
	})

	t.Run("second view reuses the record", func(t *testing.T) {
		f := newGetRoadmapFixture(t, true)
		query := GetRoadmapQuery{RoadmapID: f.roadmap.ID().String(), ViewerID: f.owner.ID()}

		_, err := f.handler.Handle(ctx, query)
		require.NoError(t, err)

		first, err := f.progressRepo.FindByUserAndRoadmap(ctx, f.owner.ID(), f.roadmap.ID().String())
		require.NoError(t, err)

		_, err = f.handler.Handle(ctx, query)
		require.NoError(t, err)

		second, err := f.progressRepo.FindByUserAndRoadmap(ctx, f.owner.ID(), f.roadmap.ID().String())
		require.NoError(t, err)
		assert.Equal(t, first.ID(), second.ID())
	})

	t.Run("contentless roadmap has no progress", func(t *testing.T) {
		f := newGetRoadmapFixture(t, false)

		view, err := f.handler.Handle(ctx, GetRoadmapQuery{
			RoadmapID: f.roadmap.ID().String(),
			ViewerID:  f.owner.ID(),
		})
		require.NoError(t, err)
		assert.Nil(t, view.Progress)
		assert.Nil(t, view.Content)

		stored, err := f.progressRepo.FindByUserAndRoadmap(ctx, f.owner.ID(), f.roadmap.ID().String())
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("viewing lands on the recently visited list", func(t *testing.T) {
		f := newGetRoadmapFixture(t, true)

		_, err := f.handler.Handle(ctx, GetRoadmapQuery{
			RoadmapID: f.roadmap.ID().String(),
			ViewerID:  f.owner.ID(),
		})
		require.NoError(t, err)

		user, err := f.userRepo.FindByID(ctx, f.owner.ID())
		require.NoError(t, err)
		assert.Contains(t, user.RecentlyVisited(), f.roadmap.ID().String())
	})

	t.Run("reader without access is denied and leaves no record", func(t *testing.T) {
		f := newGetRoadmapFixture(t, true)

		_, err := f.handler.Handle(ctx, GetRoadmapQuery{
			RoadmapID: f.roadmap.ID().String(),
			ViewerID:  f.reader.ID(),
		})
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.CodeAccessDenied))

		stored, err := f.progressRepo.FindByUserAndRoadmap(ctx, f.reader.ID(), f.roadmap.ID().String())
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("grant opens the roadmap to a reader", func(t *testing.T) {
		f := newGetRoadmapFixture(t, true)

		grant, err := entities.NewAccessGrant(f.roadmap.ID().String(), f.reader.ID(), f.owner.ID())
		require.NoError(t, err)
		require.NoError(t, f.accessRepo.Save(ctx, grant))

		view, err := f.handler.Handle(ctx, GetRoadmapQuery{
			RoadmapID: f.roadmap.ID().String(),
			ViewerID:  f.reader.ID(),
		})
		require.NoError(t, err)
		require.NotNil(t, view.Progress)
	})

	t.Run("published roadmap is readable by anyone", func(t *testing.T) {
		f := newGetRoadmapFixture(t, true)
		require.NoError(t, f.roadmap.Publish(f.owner.ID()))
		require.NoError(t, f.roadmapRepo.Save(ctx, f.roadmap))

		view, err := f.handler.Handle(ctx, GetRoadmapQuery{
			RoadmapID: f.roadmap.ID().String(),
			ViewerID:  f.reader.ID(),
		})
		require.NoError(t, err)
		assert.Equal(t, "Public", view.Status)
	})

	t.Run("unknown roadmap is not found", func(t *testing.T) {
		f := newGetRoadmapFixture(t, true)

		_, err := f.handler.Handle(ctx, GetRoadmapQuery{
			RoadmapID: "99999999-9999-4999-8999-999999999999",
			ViewerID:  f.owner.ID(),
		})
		require.Error(t, err)
		assert.True(t, appErrors.IsNotFound(err))
	})
}
