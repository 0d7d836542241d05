package queries

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roadmap-backend/domain/core/aggregates"
	"roadmap-backend/domain/core/entities"
	"roadmap-backend/domain/core/valueobjects"
	"roadmap-backend/infrastructure/persistence/memory"
)

type listFixture struct {
	handler     *ListRoadmapsHandler
	roadmapRepo *memory.RoadmapRepository
	userRepo    *memory.UserRepository
	accessRepo  *memory.AccessRepository
	viewer      *entities.User
}

func newListFixture(t *testing.T) *listFixture {
	t.Helper()

	roadmapRepo := memory.NewRoadmapRepository()
	userRepo := memory.NewUserRepository()
	accessRepo := memory.NewAccessRepository()

	viewer, err := entities.NewUser("viewer@example.com", "viewer")
	require.NoError(t, err)
	require.NoError(t, userRepo.Save(context.Background(), viewer))

	return &listFixture{
		handler:     NewListRoadmapsHandler(roadmapRepo, userRepo, accessRepo, zap.NewNop()),
		roadmapRepo: roadmapRepo,
		userRepo:    userRepo,
		accessRepo:  accessRepo,
		viewer:      viewer,
	}
}

func (f *listFixture) seedRoadmap(t *testing.T, ownerID, name string) *aggregates.Roadmap {
	t.Helper()
	roadmap, err := aggregates.NewRoadmap(ownerID, name, "")
	require.NoError(t, err)
	require.NoError(t, f.roadmapRepo.Save(context.Background(), roadmap))
	return roadmap
}

func (f *listFixture) seedPublicRoadmap(t *testing.T, ownerID, name string) *aggregates.Roadmap {
	t.Helper()
	roadmap := f.seedRoadmap(t, ownerID, name)
	doc, err := valueobjects.DecodeGraphDocument([]byte(`{"cells":[{"id":"11111111-1111-4111-8111-111111111111","attrs":{"text":{"text":"Start"}}}]}`))
	require.NoError(t, err)
	require.NoError(t, roadmap.ReplaceContent(ownerID, doc))
	require.NoError(t, roadmap.Publish(ownerID))
	require.NoError(t, f.roadmapRepo.Save(context.Background(), roadmap))
	return roadmap
}

func TestListRoadmapsHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("my filter returns owned roadmaps only", func(t *testing.T) {
		f := newListFixture(t)
		f.seedRoadmap(t, f.viewer.ID(), "mine")
		f.seedRoadmap(t, "someone-else", "theirs")

		view, err := f.handler.Handle(ctx, ListRoadmapsQuery{ViewerID: f.viewer.ID(), Filter: FilterMy})
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, "mine", view.Items[0].Name)
	})

	t.Run("public filter narrows by name substring", func(t *testing.T) {
		f := newListFixture(t)
		f.seedPublicRoadmap(t, "author-1", "Go from zero")
		f.seedPublicRoadmap(t, "author-2", "Rust from zero")
		f.seedRoadmap(t, "author-3", "go but private")

		view, err := f.handler.Handle(ctx, ListRoadmapsQuery{ViewerID: f.viewer.ID(), Filter: FilterPublic})
		require.NoError(t, err)
		assert.Len(t, view.Items, 2)

		view, err = f.handler.Handle(ctx, ListRoadmapsQuery{ViewerID: f.viewer.ID(), Filter: FilterPublic, Name: "go"})
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, "Go from zero", view.Items[0].Name)
	})

	t.Run("starred filter resolves the star set", func(t *testing.T) {
		f := newListFixture(t)
		starred := f.seedRoadmap(t, "author-1", "starred one")
		f.seedRoadmap(t, "author-1", "not starred")

		f.viewer.Star(starred.ID().String())
		require.NoError(t, f.userRepo.Save(ctx, f.viewer))

		view, err := f.handler.Handle(ctx, ListRoadmapsQuery{ViewerID: f.viewer.ID(), Filter: FilterStarred})
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, starred.ID().String(), view.Items[0].ID)
	})

	t.Run("shared filter resolves grants", func(t *testing.T) {
		f := newListFixture(t)
		shared := f.seedRoadmap(t, "author-1", "shared")
		f.seedRoadmap(t, "author-1", "not shared")

		grant, err := entities.NewAccessGrant(shared.ID().String(), f.viewer.ID(), "author-1")
		require.NoError(t, err)
		require.NoError(t, f.accessRepo.Save(ctx, grant))

		view, err := f.handler.Handle(ctx, ListRoadmapsQuery{ViewerID: f.viewer.ID(), Filter: FilterShared})
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, shared.ID().String(), view.Items[0].ID)
	})

	t.Run("recent filter keeps visit order", func(t *testing.T) {
		f := newListFixture(t)
		first := f.seedRoadmap(t, "author-1", "first")
		second := f.seedRoadmap(t, "author-1", "second")

		f.viewer.RecordVisit(first.ID().String(), 5)
		f.viewer.RecordVisit(second.ID().String(), 5)
		require.NoError(t, f.userRepo.Save(ctx, f.viewer))

		view, err := f.handler.Handle(ctx, ListRoadmapsQuery{ViewerID: f.viewer.ID(), Filter: FilterRecent})
		require.NoError(t, err)
		require.Len(t, view.Items, 2)
		assert.Equal(t, second.ID().String(), view.Items[0].ID)
		assert.Equal(t, first.ID().String(), view.Items[1].ID)
	})

	t.Run("pagination slices and counts", func(t *testing.T) {
		f := newListFixture(t)
		for i := 0; i < 25; i++ {
			f.seedRoadmap(t, f.viewer.ID(), fmt.Sprintf("roadmap %d", i))
		}

		view, err := f.handler.Handle(ctx, ListRoadmapsQuery{
			ViewerID: f.viewer.ID(),
			Filter:   FilterMy,
			Page:     2,
			PageSize: 10,
		})
		require.NoError(t, err)
		assert.Len(t, view.Items, 10)
		assert.Equal(t, 25, view.Total)
		assert.Equal(t, 3, view.TotalPages)
		assert.Equal(t, 2, view.Page)
	})

	t.Run("defaults apply when paging is unset", func(t *testing.T) {
		f := newListFixture(t)
		for i := 0; i < 15; i++ {
			f.seedRoadmap(t, f.viewer.ID(), fmt.Sprintf("roadmap %d", i))
		}

		view, err := f.handler.Handle(ctx, ListRoadmapsQuery{ViewerID: f.viewer.ID(), Filter: FilterMy})
		require.NoError(t, err)
		assert.Len(t, view.Items, 10)
		assert.Equal(t, 1, view.Page)
	})

	t.Run("unknown filter is rejected", func(t *testing.T) {
		f := newListFixture(t)

		_, err := f.handler.Handle(ctx, ListRoadmapsQuery{ViewerID: f.viewer.ID(), Filter: "trending"})
		assert.Error(t, err)
	})
}
