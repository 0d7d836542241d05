package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roadmap-backend/application/services"
	"roadmap-backend/domain/core/aggregates"
	"roadmap-backend/domain/core/entities"
	"roadmap-backend/domain/core/valueobjects"
	"roadmap-backend/infrastructure/persistence/memory"
	appErrors "roadmap-backend/pkg/errors"
)

type accessFixture struct {
	grant       *AccessHandler
	publish     *PublishRoadmapHandler
	star        *StarHandler
	roadmapRepo *memory.RoadmapRepository
	accessRepo  *memory.AccessRepository
	userRepo    *memory.UserRepository
	publisher   *memory.EventPublisher
	roadmap     *aggregates.Roadmap
	owner       *entities.User
	reader      *entities.User
}

func newAccessFixture(t *testing.T) *accessFixture {
	t.Helper()
	ctx := context.Background()

	roadmapRepo := memory.NewRoadmapRepository()
	accessRepo := memory.NewAccessRepository()
	userRepo := memory.NewUserRepository()
	publisher := memory.NewEventPublisher()
	logger := zap.NewNop()

	owner, err := entities.NewUser("owner@example.com", "owner")
	require.NoError(t, err)
	reader, err := entities.NewUser("reader@example.com", "reader")
	require.NoError(t, err)
	require.NoError(t, userRepo.Save(ctx, owner))
	require.NoError(t, userRepo.Save(ctx, reader))

	roadmap, err := aggregates.NewRoadmap(owner.ID(), "Go from zero", "")
	require.NoError(t, err)
	require.NoError(t, roadmapRepo.Save(ctx, roadmap))

	access := services.NewAccessService(roadmapRepo, accessRepo, logger)

	return &accessFixture{
		grant:       NewAccessHandler(roadmapRepo, accessRepo, userRepo, publisher, logger),
		publish:     NewPublishRoadmapHandler(roadmapRepo, accessRepo, publisher, logger),
		star:        NewStarHandler(userRepo, access, logger),
		roadmapRepo: roadmapRepo,
		accessRepo:  accessRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		roadmap:     roadmap,
		owner:       owner,
		reader:      reader,
	}
}

func decodeSampleContent(t *testing.T) *valueobjects.GraphDocument {
	t.Helper()
	doc, err := valueobjects.DecodeGraphDocument(contentWith([2]string{editTopicA, "Learn Go"}))
	require.NoError(t, err)
	return doc
}

func TestGrantAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("first grant moves the roadmap to private sharing", func(t *testing.T) {
		f := newAccessFixture(t)

		err := f.grant.HandleGrant(ctx, GrantAccessCommand{
			RoadmapID:    f.roadmap.ID().String(),
			OwnerID:      f.owner.ID(),
			TargetUserID: f.reader.ID(),
		})
		require.NoError(t, err)

		exists, err := f.accessRepo.Exists(ctx, f.roadmap.ID().String(), f.reader.ID())
		require.NoError(t, err)
		assert.True(t, exists)

		stored, err := f.roadmapRepo.FindByID(ctx, f.roadmap.ID().String())
		require.NoError(t, err)
		assert.Equal(t, aggregates.StatusPrivateSharing, stored.Status())
	})

	t.Run("granting twice is a no-op", func(t *testing.T) {
		f := newAccessFixture(t)
		cmd := GrantAccessCommand{
			RoadmapID:    f.roadmap.ID().String(),
			OwnerID:      f.owner.ID(),
			TargetUserID: f.reader.ID(),
		}

		require.NoError(t, f.grant.HandleGrant(ctx, cmd))
		require.NoError(t, f.grant.HandleGrant(ctx, cmd))

		grants, err := f.accessRepo.FindByRoadmap(ctx, f.roadmap.ID().String())
		require.NoError(t, err)
		assert.Len(t, grants, 1)
	})

	t.Run("only the owner can grant", func(t *testing.T) {
		f := newAccessFixture(t)

		err := f.grant.HandleGrant(ctx, GrantAccessCommand{
			RoadmapID:    f.roadmap.ID().String(),
			OwnerID:      f.reader.ID(),
			TargetUserID: f.reader.ID(),
		})
		assert.True(t, appErrors.HasCode(err, appErrors.CodeAccessDenied))
	})

	t.Run("unknown target user", func(t *testing.T) {
		f := newAccessFixture(t)

		err := f.grant.HandleGrant(ctx, GrantAccessCommand{
			RoadmapID:    f.roadmap.ID().String(),
			OwnerID:      f.owner.ID(),
			TargetUserID: "nobody",
		})
		assert.True(t, appErrors.IsNotFound(err))
	})

	t.Run("public roadmaps do not take grants", func(t *testing.T) {
		f := newAccessFixture(t)
		roadmapID := f.roadmap.ID().String()

		require.NoError(t, f.roadmap.ReplaceContent(f.owner.ID(), decodeSampleContent(t)))
		require.NoError(t, f.roadmap.Publish(f.owner.ID()))
		require.NoError(t, f.roadmapRepo.Save(ctx, f.roadmap))

		err := f.grant.HandleGrant(ctx, GrantAccessCommand{
			RoadmapID:    roadmapID,
			OwnerID:      f.owner.ID(),
			TargetUserID: f.reader.ID(),
		})
		assert.True(t, appErrors.IsConflict(err))
	})
}

func TestRevokeAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("revoking the last grant returns the roadmap to private", func(t *testing.T) {
		f := newAccessFixture(t)
		roadmapID := f.roadmap.ID().String()

		require.NoError(t, f.grant.HandleGrant(ctx, GrantAccessCommand{
			RoadmapID:    roadmapID,
			OwnerID:      f.owner.ID(),
			TargetUserID: f.reader.ID(),
		}))

		require.NoError(t, f.grant.HandleRevoke(ctx, RevokeAccessCommand{
			RoadmapID:    roadmapID,
			OwnerID:      f.owner.ID(),
			TargetUserID: f.reader.ID(),
		}))

		exists, err := f.accessRepo.Exists(ctx, roadmapID, f.reader.ID())
		require.NoError(t, err)
		assert.False(t, exists)

		stored, err := f.roadmapRepo.FindByID(ctx, roadmapID)
		require.NoError(t, err)
		assert.Equal(t, aggregates.StatusPrivate, stored.Status())
	})

	t.Run("roadmap stays shared while other grants remain", func(t *testing.T) {
		f := newAccessFixture(t)
		roadmapID := f.roadmap.ID().String()

		other, err := entities.NewUser("other@example.com", "other")
		require.NoError(t, err)
		require.NoError(t, f.userRepo.Save(ctx, other))

		for _, target := range []string{f.reader.ID(), other.ID()} {
			require.NoError(t, f.grant.HandleGrant(ctx, GrantAccessCommand{
				RoadmapID:    roadmapID,
				OwnerID:      f.owner.ID(),
				TargetUserID: target,
			}))
		}

		require.NoError(t, f.grant.HandleRevoke(ctx, RevokeAccessCommand{
			RoadmapID:    roadmapID,
			OwnerID:      f.owner.ID(),
			TargetUserID: f.reader.ID(),
		}))

		stored, err := f.roadmapRepo.FindByID(ctx, roadmapID)
		require.NoError(t, err)
		assert.Equal(t, aggregates.StatusPrivateSharing, stored.Status())
	})

	t.Run("only the owner can revoke", func(t *testing.T) {
		f := newAccessFixture(t)

		err := f.grant.HandleRevoke(ctx, RevokeAccessCommand{
			RoadmapID:    f.roadmap.ID().String(),
			OwnerID:      f.reader.ID(),
			TargetUserID: f.reader.ID(),
		})
		assert.True(t, appErrors.HasCode(err, appErrors.CodeAccessDenied))
	})
}

func TestPublishRoadmap(t *testing.T) {
	ctx := context.Background()

	t.Run("publishing drops all access grants", func(t *testing.T) {
		f := newAccessFixture(t)
		roadmapID := f.roadmap.ID().String()

		require.NoError(t, f.roadmap.ReplaceContent(f.owner.ID(), decodeSampleContent(t)))
		require.NoError(t, f.roadmapRepo.Save(ctx, f.roadmap))

		require.NoError(t, f.grant.HandleGrant(ctx, GrantAccessCommand{
			RoadmapID:    roadmapID,
			OwnerID:      f.owner.ID(),
			TargetUserID: f.reader.ID(),
		}))

		require.NoError(t, f.publish.Handle(ctx, PublishRoadmapCommand{
			RoadmapID:   roadmapID,
			RequesterID: f.owner.ID(),
		}))

		stored, err := f.roadmapRepo.FindByID(ctx, roadmapID)
		require.NoError(t, err)
		assert.Equal(t, aggregates.StatusPublic, stored.Status())

		grants, err := f.accessRepo.FindByRoadmap(ctx, roadmapID)
		require.NoError(t, err)
		assert.Empty(t, grants)
	})

	t.Run("unknown roadmap", func(t *testing.T) {
		f := newAccessFixture(t)

		err := f.publish.Handle(ctx, PublishRoadmapCommand{
			RoadmapID:   "99999999-9999-4999-8999-999999999999",
			RequesterID: f.owner.ID(),
		})
		assert.True(t, appErrors.IsNotFound(err))
	})
}

func TestStarRoadmap(t *testing.T) {
	ctx := context.Background()

	t.Run("granted reader can star and unstar", func(t *testing.T) {
		f := newAccessFixture(t)
		roadmapID := f.roadmap.ID().String()

		require.NoError(t, f.grant.HandleGrant(ctx, GrantAccessCommand{
			RoadmapID:    roadmapID,
			OwnerID:      f.owner.ID(),
			TargetUserID: f.reader.ID(),
		}))

		require.NoError(t, f.star.HandleStar(ctx, StarRoadmapCommand{
			UserID:    f.reader.ID(),
			RoadmapID: roadmapID,
		}))

		stored, err := f.userRepo.FindByID(ctx, f.reader.ID())
		require.NoError(t, err)
		assert.True(t, stored.HasStarred(roadmapID))

		require.NoError(t, f.star.HandleUnstar(ctx, UnstarRoadmapCommand{
			UserID:    f.reader.ID(),
			RoadmapID: roadmapID,
		}))

		stored, err = f.userRepo.FindByID(ctx, f.reader.ID())
		require.NoError(t, err)
		assert.False(t, stored.HasStarred(roadmapID))
	})

	t.Run("starring requires viewing rights", func(t *testing.T) {
		f := newAccessFixture(t)

		err := f.star.HandleStar(ctx, StarRoadmapCommand{
			UserID:    f.reader.ID(),
			RoadmapID: f.roadmap.ID().String(),
		})
		assert.True(t, appErrors.HasCode(err, appErrors.CodeAccessDenied))
	})
}
