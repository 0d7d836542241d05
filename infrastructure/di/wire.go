//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"roadmap-backend/application/commands"
	"roadmap-backend/application/commands/bus"
	"roadmap-backend/application/ports"
	"roadmap-backend/application/queries"
	querybus "roadmap-backend/application/queries/bus"
	"roadmap-backend/application/services"
	domainconfig "roadmap-backend/domain/config"
	"roadmap-backend/domain/core/validators"
	"roadmap-backend/domain/versioning"
	"roadmap-backend/infrastructure/config"
	"roadmap-backend/pkg/auth"
	"roadmap-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	DomainConfig *domainconfig.DomainConfig
	Logger       *zap.Logger

	RoadmapRepo  ports.RoadmapRepository
	ProgressRepo ports.ProgressRepository
	UserRepo     ports.UserRepository
	AccessRepo   ports.AccessRepository

	EventPublisher ports.EventPublisher
	Lock           ports.DistributedLock
	Cache          ports.Cache

	Validator  *validators.DocumentValidator
	Differ     *versioning.Differ
	Reconciler *services.Reconciler
	Access     *services.AccessService

	CreateRoadmap  *commands.CreateRoadmapHandler
	UpdateRoadmap  *commands.UpdateRoadmapHandler
	DeleteRoadmap  *commands.DeleteRoadmapHandler
	EditContent    *commands.EditContentHandler
	PublishRoadmap *commands.PublishRoadmapHandler
	ChangeProgress *commands.ChangeProgressHandler
	AccessGrants   *commands.AccessHandler
	Star           *commands.StarHandler
	RegisterUser   *commands.RegisterUserHandler

	GetRoadmap   *queries.GetRoadmapHandler
	ListRoadmaps *queries.ListRoadmapsHandler
	GetProgress  *queries.GetProgressHandler

	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus

	Metrics      *observability.Metrics
	Tracer       *observability.Tracer
	JWTValidator *auth.JWTValidator
	RateLimiter  *auth.TokenBucketLimiter
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideRoadmapRepository,
	ProvideProgressRepository,
	ProvideUserRepository,
	ProvideAccessRepository,
	ProvideEventPublisher,
	ProvideDistributedLock,
	ProvideInMemoryCache,
	ProvideDocumentValidator,
	ProvideDiffer,
	ProvideReconciler,
	ProvideAccessService,
	ProvideCreateRoadmapHandler,
	ProvideUpdateRoadmapHandler,
	ProvideDeleteRoadmapHandler,
	ProvideEditContentHandler,
	ProvidePublishRoadmapHandler,
	ProvideChangeProgressHandler,
	ProvideAccessHandler,
	ProvideStarHandler,
	ProvideRegisterUserHandler,
	ProvideGetRoadmapHandler,
	ProvideListRoadmapsHandler,
	ProvideGetProgressHandler,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideMetrics,
	ProvideTracer,
	ProvideJWTValidator,
	ProvideRateLimiter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
