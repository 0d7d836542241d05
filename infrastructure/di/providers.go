package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"roadmap-backend/application/commands"
	cmdbus "roadmap-backend/application/commands/bus"
	"roadmap-backend/application/ports"
	"roadmap-backend/application/queries"
	querybus "roadmap-backend/application/queries/bus"
	"roadmap-backend/application/services"
	domainconfig "roadmap-backend/domain/config"
	"roadmap-backend/domain/core/validators"
	"roadmap-backend/domain/versioning"
	"roadmap-backend/infrastructure/config"
	"roadmap-backend/infrastructure/messaging/eventbridge"
	"roadmap-backend/infrastructure/persistence/dynamodb"
	"roadmap-backend/infrastructure/persistence/memory"
	"roadmap-backend/pkg/auth"
	"roadmap-backend/pkg/observability"
)

// eventSource is the EventBridge source attribute for this service
const eventSource = "roadmap-backend"

// listCacheTTL is how long listing query results stay cached, in seconds
const listCacheTTL = 30

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideDomainConfig creates the domain rule configuration
func ProvideDomainConfig() *domainconfig.DomainConfig {
	return domainconfig.DefaultDomainConfig()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideRoadmapRepository creates a roadmap repository for the
// configured storage driver
func ProvideRoadmapRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.RoadmapRepository {
	if cfg.StorageDriver == config.StorageMemory {
		return memory.NewRoadmapRepository()
	}
	return dynamodb.NewRoadmapRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideProgressRepository creates a progress repository
func ProvideProgressRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ProgressRepository {
	if cfg.StorageDriver == config.StorageMemory {
		return memory.NewProgressRepository()
	}
	return dynamodb.NewProgressRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideUserRepository creates a user repository
func ProvideUserRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	if cfg.StorageDriver == config.StorageMemory {
		return memory.NewUserRepository()
	}
	return dynamodb.NewUserRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideAccessRepository creates an access grant repository
func ProvideAccessRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.AccessRepository {
	if cfg.StorageDriver == config.StorageMemory {
		return memory.NewAccessRepository()
	}
	return dynamodb.NewAccessRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideEventPublisher creates the domain event publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.StorageDriver == config.StorageMemory {
		return memory.NewEventPublisher()
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, eventSource, logger)
}

// ProvideDistributedLock creates the per-roadmap edit lock
func ProvideDistributedLock(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.DistributedLock {
	if cfg.StorageDriver == config.StorageMemory {
		return memory.NewLock()
	}
	return dynamodb.NewDistributedLock(client, cfg.DynamoDBTable, logger)
}

// ProvideMetrics creates the metrics publisher
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	namespace := fmt.Sprintf("RoadmapBackend/%s", cfg.Environment)
	if !cfg.EnableMetrics {
		// Nil client keeps recording local and drops flushes
		return observability.NewMetrics(namespace, nil)
	}
	return observability.NewMetrics(namespace, client)
}

// ProvideTracer creates the tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer("roadmap-backend")
}

// ProvideInMemoryCache creates the query-side cache
// In production this would be Redis or similar
func ProvideInMemoryCache() ports.Cache {
	return NewInMemoryCache()
}

// ProvideJWTValidator creates the token validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" && !cfg.IsProduction() {
		secret = "local-development-secret"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     secret,
		Issuer:        cfg.JWTIssuer,
	})
}

// ProvideRateLimiter creates the per-IP rate limiter
func ProvideRateLimiter() *auth.TokenBucketLimiter {
	return auth.NewIPRateLimiter()
}

// ProvideDiffer creates the content differ
func ProvideDiffer() *versioning.Differ {
	return versioning.NewDiffer()
}

// ProvideDocumentValidator creates the document validator
func ProvideDocumentValidator(domainCfg *domainconfig.DomainConfig) *validators.DocumentValidator {
	return validators.NewDocumentValidator(domainCfg)
}

// ProvideReconciler creates the progress reconciler
func ProvideReconciler(progressRepo ports.ProgressRepository, logger *zap.Logger) *services.Reconciler {
	return services.NewReconciler(progressRepo, logger)
}

// ProvideAccessService creates the access oracle
func ProvideAccessService(roadmapRepo ports.RoadmapRepository, accessRepo ports.AccessRepository, logger *zap.Logger) *services.AccessService {
	return services.NewAccessService(roadmapRepo, accessRepo, logger)
}

// Command handler providers

func ProvideCreateRoadmapHandler(roadmapRepo ports.RoadmapRepository, publisher ports.EventPublisher, logger *zap.Logger) *commands.CreateRoadmapHandler {
	return commands.NewCreateRoadmapHandler(roadmapRepo, publisher, logger)
}

func ProvideUpdateRoadmapHandler(roadmapRepo ports.RoadmapRepository, logger *zap.Logger) *commands.UpdateRoadmapHandler {
	return commands.NewUpdateRoadmapHandler(roadmapRepo, logger)
}

func ProvideDeleteRoadmapHandler(
	roadmapRepo ports.RoadmapRepository,
	progressRepo ports.ProgressRepository,
	accessRepo ports.AccessRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *commands.DeleteRoadmapHandler {
	return commands.NewDeleteRoadmapHandler(roadmapRepo, progressRepo, accessRepo, publisher, logger)
}

func ProvideEditContentHandler(
	roadmapRepo ports.RoadmapRepository,
	validator *validators.DocumentValidator,
	differ *versioning.Differ,
	reconciler *services.Reconciler,
	lock ports.DistributedLock,
	publisher ports.EventPublisher,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *commands.EditContentHandler {
	return commands.NewEditContentHandler(roadmapRepo, validator, differ, reconciler, lock, publisher, tracer, logger)
}

func ProvidePublishRoadmapHandler(
	roadmapRepo ports.RoadmapRepository,
	accessRepo ports.AccessRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *commands.PublishRoadmapHandler {
	return commands.NewPublishRoadmapHandler(roadmapRepo, accessRepo, publisher, logger)
}

func ProvideChangeProgressHandler(
	roadmapRepo ports.RoadmapRepository,
	progressRepo ports.ProgressRepository,
	userRepo ports.UserRepository,
	access *services.AccessService,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *commands.ChangeProgressHandler {
	return commands.NewChangeProgressHandler(roadmapRepo, progressRepo, userRepo, access, publisher, logger)
}

func ProvideAccessHandler(
	roadmapRepo ports.RoadmapRepository,
	accessRepo ports.AccessRepository,
	userRepo ports.UserRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *commands.AccessHandler {
	return commands.NewAccessHandler(roadmapRepo, accessRepo, userRepo, publisher, logger)
}

func ProvideStarHandler(userRepo ports.UserRepository, access *services.AccessService, logger *zap.Logger) *commands.StarHandler {
	return commands.NewStarHandler(userRepo, access, logger)
}

func ProvideRegisterUserHandler(userRepo ports.UserRepository, logger *zap.Logger) *commands.RegisterUserHandler {
	return commands.NewRegisterUserHandler(userRepo, logger)
}

// Query handler providers

func ProvideGetRoadmapHandler(
	roadmapRepo ports.RoadmapRepository,
	progressRepo ports.ProgressRepository,
	userRepo ports.UserRepository,
	access *services.AccessService,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *queries.GetRoadmapHandler {
	return queries.NewGetRoadmapHandler(roadmapRepo, progressRepo, userRepo, access, domainCfg, logger)
}

func ProvideListRoadmapsHandler(
	roadmapRepo ports.RoadmapRepository,
	userRepo ports.UserRepository,
	accessRepo ports.AccessRepository,
	logger *zap.Logger,
) *queries.ListRoadmapsHandler {
	return queries.NewListRoadmapsHandler(roadmapRepo, userRepo, accessRepo, logger)
}

func ProvideGetProgressHandler(
	roadmapRepo ports.RoadmapRepository,
	progressRepo ports.ProgressRepository,
	access *services.AccessService,
	logger *zap.Logger,
) *queries.GetProgressHandler {
	return queries.NewGetProgressHandler(roadmapRepo, progressRepo, access, logger)
}

// CommandHandlerAdapter adapts typed command handlers to the bus interface
type CommandHandlerAdapter struct {
	handler func(context.Context, cmdbus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd cmdbus.Command) error {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates the command bus used by the retry worker,
// with logging and metrics middleware applied to every handler
func ProvideCommandBus(
	reconciler *services.Reconciler,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *cmdbus.CommandBus {
	commandBus := cmdbus.NewCommandBus()
	pipeline := cmdbus.NewPipeline(
		cmdbus.LoggingMiddleware(logger),
		cmdbus.MetricsMiddleware(metrics),
	)

	reconcileHandler := commands.NewReconcileProgressHandler(reconciler, logger)
	commandBus.Register(commands.ReconcileProgressCommand{}, pipeline.Execute(reconcileHandler))

	return commandBus
}

// QueryHandlerAdapter adapts typed query handlers to the bus interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus creates the query bus with registered handlers.
// Listing results are cached briefly; GetRoadmap is never cached
// because viewing creates progress records and visit entries.
func ProvideQueryBus(
	getRoadmap *queries.GetRoadmapHandler,
	listRoadmaps *queries.ListRoadmapsHandler,
	getProgress *queries.GetProgressHandler,
	cache ports.Cache,
	metrics *observability.Metrics,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()
	metricsMw := querybus.NewMetricsMiddleware(metrics)
	cachingMw := querybus.NewCachingMiddleware(cache, listCacheTTL)

	queryBus.Register(queries.GetRoadmapQuery{}, metricsMw.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetRoadmapQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return getRoadmap.Handle(ctx, q)
		},
	}))

	queryBus.Register(queries.ListRoadmapsQuery{}, metricsMw.Wrap(cachingMw.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.ListRoadmapsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return listRoadmaps.Handle(ctx, q)
		},
	})))

	queryBus.Register(queries.GetProgressQuery{}, metricsMw.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetProgressQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return getProgress.Handle(ctx, q)
		},
	}))

	return queryBus
}
