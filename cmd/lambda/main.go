package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"

	"roadmap-backend/infrastructure/config"
	"roadmap-backend/infrastructure/di"
	"roadmap-backend/interfaces/http/rest"
)

var (
	chiLambda *chiadapter.ChiLambdaV2
	container *di.Container
)

// init runs during cold start
func init() {
	start := time.Now()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	router := rest.NewRouter(rest.Dependencies{
		Config:         container.Config,
		Logger:         container.Logger,
		QueryBus:       container.QueryBus,
		CreateRoadmap:  container.CreateRoadmap,
		UpdateRoadmap:  container.UpdateRoadmap,
		DeleteRoadmap:  container.DeleteRoadmap,
		EditContent:    container.EditContent,
		PublishRoadmap: container.PublishRoadmap,
		ChangeProgress: container.ChangeProgress,
		AccessGrants:   container.AccessGrants,
		Star:           container.Star,
		RegisterUser:   container.RegisterUser,
		JWTValidator:   container.JWTValidator,
		RateLimiter:    container.RateLimiter,
	})
	handler := router.Setup()

	chiRouter, ok := handler.(*chi.Mux)
	if !ok {
		log.Fatal("Failed to cast handler to chi.Mux")
	}
	chiLambda = chiadapter.NewV2(chiRouter)

	log.Printf("Lambda cold start completed in %v", time.Since(start))
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return chiLambda.ProxyWithContextV2(ctx, req)
}

func main() {
	lambda.Start(Handler)
}
