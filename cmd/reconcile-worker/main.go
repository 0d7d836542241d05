// Package main implements the Lambda handler that replays progress
// reconciliation from roadmap content update events. The synchronous
// path already reconciled once; this worker re-runs the same diff so
// records written after the edit, or skipped by a transient storage
// failure, still converge.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"roadmap-backend/application/commands"
	commandbus "roadmap-backend/application/commands/bus"
	"roadmap-backend/domain/versioning"
	"roadmap-backend/infrastructure/config"
	"roadmap-backend/infrastructure/di"
)

var commandBus *commandbus.CommandBus

func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	container, err := di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize dependency container: %v", err)
	}

	commandBus = container.CommandBus

	log.Println("Reconcile worker initialized")
}

// contentUpdatedDetail is the EventBridge detail payload for
// roadmap.content_updated events
type contentUpdatedDetail struct {
	RoadmapID string                  `json:"roadmap_id"`
	EditorID  string                  `json:"editor_id"`
	Checksum  string                  `json:"checksum"`
	Diff      *versioning.ContentDiff `json:"diff"`
}

// HandleEvent processes a single EventBridge event
func HandleEvent(ctx context.Context, event awsevents.CloudWatchEvent) error {
	if event.DetailType != "roadmap.content_updated" {
		log.Printf("Ignoring event type %s", event.DetailType)
		return nil
	}

	var detail contentUpdatedDetail
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		return fmt.Errorf("failed to decode event detail: %w", err)
	}

	if detail.Diff == nil || detail.Diff.IsEmpty() {
		log.Printf("Empty diff for roadmap %s, nothing to reconcile", detail.RoadmapID)
		return nil
	}

	cmd := commands.ReconcileProgressCommand{
		RoadmapID: detail.RoadmapID,
		Diff:      detail.Diff,
	}

	if err := commandBus.Send(ctx, cmd); err != nil {
		return fmt.Errorf("reconcile failed for roadmap %s: %w", detail.RoadmapID, err)
	}

	log.Printf("Reconciled progress for roadmap %s (checksum %s)", detail.RoadmapID, detail.Checksum)
	return nil
}

func main() {
	lambda.Start(HandleEvent)
}
