package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"roadmap-backend/application/ports"
	"roadmap-backend/domain/events"
	appErrors "roadmap-backend/pkg/errors"
)

// PutEvents accepts at most 10 entries per call
const maxBatchSize = 10

// Publisher sends domain events to an EventBridge bus. The retry
// worker consumes content-updated events from this bus to replay
// failed reconciliations.
type Publisher struct {
	client  *eventbridge.Client
	busName string
	source  string
	logger  *zap.Logger
}

// NewPublisher creates a new EventBridge publisher
func NewPublisher(client *eventbridge.Client, busName, source string, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:  client,
		busName: busName,
		source:  source,
		logger:  logger,
	}
}

// Publish sends the events in batches
func (p *Publisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	entries := make([]types.PutEventsRequestEntry, 0, len(evts))
	for _, event := range evts {
		detail, err := json.Marshal(event)
		if err != nil {
			return appErrors.Wrap(err, "failed to marshal domain event")
		}
		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.busName),
			Source:       aws.String(p.source),
			DetailType:   aws.String(event.GetEventType()),
			Detail:       aws.String(string(detail)),
			Time:         aws.Time(event.GetTimestamp()),
		})
	}

	for start := 0; start < len(entries); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(entries) {
			end = len(entries)
		}

		out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
			Entries: entries[start:end],
		})
		if err != nil {
			return appErrors.NewExternalError("eventbridge", err)
		}
		if out.FailedEntryCount > 0 {
			for _, entry := range out.Entries {
				if entry.ErrorCode != nil {
					p.logger.Error("event entry rejected",
						zap.String("error_code", aws.ToString(entry.ErrorCode)),
						zap.String("error_message", aws.ToString(entry.ErrorMessage)))
				}
			}
			return appErrors.NewExternalError("eventbridge",
				fmt.Errorf("%d event entries rejected", out.FailedEntryCount))
		}
	}

	p.logger.Debug("events published",
		zap.Int("count", len(entries)),
		zap.String("bus", p.busName))

	return nil
}

var _ ports.EventPublisher = (*Publisher)(nil)
