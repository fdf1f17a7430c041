package servicebus

import (
	"context"
	"encoding/json"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"

	"creator-hub/domain/repository"
	"creator-hub/infrastructure/logger"
)

const defaultQueue = "tiktok-publish-events"

// PublishEvents emits terminal publish states to a Service Bus queue. A nil
// client turns the emitter into a no-op so the feature stays optional.
type PublishEvents struct {
	client *azservicebus.Client
	queue  string
}

func NewPublishEvents(client *azservicebus.Client, queue string) repository.IPublishEvents {
	if queue == "" {
		queue = defaultQueue
	}
	return &PublishEvents{client: client, queue: queue}
}

func (p *PublishEvents) Publish(ctx context.Context, event *repository.PublishEvent) error {
	if p.client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	sender, err := p.client.NewSender(p.queue, nil)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while making new sender service bus.")
		return err
	}
	defer func(sender *azservicebus.Sender, ctx context.Context) {
		if err := sender.Close(ctx); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing sender.")
		}
	}(sender, context.Background())

	if err := sender.SendMessage(ctx, &azservicebus.Message{Body: payload}, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}
