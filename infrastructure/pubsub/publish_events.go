package pubsub

import (
	"context"
	"encoding/json"

	"cloud.google.com/go/pubsub"

	"creator-hub/domain/repository"
	"creator-hub/infrastructure/logger"
)

const defaultTopic = "tiktok-publish-events"

// PublishEvents emits terminal publish states to a Pub/Sub topic. A nil
// client turns the emitter into a no-op so the feature stays optional.
type PublishEvents struct {
	client *pubsub.Client
	topic  string
}

func NewPublishEvents(client *pubsub.Client, topic string) repository.IPublishEvents {
	if topic == "" {
		topic = defaultTopic
	}
	return &PublishEvents{client: client, topic: topic}
}

func (p *PublishEvents) Publish(ctx context.Context, event *repository.PublishEvent) error {
	if p.client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	topic := p.client.Topic(p.topic)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.topic).Info("Topic doesn't exist - creating it")
		if _, err := p.client.CreateTopic(ctx, p.topic); err != nil {
			return err
		}
		topic = p.client.Topic(p.topic)
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx)
	if err != nil {
		return err
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"server ID":  serverID,
		"publish_id": event.PublishID,
		"state":      event.State,
	}).Info("Publish event emitted")
	return nil
}
