// Package events delivers PaymentEvents to the configured bus.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	awspkg "github.com/MD-HACKER07/atlanticenterprise-sub001/pkg/aws"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/models"
)

// Publisher sends a payment event to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event models.PaymentEvent) error
}

// NoopPublisher drops every event. Used when EVENT_BUS=none.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, models.PaymentEvent) error { return nil }

// SNSPublisher fans events out through an SNS topic.
type SNSPublisher struct {
	client   awspkg.SNSPublisher
	topicArn string
}

func NewSNSPublisher(client awspkg.SNSPublisher, topicArn string) *SNSPublisher {
	return &SNSPublisher{client: client, topicArn: topicArn}
}

func (p *SNSPublisher) Publish(ctx context.Context, event models.PaymentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal payment event: %w", err)
	}
	return p.client.Publish(ctx, p.topicArn, event.Type, payload)
}

// MessageSender is satisfied by awspkg.SQSProducer.
type MessageSender interface {
	SendMessage(ctx context.Context, eventType string, body []byte) error
}

// SQSPublisher queues events for the document-generation workers.
type SQSPublisher struct {
	sender MessageSender
}

func NewSQSPublisher(sender MessageSender) *SQSPublisher {
	return &SQSPublisher{sender: sender}
}

func (p *SQSPublisher) Publish(ctx context.Context, event models.PaymentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal payment event: %w", err)
	}
	return p.sender.SendMessage(ctx, event.Type, payload)
}
