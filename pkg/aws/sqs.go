package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSProducer sends messages to a single queue. Downstream workers (certificate and
// appointment-letter generation) consume payment events from it.
type SQSProducer struct {
	client   *sqs.Client
	queueURL string
}

func NewSQSProducer(cfg sdkaws.Config, queueURL string) *SQSProducer {
	return &SQSProducer{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
	}
}

// SendMessage sends body with an event_type attribute.
func (p *SQSProducer) SendMessage(ctx context.Context, eventType string, body []byte) error {
	if p.queueURL == "" {
		return fmt.Errorf("empty queueURL")
	}
	input := &sqs.SendMessageInput{
		QueueUrl:    sdkaws.String(p.queueURL),
		MessageBody: sdkaws.String(string(body)),
	}
	if eventType != "" {
		input.MessageAttributes = map[string]types.MessageAttributeValue{
			"event_type": {DataType: sdkaws.String("String"), StringValue: sdkaws.String(eventType)},
		}
	}
	if _, err := p.client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("sqs send failed for queue %s: %w", p.queueURL, err)
	}
	return nil
}
