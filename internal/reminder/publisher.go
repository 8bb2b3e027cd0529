// Package reminder publishes deadline reminders onto the portal's work
// queue. The notification workers own rendering and delivery; this side only
// enqueues.
package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/acadportal/slaclock/pkg/types"
)

// SQSAPI is the subset of the SQS client the publisher uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, input *sqs.SendMessageInput, opts ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Publisher sends reminders to an SQS queue as JSON messages.
type Publisher struct {
	client   SQSAPI
	queueURL string
	logger   *slog.Logger
}

// NewPublisher creates a Publisher for the given queue URL using the default
// AWS config chain.
func NewPublisher(ctx context.Context, queueURL string) (*Publisher, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return NewPublisherFromClient(sqs.NewFromConfig(awsCfg), queueURL), nil
}

// NewPublisherFromClient creates a Publisher from an existing client
// (useful for testing).
func NewPublisherFromClient(client SQSAPI, queueURL string) *Publisher {
	return &Publisher{client: client, queueURL: queueURL, logger: slog.Default()}
}

// Publish enqueues one reminder.
func (p *Publisher) Publish(ctx context.Context, r types.Reminder) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling reminder: %w", err)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"state": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(r.State)),
			},
			"stage": {
				DataType:    aws.String("String"),
				StringValue: aws.String(r.Stage),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sending reminder for %s: %w", r.ProposalID, err)
	}
	return nil
}

// RemindFunc adapts the publisher to the sweep's callback. Best-effort:
// failures are logged, not returned, so one queue hiccup does not abort the
// whole sweep.
func (p *Publisher) RemindFunc() func(context.Context, types.Reminder) {
	return func(ctx context.Context, r types.Reminder) {
		if err := p.Publish(ctx, r); err != nil {
			p.logger.Error("publishing reminder failed", "proposal", r.ProposalID, "error", err)
		}
	}
}
