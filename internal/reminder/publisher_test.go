package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadportal/slaclock/pkg/types"
)

type mockSQS struct {
	sendFn func(ctx context.Context, input *sqs.SendMessageInput, opts ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

func (m *mockSQS) SendMessage(ctx context.Context, input *sqs.SendMessageInput, opts ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if m.sendFn != nil {
		return m.sendFn(ctx, input, opts...)
	}
	return &sqs.SendMessageOutput{}, nil
}

func TestPublish(t *testing.T) {
	var captured *sqs.SendMessageInput
	pub := NewPublisherFromClient(&mockSQS{
		sendFn: func(_ context.Context, input *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
			captured = input
			return &sqs.SendMessageOutput{}, nil
		},
	}, "https://sqs.us-east-1.amazonaws.com/123/reminders")

	reminder := types.Reminder{
		RunID:         "01JMXW0000000000000000TEST",
		ProposalID:    "p-42",
		Stage:         types.StageFacultyReview,
		State:         types.DeadlineOverdue,
		Deadline:      time.Date(2026, time.January, 15, 17, 0, 0, 0, time.UTC),
		RemainingDays: 0,
	}
	require.NoError(t, pub.Publish(context.Background(), reminder))

	require.NotNil(t, captured)
	assert.Equal(t, "https://sqs.us-east-1.amazonaws.com/123/reminders", aws.ToString(captured.QueueUrl))
	assert.Equal(t, "overdue", aws.ToString(captured.MessageAttributes["state"].StringValue))
	assert.Equal(t, types.StageFacultyReview, aws.ToString(captured.MessageAttributes["stage"].StringValue))

	var decoded types.Reminder
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(captured.MessageBody)), &decoded))
	assert.Equal(t, reminder.ProposalID, decoded.ProposalID)
	assert.True(t, decoded.Deadline.Equal(reminder.Deadline))
}

func TestRemindFunc_SwallowsErrors(t *testing.T) {
	pub := NewPublisherFromClient(&mockSQS{
		sendFn: func(context.Context, *sqs.SendMessageInput, ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
			return nil, errors.New("queue gone")
		},
	}, "url")

	// Must not panic or propagate; the sweep keeps going.
	pub.RemindFunc()(context.Background(), types.Reminder{ProposalID: "p-1"})
}
