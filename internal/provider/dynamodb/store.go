// Package dynamodb implements the holiday and proposal stores on AWS DynamoDB.
// Holiday entries and proposal records share one table: CAL#<name>/DATE#<day>
// items for the holiday calendar, PROPOSAL#<id>/CONFIG items for proposals.
package dynamodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/acadportal/slaclock/internal/provider"
	"github.com/acadportal/slaclock/pkg/types"
)

// Compile-time interface satisfaction checks.
var (
	_ provider.HolidayStore  = (*Store)(nil)
	_ provider.ProposalStore = (*Store)(nil)
)

// Config holds the DynamoDB connection settings.
type Config struct {
	TableName string `yaml:"tableName"`
	Region    string `yaml:"region,omitempty"`
	// Endpoint points at DynamoDB Local when set; static throwaway
	// credentials are used so no real AWS config is required.
	Endpoint string `yaml:"endpoint,omitempty"`
}

// DDBAPI is the subset of the DynamoDB client the store uses.
type DDBAPI interface {
	PutItem(ctx context.Context, input *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, input *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, input *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, input *dynamodb.ScanInput, opts ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DeleteItem(ctx context.Context, input *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	DescribeTable(ctx context.Context, input *dynamodb.DescribeTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Store implements the holiday and proposal stores backed by DynamoDB.
type Store struct {
	client    DDBAPI
	tableName string
	logger    *slog.Logger
}

// New creates a new Store.
func New(cfg *Config) (*Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	// For DynamoDB Local: use static credentials and a custom endpoint.
	if cfg.Endpoint != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	var clientOpts []func(*dynamodb.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return &Store{
		client:    dynamodb.NewFromConfig(awsCfg, clientOpts...),
		tableName: cfg.TableName,
		logger:    slog.Default(),
	}, nil
}

type holidayItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	Date       string `dynamodbav:"date"`
	Name       string `dynamodbav:"name,omitempty"`
	WorkingDay bool   `dynamodbav:"workingDay"`
}

type proposalItem struct {
	PK          string    `dynamodbav:"PK"`
	SK          string    `dynamodbav:"SK"`
	ID          string    `dynamodbav:"id"`
	Title       string    `dynamodbav:"title,omitempty"`
	Stage       string    `dynamodbav:"stage"`
	Calendar    string    `dynamodbav:"calendar,omitempty"`
	SubmittedAt time.Time `dynamodbav:"submittedAt"`
}

// PutHoliday inserts or replaces a holiday entry.
func (s *Store) PutHoliday(ctx context.Context, calendar string, entry types.HolidayEntry) error {
	day, err := time.Parse(types.DateFormat, entry.Date)
	if err != nil {
		return fmt.Errorf("holiday date %q: %w", entry.Date, err)
	}

	item, err := attributevalue.MarshalMap(holidayItem{
		PK:         calendarPK(calendar),
		SK:         dateSK(day),
		Date:       entry.Date,
		Name:       entry.Name,
		WorkingDay: entry.WorkingDay,
	})
	if err != nil {
		return fmt.Errorf("marshaling holiday: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("putting holiday %s/%s: %w", calendar, entry.Date, err)
	}
	return nil
}

// GetHoliday returns the entry for a day, or nil when none is recorded.
func (s *Store) GetHoliday(ctx context.Context, calendar string, day time.Time) (*types.HolidayEntry, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]ddbtypes.AttributeValue{
			"PK": &ddbtypes.AttributeValueMemberS{Value: calendarPK(calendar)},
			"SK": &ddbtypes.AttributeValueMemberS{Value: dateSK(day)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting holiday: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item holidayItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshaling holiday: %w", err)
	}
	return &types.HolidayEntry{Date: item.Date, Name: item.Name, WorkingDay: item.WorkingDay}, nil
}

// ListRange returns all entries with from <= date <= to, date-ascending.
// The SK encoding sorts lexicographically in date order, so this is a single
// ranged query per call.
func (s *Store) ListRange(ctx context.Context, calendar string, from, to time.Time) ([]types.HolidayEntry, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND SK BETWEEN :from AND :to"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":pk":   &ddbtypes.AttributeValueMemberS{Value: calendarPK(calendar)},
			":from": &ddbtypes.AttributeValueMemberS{Value: dateSK(from)},
			":to":   &ddbtypes.AttributeValueMemberS{Value: dateSK(to)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("querying holidays %s: %w", calendar, err)
	}

	entries := make([]types.HolidayEntry, 0, len(out.Items))
	for _, raw := range out.Items {
		var item holidayItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshaling holiday: %w", err)
		}
		entries = append(entries, types.HolidayEntry{Date: item.Date, Name: item.Name, WorkingDay: item.WorkingDay})
	}
	return entries, nil
}

// DeleteHoliday removes an entry; removing an absent entry is not an error.
func (s *Store) DeleteHoliday(ctx context.Context, calendar string, day time.Time) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]ddbtypes.AttributeValue{
			"PK": &ddbtypes.AttributeValueMemberS{Value: calendarPK(calendar)},
			"SK": &ddbtypes.AttributeValueMemberS{Value: dateSK(day)},
		},
	})
	if err != nil {
		return fmt.Errorf("deleting holiday: %w", err)
	}
	return nil
}

// PutProposal inserts or replaces a proposal record.
func (s *Store) PutProposal(ctx context.Context, p types.Proposal) error {
	item, err := attributevalue.MarshalMap(proposalItem{
		PK:          proposalPK(p.ID),
		SK:          skConfig,
		ID:          p.ID,
		Title:       p.Title,
		Stage:       p.Stage,
		Calendar:    p.Calendar,
		SubmittedAt: p.SubmittedAt,
	})
	if err != nil {
		return fmt.Errorf("marshaling proposal: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("putting proposal %s: %w", p.ID, err)
	}
	return nil
}

// GetProposal returns a proposal by id, or nil if not found.
func (s *Store) GetProposal(ctx context.Context, id string) (*types.Proposal, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]ddbtypes.AttributeValue{
			"PK": &ddbtypes.AttributeValueMemberS{Value: proposalPK(id)},
			"SK": &ddbtypes.AttributeValueMemberS{Value: skConfig},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting proposal: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item proposalItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshaling proposal: %w", err)
	}
	p := itemToProposal(item)
	return &p, nil
}

// ListPending scans all proposal records. The proposal population of a
// portal is small (thousands); a filtered scan is fine and avoids a GSI.
func (s *Store) ListPending(ctx context.Context) ([]types.Proposal, error) {
	var proposals []types.Proposal
	var startKey map[string]ddbtypes.AttributeValue

	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(s.tableName),
			FilterExpression: aws.String("begins_with(PK, :prefix)"),
			ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
				":prefix": &ddbtypes.AttributeValueMemberS{Value: prefixProposal},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scanning proposals: %w", err)
		}

		for _, raw := range out.Items {
			var item proposalItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("unmarshaling proposal: %w", err)
			}
			proposals = append(proposals, itemToProposal(item))
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return proposals, nil
}

func itemToProposal(item proposalItem) types.Proposal {
	return types.Proposal{
		ID:          item.ID,
		Title:       item.Title,
		Stage:       item.Stage,
		Calendar:    item.Calendar,
		SubmittedAt: item.SubmittedAt,
	}
}

// Start verifies the table exists.
func (s *Store) Start(ctx context.Context) error {
	return s.Ping(ctx)
}

// Stop releases nothing; the SDK client holds no long-lived connections.
func (s *Store) Stop(context.Context) error { return nil }

// Ping describes the table to verify connectivity.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return fmt.Errorf("describing table %s: %w", s.tableName, err)
	}
	return nil
}
