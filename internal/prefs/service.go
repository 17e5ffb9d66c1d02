// Package prefs stores per-user scheduling preferences in DynamoDB:
// the configured week start day, the first use date, the weekly
// reminder toggle, and the last anchor date a release notification was
// sent for. The analytics core never touches this state; it is read
// and written only by the orchestration handlers.
package prefs

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dmoodbackend/internal/models"
)

// DateLayout is the storage format of date-valued preference fields.
const DateLayout = "2006-01-02"

const defaultWeekStartDay = "Monday"

type Service struct {
	client    *dynamodb.Client
	tableName string
}

type preferencesRecord struct {
	UserID                 string `dynamodbav:"user_id"`
	WeekStartDay           string `dynamodbav:"week_start_day"`
	FirstUseDate           string `dynamodbav:"first_use_date"`
	WeeklyReminderEnabled  bool   `dynamodbav:"weekly_reminder_enabled"`
	LastAcknowledgedAnchor string `dynamodbav:"last_acknowledged_anchor"`
	CreatedAt              string `dynamodbav:"created_at"`
	UpdatedAt              string `dynamodbav:"updated_at"`
}

func NewService() (*Service, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}

	tableName := "dmood-preferences"
	if envTable := os.Getenv("PREFERENCES_TABLE_NAME"); envTable != "" {
		tableName = envTable
	}

	client := dynamodb.NewFromConfig(cfg)
	return &Service{
		client:    client,
		tableName: tableName,
	}, nil
}

// Get returns the user's preferences, lazily initializing them on
// first access: week start day defaults to Monday, the first use date
// is stamped with today and persisted so the weekly schedule has a
// stable origin.
func (s *Service) Get(ctx context.Context, userID string) (models.Preferences, error) {
	record, err := s.getRecord(ctx, userID)
	if err != nil {
		return models.Preferences{}, err
	}

	if record == nil {
		record = &preferencesRecord{
			UserID:                userID,
			WeekStartDay:          defaultWeekStartDay,
			FirstUseDate:          time.Now().Format(DateLayout),
			WeeklyReminderEnabled: true,
			CreatedAt:             time.Now().Format(time.RFC3339),
			UpdatedAt:             time.Now().Format(time.RFC3339),
		}
		if err := s.saveRecord(ctx, record); err != nil {
			return models.Preferences{}, err
		}
	}

	return models.Preferences{
		UserID:                 record.UserID,
		WeekStartDay:           record.WeekStartDay,
		FirstUseDate:           record.FirstUseDate,
		WeeklyReminderEnabled:  record.WeeklyReminderEnabled,
		LastAcknowledgedAnchor: record.LastAcknowledgedAnchor,
	}, nil
}

// Update overwrites the user-settable fields: week start day and the
// reminder toggle. The first use date and acknowledged anchor are
// owned by the system and not touched here.
func (s *Service) Update(ctx context.Context, userID, weekStartDay string, reminderEnabled bool) (models.Preferences, error) {
	if _, err := ParseWeekday(weekStartDay); err != nil {
		return models.Preferences{}, err
	}

	record, err := s.getRecord(ctx, userID)
	if err != nil {
		return models.Preferences{}, err
	}
	if record == nil {
		record = &preferencesRecord{
			UserID:       userID,
			FirstUseDate: time.Now().Format(DateLayout),
			CreatedAt:    time.Now().Format(time.RFC3339),
		}
	}

	record.WeekStartDay = weekStartDay
	record.WeeklyReminderEnabled = reminderEnabled
	record.UpdatedAt = time.Now().Format(time.RFC3339)

	if err := s.saveRecord(ctx, record); err != nil {
		return models.Preferences{}, err
	}

	return models.Preferences{
		UserID:                 record.UserID,
		WeekStartDay:           record.WeekStartDay,
		FirstUseDate:           record.FirstUseDate,
		WeeklyReminderEnabled:  record.WeeklyReminderEnabled,
		LastAcknowledgedAnchor: record.LastAcknowledgedAnchor,
	}, nil
}

// AcknowledgeAnchor records that the release for the given anchor date
// has been notified, so a daily poll never re-notifies the same
// window.
func (s *Service) AcknowledgeAnchor(ctx context.Context, userID string, anchor time.Time) error {
	record, err := s.getRecord(ctx, userID)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("no preferences for user %s", userID)
	}

	record.LastAcknowledgedAnchor = anchor.Format(DateLayout)
	record.UpdatedAt = time.Now().Format(time.RFC3339)
	return s.saveRecord(ctx, record)
}

func (s *Service) getRecord(ctx context.Context, userID string) (*preferencesRecord, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
	}

	result, err := s.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %v", err)
	}

	if result.Item == nil {
		return nil, nil // No record found
	}

	var record preferencesRecord
	err = attributevalue.UnmarshalMap(result.Item, &record)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %v", err)
	}

	return &record, nil
}

func (s *Service) saveRecord(ctx context.Context, record *preferencesRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %v", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}

	_, err = s.client.PutItem(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to put preferences: %v", err)
	}

	return nil
}

// ParseWeekday converts a stored weekday name into time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if wd.String() == name {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}
