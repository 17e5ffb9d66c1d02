// Package notify delivers push notifications through SNS. Pure
// transport: what to send and when is decided by the caller.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type Service struct {
	client   *sns.Client
	topicARN string
}

type pushMessage struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

func NewService() (*Service, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}

	topicARN := os.Getenv("PUSH_TOPIC_ARN")
	if topicARN == "" {
		return nil, fmt.Errorf("PUSH_TOPIC_ARN environment variable is required")
	}

	return &Service{
		client:   sns.NewFromConfig(cfg),
		topicARN: topicARN,
	}, nil
}

// SendPush publishes one push notification for the given user.
func (s *Service) SendPush(ctx context.Context, userID, title, body string) error {
	payload, err := json.Marshal(pushMessage{
		UserID: userID,
		Title:  title,
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %v", err)
	}

	_, err = s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(payload)),
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %v", err)
	}

	return nil
}
