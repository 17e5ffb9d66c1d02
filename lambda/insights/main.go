package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/dmoodbackend/internal/analytics"
	"github.com/dmoodbackend/internal/auth"
	"github.com/dmoodbackend/internal/db"
	"github.com/dmoodbackend/internal/logger"
	"github.com/dmoodbackend/internal/store"
)

const (
	defaultWindowDays = 30
	maxWindowDays     = 365
)

// fallbackInsight is what clients see when the engine has nothing to
// say. The engine itself returns an empty list on empty input; the
// substitution is this handler's job.
var fallbackInsight = analytics.Insight{
	Title:       "Not enough data yet",
	Description: "Register more decisions and insights about your patterns will appear here.",
	Tag:         "empty",
}

type InsightsResponse struct {
	WindowDays int                 `json:"window_days"`
	Insights   []analytics.Insight `json:"insights"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

var log *logger.Logger

func handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	claims, err := auth.ValidateToken(request.Headers["Authorization"])
	if err != nil {
		return createErrorResponse(401, "UNAUTHORIZED", "Invalid or missing authentication token", err.Error()), nil
	}
	userID := claims.UserID

	windowDays := defaultWindowDays
	if raw := request.QueryStringParameters["window_days"]; raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxWindowDays {
			return createErrorResponse(400, "INVALID_REQUEST", "window_days must be between 1 and 365", raw), nil
		}
		windowDays = parsed
	}

	now := time.Now()
	decisions, err := store.NewDecisionStore(db.DB).GetByDateRange(ctx, userID, now.AddDate(0, 0, -windowDays), now)
	if err != nil {
		log.Error("insights query failed", "user_id", userID, "error", err)
		return createErrorResponse(500, "PROCESSING_ERROR", "Failed to load decisions", err.Error()), nil
	}

	insights := analytics.GenerateInsights(decisions)
	if len(insights) == 0 {
		insights = []analytics.Insight{fallbackInsight}
	}

	return createJSONResponse(200, InsightsResponse{
		WindowDays: windowDays,
		Insights:   insights,
	}), nil
}

func createJSONResponse(statusCode int, body interface{}) events.APIGatewayProxyResponse {
	responseBody, err := json.Marshal(body)
	if err != nil {
		return createErrorResponse(500, "SERIALIZATION_ERROR", "Failed to serialize response", err.Error())
	}
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(responseBody),
	}
}

func createErrorResponse(statusCode int, code, message, details string) events.APIGatewayProxyResponse {
	errorResp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}

	body, _ := json.Marshal(errorResp)
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(body),
	}
}

func init() {
	var err error
	log, err = logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	if err := db.InitDB(); err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
}

func main() {
	lambda.Start(handler)
}
