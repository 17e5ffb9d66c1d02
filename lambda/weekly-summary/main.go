package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/dmoodbackend/internal/analytics"
	"github.com/dmoodbackend/internal/auth"
	"github.com/dmoodbackend/internal/db"
	"github.com/dmoodbackend/internal/logger"
	"github.com/dmoodbackend/internal/prefs"
	"github.com/dmoodbackend/internal/store"
)

type SummaryResponse struct {
	Available   bool                       `json:"available"`
	WindowStart string                     `json:"window_start,omitempty"`
	WindowEnd   string                     `json:"window_end,omitempty"`
	NextRelease string                     `json:"next_release"`
	Summary     *analytics.WeeklySummary   `json:"summary,omitempty"`
	Highlights  *analytics.WeeklyHighlight `json:"highlights,omitempty"`
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

	prefsService, err := prefs.NewService()
	if err != nil {
		return createErrorResponse(500, "SERVICE_ERROR", "Failed to initialize preferences service", err.Error()), nil
	}

	preferences, err := prefsService.Get(ctx, userID)
	if err != nil {
		return createErrorResponse(500, "SERVICE_ERROR", "Failed to load preferences", err.Error()), nil
	}

	weekStartDay, err := prefs.ParseWeekday(preferences.WeekStartDay)
	if err != nil {
		return createErrorResponse(500, "SERVICE_ERROR", "Invalid stored week start day", err.Error()), nil
	}

	firstUseDate, err := time.ParseInLocation(prefs.DateLayout, preferences.FirstUseDate, time.Local)
	if err != nil {
		return createErrorResponse(500, "SERVICE_ERROR", "Invalid stored first use date", err.Error()), nil
	}

	decisionStore := store.NewDecisionStore(db.DB)

	// Decisions imported from before the preferences record existed
	// move the schedule origin back to the real start of tracking.
	if earliest, err := decisionStore.EarliestTimestamp(ctx, userID); err == nil && earliest != nil && earliest.Before(firstUseDate) {
		firstUseDate = *earliest
	}

	schedule := analytics.CalculateSchedule(firstUseDate, weekStartDay, time.Now(), analytics.DefaultMinimumTrackedDays)

	response := SummaryResponse{
		Available:   schedule.Available,
		NextRelease: schedule.NextRelease.Format(prefs.DateLayout),
	}

	// Before the first eligible anchor there is no window at all.
	if schedule.Anchor.IsZero() {
		return createJSONResponse(200, response), nil
	}

	// The window covers whole calendar days: start of WindowStart to
	// the last instant of WindowEnd.
	windowStart := schedule.WindowStart
	windowEnd := schedule.WindowEnd.AddDate(0, 0, 1).Add(-time.Millisecond)

	decisions, err := decisionStore.GetByDateRange(ctx, userID, windowStart, windowEnd)
	if err != nil {
		log.Error("window query failed", "user_id", userID, "error", err)
		return createErrorResponse(500, "PROCESSING_ERROR", "Failed to load decisions", err.Error()), nil
	}

	summary := analytics.BuildWeeklySummary(decisions, windowStart, windowEnd)
	highlights := analytics.ExtractHighlights(summary, decisions)

	response.WindowStart = schedule.WindowStart.Format(prefs.DateLayout)
	response.WindowEnd = schedule.WindowEnd.Format(prefs.DateLayout)
	response.Summary = &summary
	response.Highlights = &highlights

	return createJSONResponse(200, response), nil
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
