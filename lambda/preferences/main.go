package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/dmoodbackend/internal/auth"
	"github.com/dmoodbackend/internal/logger"
	"github.com/dmoodbackend/internal/prefs"
)

type UpdatePreferencesRequest struct {
	WeekStartDay          string `json:"week_start_day"`
	WeeklyReminderEnabled bool   `json:"weekly_reminder_enabled"`
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

	switch request.HTTPMethod {
	case "GET":
		preferences, err := prefsService.Get(ctx, userID)
		if err != nil {
			log.Error("preferences read failed", "user_id", userID, "error", err)
			return createErrorResponse(500, "PROCESSING_ERROR", "Failed to load preferences", err.Error()), nil
		}
		return createJSONResponse(200, preferences), nil

	case "PUT":
		var req UpdatePreferencesRequest
		if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
			return createErrorResponse(400, "INVALID_REQUEST", "Invalid JSON in request body", err.Error()), nil
		}

		preferences, err := prefsService.Update(ctx, userID, req.WeekStartDay, req.WeeklyReminderEnabled)
		if err != nil {
			return createErrorResponse(400, "VALIDATION_ERROR", err.Error(), ""), nil
		}
		return createJSONResponse(200, preferences), nil

	default:
		return createErrorResponse(405, "METHOD_NOT_ALLOWED", "Unsupported method", request.HTTPMethod), nil
	}
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
}

func main() {
	lambda.Start(handler)
}
