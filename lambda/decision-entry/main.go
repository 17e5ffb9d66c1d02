package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/dmoodbackend/internal/analytics"
	"github.com/dmoodbackend/internal/auth"
	"github.com/dmoodbackend/internal/db"
	"github.com/dmoodbackend/internal/encryption"
	"github.com/dmoodbackend/internal/idempotency"
	"github.com/dmoodbackend/internal/logger"
	"github.com/dmoodbackend/internal/models"
	"github.com/dmoodbackend/internal/store"
	"github.com/dmoodbackend/internal/validate"
)

type DecisionRequest struct {
	Timestamp int64    `json:"timestamp"` // milliseconds since epoch; 0 means now
	Text      string   `json:"text"`
	Emotions  []string `json:"emotions"`
	Intensity int      `json:"intensity"`
	Category  string   `json:"category"`
}

type DecisionResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Timestamp     time.Time `json:"timestamp"`
	Text          string    `json:"text"`
	Emotions      []string  `json:"emotions"`
	Intensity     int       `json:"intensity"`
	Category      string    `json:"category"`
	Tone          string    `json:"tone"`
	GrowthRelated bool      `json:"growth_related"`
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

	decisions := store.NewDecisionStore(db.DB)

	switch request.HTTPMethod {
	case "POST":
		return createDecision(ctx, userID, request, decisions)
	case "PUT":
		return updateDecision(ctx, userID, request, decisions)
	case "DELETE":
		return deleteDecision(ctx, userID, request, decisions)
	default:
		return createErrorResponse(405, "METHOD_NOT_ALLOWED", "Unsupported method", request.HTTPMethod), nil
	}
}

func createDecision(ctx context.Context, userID string, request events.APIGatewayProxyRequest, decisions *store.DecisionStore) (events.APIGatewayProxyResponse, error) {
	var req DecisionRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(400, "INVALID_REQUEST", "Invalid JSON in request body", err.Error()), nil
	}

	decision, err := buildDecision(userID, req)
	if err != nil {
		return createErrorResponse(400, "VALIDATION_ERROR", err.Error(), ""), nil
	}

	idempotencyService, err := idempotency.NewIdempotencyService()
	if err != nil {
		return createErrorResponse(500, "SERVICE_ERROR", "Failed to initialize idempotency service", err.Error()), nil
	}

	kmsService, err := encryption.NewKMSClient()
	if err != nil {
		return createErrorResponse(500, "SERVICE_ERROR", "Failed to initialize encryption service", err.Error()), nil
	}

	response, err := idempotencyService.ProcessIdempotentRequest(
		ctx,
		userID,
		"POST /decisions",
		request.Body,
		func() (interface{}, error) {
			encryptedText, err := kmsService.EncryptText(ctx, decision.Text)
			if err != nil {
				return nil, fmt.Errorf("failed to encrypt text: %v", err)
			}

			stored := decision
			stored.Text = encryptedText
			id, err := decisions.Insert(ctx, stored)
			if err != nil {
				return nil, err
			}
			decision.ID = id
			return toResponse(decision), nil
		},
	)
	if err != nil {
		log.Error("decision create failed", "user_id", userID, "error", err)
		return createErrorResponse(500, "PROCESSING_ERROR", "Failed to store decision", err.Error()), nil
	}

	return createJSONResponse(201, response), nil
}

func updateDecision(ctx context.Context, userID string, request events.APIGatewayProxyRequest, decisions *store.DecisionStore) (events.APIGatewayProxyResponse, error) {
	id := request.PathParameters["id"]
	if id == "" {
		return createErrorResponse(400, "INVALID_REQUEST", "Missing decision id", ""), nil
	}

	var req DecisionRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return createErrorResponse(400, "INVALID_REQUEST", "Invalid JSON in request body", err.Error()), nil
	}

	decision, err := buildDecision(userID, req)
	if err != nil {
		return createErrorResponse(400, "VALIDATION_ERROR", err.Error(), ""), nil
	}
	decision.ID = id

	kmsService, err := encryption.NewKMSClient()
	if err != nil {
		return createErrorResponse(500, "SERVICE_ERROR", "Failed to initialize encryption service", err.Error()), nil
	}

	encryptedText, err := kmsService.EncryptText(ctx, decision.Text)
	if err != nil {
		return createErrorResponse(500, "PROCESSING_ERROR", "Failed to encrypt text", err.Error()), nil
	}

	stored := decision
	stored.Text = encryptedText
	if err := decisions.Update(ctx, stored); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return createErrorResponse(404, "NOT_FOUND", "Decision not found", ""), nil
		}
		log.Error("decision update failed", "user_id", userID, "decision_id", id, "error", err)
		return createErrorResponse(500, "PROCESSING_ERROR", "Failed to update decision", err.Error()), nil
	}

	return createJSONResponse(200, toResponse(decision)), nil
}

func deleteDecision(ctx context.Context, userID string, request events.APIGatewayProxyRequest, decisions *store.DecisionStore) (events.APIGatewayProxyResponse, error) {
	id := request.PathParameters["id"]
	if id == "" {
		return createErrorResponse(400, "INVALID_REQUEST", "Missing decision id", ""), nil
	}

	if err := decisions.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return createErrorResponse(404, "NOT_FOUND", "Decision not found", ""), nil
		}
		log.Error("decision delete failed", "user_id", userID, "decision_id", id, "error", err)
		return createErrorResponse(500, "PROCESSING_ERROR", "Failed to delete decision", err.Error()), nil
	}

	return events.APIGatewayProxyResponse{StatusCode: 204}, nil
}

// buildDecision converts a request into a validated decision with its
// tone derived. Tone is never taken from the client; it is recomputed
// on every create and update.
func buildDecision(userID string, req DecisionRequest) (models.Decision, error) {
	emotions := make([]models.Emotion, len(req.Emotions))
	for i, e := range req.Emotions {
		emotions[i] = models.Emotion(e)
	}

	timestamp := time.Now()
	if req.Timestamp != 0 {
		timestamp = time.UnixMilli(req.Timestamp)
	}

	decision := models.Decision{
		UserID:    userID,
		Timestamp: timestamp,
		Text:      req.Text,
		Emotions:  emotions,
		Intensity: req.Intensity,
		Category:  models.Category(req.Category),
	}

	if err := validate.Decision(decision); err != nil {
		return models.Decision{}, err
	}

	decision.Tone = analytics.ClassifyTone(decision.Emotions, decision.Intensity)
	return decision, nil
}

func toResponse(d models.Decision) DecisionResponse {
	emotions := make([]string, len(d.Emotions))
	for i, e := range d.Emotions {
		emotions[i] = string(e)
	}
	return DecisionResponse{
		ID:            d.ID,
		UserID:        d.UserID,
		Timestamp:     d.Timestamp,
		Text:          d.Text,
		Emotions:      emotions,
		Intensity:     d.Intensity,
		Category:      string(d.Category),
		Tone:          string(d.Tone),
		GrowthRelated: d.Category.GrowthRelated(),
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
	if err := db.InitDB(); err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
}

func main() {
	lambda.Start(handler)
}
