package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/dmoodbackend/internal/auth"
	"github.com/dmoodbackend/internal/db"
	"github.com/dmoodbackend/internal/logger"
	"github.com/dmoodbackend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

var log *logger.Logger

func handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req RegisterRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: 400,
			Body:       fmt.Sprintf("Invalid request: %v", err),
		}, nil
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return events.APIGatewayProxyResponse{
			StatusCode: 400,
			Body:       "A valid email is required",
		}, nil
	}
	if len(req.Password) < minPasswordLength {
		return events.APIGatewayProxyResponse{
			StatusCode: 400,
			Body:       fmt.Sprintf("Password must be at least %d characters", minPasswordLength),
		}, nil
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: 500,
			Body:       "Error processing password",
		}, nil
	}

	user := models.User{
		Email:    req.Email,
		Password: string(hashedPassword),
	}

	var userID string
	err = db.DB.QueryRowContext(ctx,
		"INSERT INTO users (email, password) VALUES ($1, $2) RETURNING id",
		user.Email, user.Password,
	).Scan(&userID)

	if err != nil {
		log.Error("user create failed", "email", req.Email, "error", err)
		return events.APIGatewayProxyResponse{
			StatusCode: 500,
			Body:       "Error creating user",
		}, nil
	}

	token, err := auth.GenerateToken(userID)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: 500,
			Body:       "Error generating token",
		}, nil
	}

	responseBody, err := json.Marshal(RegisterResponse{
		UserID: userID,
		Token:  token,
	})
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: 500,
			Body:       "Error creating response",
		}, nil
	}

	return events.APIGatewayProxyResponse{
		StatusCode: 201,
		Body:       string(responseBody),
	}, nil
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
