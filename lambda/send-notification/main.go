package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/dmoodbackend/internal/analytics"
	"github.com/dmoodbackend/internal/db"
	"github.com/dmoodbackend/internal/logger"
	"github.com/dmoodbackend/internal/notify"
	"github.com/dmoodbackend/internal/prefs"
)

var log *logger.Logger

// handler runs on a daily schedule and pushes the "your weekly summary
// is ready" notification to every user whose release anchor is today
// and has not been notified yet. The acknowledged-anchor bookkeeping
// lives in the preferences store; the schedule computation itself is
// pure and stateless.
func handler(ctx context.Context, event events.CloudWatchEvent) error {
	prefsService, err := prefs.NewService()
	if err != nil {
		return fmt.Errorf("failed to initialize preferences service: %v", err)
	}

	notifyService, err := notify.NewService()
	if err != nil {
		return fmt.Errorf("failed to initialize notification service: %v", err)
	}

	rows, err := db.DB.QueryContext(ctx, "SELECT id FROM users")
	if err != nil {
		return fmt.Errorf("failed to list users: %v", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan user id: %v", err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read users: %v", err)
	}

	notified := 0
	for _, userID := range userIDs {
		if err := notifyUser(ctx, userID, prefsService, notifyService); err != nil {
			// One failing user must not block the rest of the run.
			log.Warn("release notification failed", "user_id", userID, "error", err)
		} else {
			notified++
		}
	}

	log.Info("release notification run complete", "users", len(userIDs), "notified", notified)
	return nil
}

func notifyUser(ctx context.Context, userID string, prefsService *prefs.Service, notifyService *notify.Service) error {
	preferences, err := prefsService.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !preferences.WeeklyReminderEnabled {
		return nil
	}

	weekStartDay, err := prefs.ParseWeekday(preferences.WeekStartDay)
	if err != nil {
		return err
	}
	firstUseDate, err := time.ParseInLocation(prefs.DateLayout, preferences.FirstUseDate, time.Local)
	if err != nil {
		return err
	}

	schedule := analytics.CalculateSchedule(firstUseDate, weekStartDay, time.Now(), analytics.DefaultMinimumTrackedDays)
	if !schedule.Available {
		return nil
	}

	// Exactly one notification per anchor.
	if preferences.LastAcknowledgedAnchor == schedule.Anchor.Format(prefs.DateLayout) {
		return nil
	}

	err = notifyService.SendPush(ctx, userID,
		"Your weekly summary is ready",
		fmt.Sprintf("Your decisions from %s to %s have been summarized.",
			schedule.WindowStart.Format(prefs.DateLayout),
			schedule.WindowEnd.Format(prefs.DateLayout)),
	)
	if err != nil {
		return err
	}

	return prefsService.AcknowledgeAnchor(ctx, userID, schedule.Anchor)
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
