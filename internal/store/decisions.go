// Package store persists decision records in PostgreSQL. It is a thin
// keyed store: insert, update, delete, range query, point lookup. The
// text column holds ciphertext; encryption happens at the handler
// layer and the store never sees plaintext.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dmoodbackend/internal/models"
)

// ErrNotFound is returned when a lookup matches no decision.
var ErrNotFound = errors.New("decision not found")

type DecisionStore struct {
	db *sql.DB
}

func NewDecisionStore(db *sql.DB) *DecisionStore {
	return &DecisionStore{db: db}
}

// Insert stores a new decision and returns its assigned id.
func (s *DecisionStore) Insert(ctx context.Context, d models.Decision) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decisions (id, user_id, ts, text, emotions, intensity, category, tone)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, d.UserID, d.Timestamp, d.Text, pq.Array(emotionStrings(d.Emotions)), d.Intensity, d.Category, d.Tone,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert decision: %v", err)
	}
	return id, nil
}

// Update overwrites an existing decision's mutable fields, including
// its recomputed tone.
func (s *DecisionStore) Update(ctx context.Context, d models.Decision) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE decisions
		 SET ts = $1, text = $2, emotions = $3, intensity = $4, category = $5, tone = $6, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $7 AND user_id = $8`,
		d.Timestamp, d.Text, pq.Array(emotionStrings(d.Emotions)), d.Intensity, d.Category, d.Tone, d.ID, d.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update decision: %v", err)
	}
	return checkAffected(result)
}

// Delete removes a decision by id, scoped to its owner.
func (s *DecisionStore) Delete(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM decisions WHERE id = $1 AND user_id = $2", id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete decision: %v", err)
	}
	return checkAffected(result)
}

// GetByID returns one decision, or ErrNotFound.
func (s *DecisionStore) GetByID(ctx context.Context, userID, id string) (models.Decision, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, ts, text, emotions, intensity, category, tone
		 FROM decisions WHERE id = $1 AND user_id = $2`, id, userID,
	)
	d, err := scanDecision(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Decision{}, ErrNotFound
	}
	if err != nil {
		return models.Decision{}, fmt.Errorf("failed to get decision: %v", err)
	}
	return d, nil
}

// GetByDateRange returns a user's decisions with start <= ts <= end,
// ascending by timestamp.
func (s *DecisionStore) GetByDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.Decision, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, ts, text, emotions, intensity, category, tone
		 FROM decisions WHERE user_id = $1 AND ts >= $2 AND ts <= $3
		 ORDER BY ts ASC`, userID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %v", err)
	}
	defer rows.Close()

	var decisions []models.Decision
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision: %v", err)
		}
		decisions = append(decisions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read decisions: %v", err)
	}
	return decisions, nil
}

// EarliestTimestamp returns the timestamp of a user's first decision,
// or nil when they have none.
func (s *DecisionStore) EarliestTimestamp(ctx context.Context, userID string) (*time.Time, error) {
	var ts sql.NullTime
	err := s.db.QueryRowContext(ctx,
		"SELECT MIN(ts) FROM decisions WHERE user_id = $1", userID,
	).Scan(&ts)
	if err != nil {
		return nil, fmt.Errorf("failed to query earliest timestamp: %v", err)
	}
	if !ts.Valid {
		return nil, nil
	}
	return &ts.Time, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDecision(row rowScanner) (models.Decision, error) {
	var d models.Decision
	var emotions pq.StringArray
	err := row.Scan(&d.ID, &d.UserID, &d.Timestamp, &d.Text, &emotions, &d.Intensity, &d.Category, &d.Tone)
	if err != nil {
		return models.Decision{}, err
	}
	for _, e := range emotions {
		d.Emotions = append(d.Emotions, models.Emotion(e))
	}
	return d, nil
}

func emotionStrings(emotions []models.Emotion) []string {
	out := make([]string, len(emotions))
	for i, e := range emotions {
		out[i] = string(e)
	}
	return out
}

func checkAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %v", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
