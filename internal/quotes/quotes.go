// Package quotes persists calculation snapshots so a quoted monthly fee can be
// shown again, and re-derived, exactly as it was computed.
package quotes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/planquote/internal/pricing"
)

// ErrNotFound is returned when no quote has the requested id.
var ErrNotFound = errors.New("quote not found")

// Quote is an immutable snapshot of one calculation.
type Quote struct {
	ID        string                    `json:"id"`
	CreatedAt time.Time                 `json:"createdAt"`
	Title     string                    `json:"title"`
	Notes     string                    `json:"notes"`
	Input     pricing.CalculationInput  `json:"input"`
	Settings  pricing.GlobalSettings    `json:"settings"`
	Result    pricing.CalculationResult `json:"result"`
}

// ListItem is the summary row shown in quote listings.
type ListItem struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Title     string    `json:"title"`
	DeviceID  string    `json:"deviceId"`
	PlanID    string    `json:"planId"`
	Total     int64     `json:"totalMonthlyFee"`
}

// Verification compares a stored result with a fresh calculation.
type Verification struct {
	QuoteID    string                    `json:"quoteId"`
	Matches    bool                      `json:"matches"`
	Stored     pricing.CalculationResult `json:"stored"`
	Recomputed pricing.CalculationResult `json:"recomputed"`
}

const timeLayout = "2006-01-02 15:04:05"

// Store is the sqlite-backed quote repository.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New returns a Store over an already migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Create calculates input against settings and saves the snapshot. Invalid
// input is rejected with the calculation's ValidationError and nothing is stored.
func (s *Store) Create(ctx context.Context, title, notes string, input pricing.CalculationInput, settings pricing.GlobalSettings) (Quote, error) {
	result, err := pricing.Calculate(input, settings)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC().Truncate(time.Second),
		Title:     title,
		Notes:     notes,
		Input:     input,
		Settings:  settings,
		Result:    result,
	}
	if err := s.save(ctx, q); err != nil {
		return Quote{}, err
	}
	return q, nil
}

func (s *Store) save(ctx context.Context, q Quote) error {
	inputJSON, err := json.Marshal(q.Input)
	if err != nil {
		return fmt.Errorf("encode quote input: %w", err)
	}
	settingsJSON, err := json.Marshal(q.Settings)
	if err != nil {
		return fmt.Errorf("encode quote settings: %w", err)
	}
	resultJSON, err := json.Marshal(q.Result)
	if err != nil {
		return fmt.Errorf("encode quote result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quotes (
			id, created_at, title, notes, device_id, plan_id, total_monthly, input_json, settings_json, result_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		q.ID,
		q.CreatedAt.Format(timeLayout),
		q.Title,
		q.Notes,
		q.Input.Device.ID,
		q.Input.Plan.ID,
		q.Result.TotalMonthlyFee,
		string(inputJSON),
		string(settingsJSON),
		string(resultJSON),
	)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// Get reads a stored snapshot without recalculating it.
func (s *Store) Get(ctx context.Context, id string) (Quote, error) {
	var q Quote
	var createdAt, inputJSON, settingsJSON, resultJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, COALESCE(title, ''), COALESCE(notes, ''), input_json, settings_json, result_json
		FROM quotes
		WHERE id = ?
	`, id).Scan(&q.ID, &createdAt, &q.Title, &q.Notes, &inputJSON, &settingsJSON, &resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Quote{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Quote{}, fmt.Errorf("query quote: %w", err)
	}

	if q.CreatedAt, err = parseTime(createdAt); err != nil {
		return Quote{}, err
	}
	if err := json.Unmarshal([]byte(inputJSON), &q.Input); err != nil {
		return Quote{}, fmt.Errorf("decode quote input: %w", err)
	}
	if err := json.Unmarshal([]byte(settingsJSON), &q.Settings); err != nil {
		return Quote{}, fmt.Errorf("decode quote settings: %w", err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &q.Result); err != nil {
		return Quote{}, fmt.Errorf("decode quote result: %w", err)
	}
	return q, nil
}

// List returns quotes newest first. A non-empty query filters by title or notes.
func (s *Store) List(ctx context.Context, query string) ([]ListItem, error) {
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, COALESCE(title, ''), device_id, plan_id, total_monthly
		FROM quotes
		WHERE (? = '' OR COALESCE(title, '') LIKE ? OR COALESCE(notes, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, rowid DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	items := make([]ListItem, 0)
	for rows.Next() {
		var item ListItem
		var createdAt string
		if err := rows.Scan(&item.ID, &createdAt, &item.Title, &item.DeviceID, &item.PlanID, &item.Total); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		if item.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return items, nil
}

// Verify re-runs the calculation on the stored input and settings and reports
// whether it reproduces the stored result exactly.
func (s *Store) Verify(ctx context.Context, id string) (Verification, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return Verification{}, err
	}

	recomputed, err := pricing.Calculate(q.Input, q.Settings)
	if err != nil {
		return Verification{}, fmt.Errorf("recalculate quote %s: %w", id, err)
	}

	return Verification{
		QuoteID:    q.ID,
		Matches:    recomputed == q.Result,
		Stored:     q.Result,
		Recomputed: recomputed,
	}, nil
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range []string{timeLayout, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse quote created_at %q", raw)
}
