package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/planquote/internal/pricing"
)

// ListPlans returns every plan ordered by category and base price.
func (s *Store) ListPlans(ctx context.Context) ([]pricing.Plan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, name, description, base_price, data, voice, sms
		FROM plans
		ORDER BY category, base_price DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	plans := make([]pricing.Plan, 0)
	for rows.Next() {
		var p pricing.Plan
		if err := rows.Scan(&p.ID, &p.Category, &p.Name, &p.Description, &p.BasePrice, &p.Data, &p.Voice, &p.SMS); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}

	return plans, nil
}

// GetPlan returns one plan or ErrNotFound.
func (s *Store) GetPlan(ctx context.Context, id string) (pricing.Plan, error) {
	return getPlan(ctx, s.db, id)
}

func getPlan(ctx context.Context, q queryer, id string) (pricing.Plan, error) {
	var p pricing.Plan
	err := q.QueryRowContext(ctx, `
		SELECT id, category, name, description, base_price, data, voice, sms
		FROM plans
		WHERE id = ?
	`, id).Scan(&p.ID, &p.Category, &p.Name, &p.Description, &p.BasePrice, &p.Data, &p.Voice, &p.SMS)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.Plan{}, notFound("plan", id)
	}
	if err != nil {
		return pricing.Plan{}, fmt.Errorf("query plan %q: %w", id, err)
	}
	return p, nil
}

// UpsertPlan inserts the plan or replaces the stored fields of an existing one.
func (s *Store) UpsertPlan(ctx context.Context, p pricing.Plan) error {
	return upsertPlan(ctx, s.db, p)
}

func upsertPlan(ctx context.Context, ex Execer, p pricing.Plan) error {
	if err := required("id", p.ID); err != nil {
		return err
	}
	if err := required("name", p.Name); err != nil {
		return err
	}
	if err := validAmount("basePrice", p.BasePrice); err != nil {
		return err
	}

	_, err := ex.ExecContext(ctx, `
		INSERT INTO plans (id, category, name, description, base_price, data, voice, sms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			name = excluded.name,
			description = excluded.description,
			base_price = excluded.base_price,
			data = excluded.data,
			voice = excluded.voice,
			sms = excluded.sms,
			updated_at = CURRENT_TIMESTAMP
	`, p.ID, p.Category, p.Name, p.Description, p.BasePrice, p.Data, p.Voice, p.SMS)
	if err != nil {
		return fmt.Errorf("upsert plan %q: %w", p.ID, err)
	}
	return nil
}
