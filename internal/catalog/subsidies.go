package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/planquote/internal/pricing"
)

// GetSubsidy returns the subsidy for a device and plan pair, or ErrNotFound.
// A missing record is never treated as a zero subsidy.
func (s *Store) GetSubsidy(ctx context.Context, deviceID, planID string) (pricing.Subsidy, error) {
	return getSubsidy(ctx, s.db, deviceID, planID)
}

func getSubsidy(ctx context.Context, q queryer, deviceID, planID string) (pricing.Subsidy, error) {
	var sub pricing.Subsidy
	err := q.QueryRowContext(ctx, `
		SELECT device_id, plan_id, common, additional, select_amount
		FROM subsidies
		WHERE device_id = ? AND plan_id = ?
	`, deviceID, planID).Scan(&sub.DeviceID, &sub.PlanID, &sub.Common, &sub.Additional, &sub.Select)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.Subsidy{}, notFound("subsidy", deviceID+"/"+planID)
	}
	if err != nil {
		return pricing.Subsidy{}, fmt.Errorf("query subsidy %s/%s: %w", deviceID, planID, err)
	}
	return sub, nil
}

// ListSubsidiesForPlan returns every subsidy record attached to planID.
func (s *Store) ListSubsidiesForPlan(ctx context.Context, planID string) ([]pricing.Subsidy, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT device_id, plan_id, common, additional, select_amount
		FROM subsidies
		WHERE plan_id = ?
		ORDER BY device_id
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("query subsidies: %w", err)
	}
	defer rows.Close()

	subsidies := make([]pricing.Subsidy, 0)
	for rows.Next() {
		var sub pricing.Subsidy
		if err := rows.Scan(&sub.DeviceID, &sub.PlanID, &sub.Common, &sub.Additional, &sub.Select); err != nil {
			return nil, fmt.Errorf("scan subsidy: %w", err)
		}
		subsidies = append(subsidies, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subsidies: %w", err)
	}

	return subsidies, nil
}

// UpsertSubsidy stores the subsidy for its device and plan pair. Both must exist.
func (s *Store) UpsertSubsidy(ctx context.Context, sub pricing.Subsidy) error {
	return upsertSubsidy(ctx, s.db, sub)
}

func upsertSubsidy(ctx context.Context, ex dbtx, sub pricing.Subsidy) error {
	for _, f := range []struct {
		field string
		value int64
	}{
		{"common", sub.Common},
		{"additional", sub.Additional},
		{"select", sub.Select},
	} {
		if err := validAmount(f.field, f.value); err != nil {
			return err
		}
	}

	if _, err := getDevice(ctx, ex, sub.DeviceID); err != nil {
		return err
	}
	if _, err := getPlan(ctx, ex, sub.PlanID); err != nil {
		return err
	}

	_, err := ex.ExecContext(ctx, `
		INSERT INTO subsidies (device_id, plan_id, common, additional, select_amount)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(device_id, plan_id) DO UPDATE SET
			common = excluded.common,
			additional = excluded.additional,
			select_amount = excluded.select_amount,
			updated_at = CURRENT_TIMESTAMP
	`, sub.DeviceID, sub.PlanID, sub.Common, sub.Additional, sub.Select)
	if err != nil {
		return fmt.Errorf("upsert subsidy %s/%s: %w", sub.DeviceID, sub.PlanID, err)
	}
	return nil
}
