package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/planquote/internal/pricing"
)

// EnsureSettings inserts the default settings singleton when it does not exist.
func (s *Store) EnsureSettings(ctx context.Context) error {
	_, err := InsertDefaultSettings(ctx, s.db)
	return err
}

// InsertDefaultSettings writes pricing.DefaultSettings as the singleton row
// unless one exists, and reports whether a row was inserted.
func InsertDefaultSettings(ctx context.Context, ex Execer) (bool, error) {
	d := pricing.DefaultSettings()
	res, err := ex.ExecContext(ctx, `
		INSERT INTO pricing_settings (
			id,
			installment_interest_rate,
			selective_discount_rate,
			bundle_discount_rate,
			vat_rate,
			prices_include_vat
		) VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, d.InstallmentInterestRate, d.SelectiveDiscountRate, d.BundleDiscountRate, d.VATRate, d.PricesIncludeVAT)
	if err != nil {
		return false, fmt.Errorf("insert default pricing_settings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert default pricing_settings: %w", err)
	}
	return n > 0, nil
}

// GetSettings loads the settings singleton, creating the defaults first if needed.
func (s *Store) GetSettings(ctx context.Context) (pricing.GlobalSettings, error) {
	if err := s.EnsureSettings(ctx); err != nil {
		return pricing.GlobalSettings{}, err
	}

	var gs pricing.GlobalSettings
	err := s.db.QueryRowContext(ctx, `
		SELECT installment_interest_rate, selective_discount_rate, bundle_discount_rate, vat_rate, prices_include_vat
		FROM pricing_settings
		WHERE id = 1
	`).Scan(
		&gs.InstallmentInterestRate,
		&gs.SelectiveDiscountRate,
		&gs.BundleDiscountRate,
		&gs.VATRate,
		&gs.PricesIncludeVAT,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pricing.GlobalSettings{}, fmt.Errorf("pricing_settings singleton not found")
		}
		return pricing.GlobalSettings{}, fmt.Errorf("query pricing_settings: %w", err)
	}
	return gs, nil
}

// UpdateSettings validates and stores the settings singleton.
func (s *Store) UpdateSettings(ctx context.Context, gs pricing.GlobalSettings) error {
	if err := s.EnsureSettings(ctx); err != nil {
		return err
	}
	return updateSettings(ctx, s.db, gs)
}

func updateSettings(ctx context.Context, ex Execer, gs pricing.GlobalSettings) error {
	if err := pricing.ValidateSettings(gs); err != nil {
		return err
	}

	_, err := ex.ExecContext(ctx, `
		UPDATE pricing_settings
		SET
			installment_interest_rate = ?,
			selective_discount_rate = ?,
			bundle_discount_rate = ?,
			vat_rate = ?,
			prices_include_vat = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`,
		gs.InstallmentInterestRate,
		gs.SelectiveDiscountRate,
		gs.BundleDiscountRate,
		gs.VATRate,
		gs.PricesIncludeVAT,
	)
	if err != nil {
		return fmt.Errorf("update pricing_settings: %w", err)
	}
	return nil
}
