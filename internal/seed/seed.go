package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/planquote/internal/catalog"
	"github.com/Simplici0/planquote/internal/pricing"
)

var (
	sampleDevice = pricing.Device{
		ID:      "galaxy-s25-256",
		Brand:   "Samsung",
		Model:   "Galaxy S25",
		Storage: "256GB",
		Price:   1_250_000,
		Colors:  []pricing.Color{{Name: "아이시 블루"}, {Name: "나이트 블랙"}},
	}
	samplePlan = pricing.Plan{
		ID:        "5g-premium",
		Category:  "5G",
		Name:      "5G 프리미엄",
		BasePrice: 109_000,
		Data:      "무제한",
		Voice:     "무제한",
		SMS:       "기본제공",
	}
	sampleSubsidy = pricing.Subsidy{
		DeviceID:   sampleDevice.ID,
		PlanID:     samplePlan.ID,
		Common:     300_000,
		Additional: 100_000,
		Select:     27_250,
	}
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stats := Stats{}
	for _, step := range []func(context.Context, *sql.Tx, *Stats) error{
		func(ctx context.Context, tx *sql.Tx, stats *Stats) error {
			return seedAdmin(ctx, tx, cfg.AdminEmail, cfg.AdminPassword, stats)
		},
		ensureSettings,
		ensureDevice,
		ensurePlan,
		ensureSubsidy,
	} {
		if err := step(ctx, tx, &stats); err != nil {
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(ctx context.Context, tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, string(hash)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureSettings(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	inserted, err := catalog.InsertDefaultSettings(ctx, tx)
	if err != nil {
		return err
	}
	if inserted {
		stats.Inserts++
	}
	return nil
}

func ensureDevice(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	colorsJSON, err := json.Marshal(sampleDevice.Colors)
	if err != nil {
		return fmt.Errorf("encode sample device colors: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO devices (id, brand, model, storage, price, colors_json)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, sampleDevice.ID, sampleDevice.Brand, sampleDevice.Model, sampleDevice.Storage, sampleDevice.Price,
		string(colorsJSON))
	if err != nil {
		return fmt.Errorf("insert sample device: %w", err)
	}
	return countInsert(res, stats)
}

func ensurePlan(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO plans (id, category, name, description, base_price, data, voice, sms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, samplePlan.ID, samplePlan.Category, samplePlan.Name, samplePlan.Description, samplePlan.BasePrice,
		samplePlan.Data, samplePlan.Voice, samplePlan.SMS)
	if err != nil {
		return fmt.Errorf("insert sample plan: %w", err)
	}
	return countInsert(res, stats)
}

func ensureSubsidy(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO subsidies (device_id, plan_id, common, additional, select_amount)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(device_id, plan_id) DO NOTHING
	`, sampleSubsidy.DeviceID, sampleSubsidy.PlanID, sampleSubsidy.Common, sampleSubsidy.Additional, sampleSubsidy.Select)
	if err != nil {
		return fmt.Errorf("insert sample subsidy: %w", err)
	}
	return countInsert(res, stats)
}

func countInsert(res sql.Result, stats *Stats) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	stats.Inserts += int(n)
	return nil
}
