package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Simplici0/planquote/internal/pricing"
)

// ListDevices returns every device ordered by brand, model and storage.
func (s *Store) ListDevices(ctx context.Context) ([]pricing.Device, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, brand, model, storage, price, colors_json
		FROM devices
		ORDER BY brand, model, storage, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query devices: %w", err)
	}
	defer rows.Close()

	devices := make([]pricing.Device, 0)
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate devices: %w", err)
	}

	return devices, nil
}

// GetDevice returns one device or ErrNotFound.
func (s *Store) GetDevice(ctx context.Context, id string) (pricing.Device, error) {
	return getDevice(ctx, s.db, id)
}

func getDevice(ctx context.Context, q queryer, id string) (pricing.Device, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, brand, model, storage, price, colors_json
		FROM devices
		WHERE id = ?
	`, id)
	d, err := scanDevice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.Device{}, notFound("device", id)
	}
	return d, err
}

// UpsertDevice inserts the device or replaces the stored fields of an existing one.
func (s *Store) UpsertDevice(ctx context.Context, d pricing.Device) error {
	return upsertDevice(ctx, s.db, d)
}

func upsertDevice(ctx context.Context, ex Execer, d pricing.Device) error {
	if err := required("id", d.ID); err != nil {
		return err
	}
	if err := required("brand", d.Brand); err != nil {
		return err
	}
	if err := required("model", d.Model); err != nil {
		return err
	}
	if err := validAmount("price", d.Price); err != nil {
		return err
	}

	colors := d.Colors
	if colors == nil {
		colors = []pricing.Color{}
	}
	colorsJSON, err := json.Marshal(colors)
	if err != nil {
		return fmt.Errorf("encode device colors: %w", err)
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO devices (id, brand, model, storage, price, colors_json)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			brand = excluded.brand,
			model = excluded.model,
			storage = excluded.storage,
			price = excluded.price,
			colors_json = excluded.colors_json,
			updated_at = CURRENT_TIMESTAMP
	`, d.ID, d.Brand, d.Model, d.Storage, d.Price, string(colorsJSON))
	if err != nil {
		return fmt.Errorf("upsert device %q: %w", d.ID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDevice(sc scanner) (pricing.Device, error) {
	var d pricing.Device
	var colorsJSON string
	if err := sc.Scan(&d.ID, &d.Brand, &d.Model, &d.Storage, &d.Price, &colorsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return d, err
		}
		return d, fmt.Errorf("scan device: %w", err)
	}
	if err := json.Unmarshal([]byte(colorsJSON), &d.Colors); err != nil {
		return d, fmt.Errorf("decode colors of device %q: %w", d.ID, err)
	}
	if len(d.Colors) == 0 {
		d.Colors = nil
	}
	return d, nil
}
