package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Simplici0/planquote/internal/pricing"
)

// Document is the products.json layout shared with the storefront.
type Document struct {
	Devices   []pricing.Device        `json:"devices"`
	Plans     []pricing.Plan          `json:"plans"`
	Subsidies []pricing.Subsidy       `json:"subsidies"`
	Settings  *pricing.GlobalSettings `json:"settings,omitempty"`
}

// ImportStats counts the records written by Import.
type ImportStats struct {
	Devices   int
	Plans     int
	Subsidies int
	Settings  bool
}

// DecodeDocument reads a products.json document.
func DecodeDocument(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode catalog document: %w", err)
	}
	return doc, nil
}

// Import upserts every record of doc in a single transaction. Devices and
// plans are written before subsidies so a document may reference its own
// records. Nothing is written if any record is rejected.
func (s *Store) Import(ctx context.Context, doc Document) (ImportStats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportStats{}, fmt.Errorf("begin import transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var stats ImportStats
	for _, d := range doc.Devices {
		if err := upsertDevice(ctx, tx, d); err != nil {
			return ImportStats{}, err
		}
		stats.Devices++
	}
	for _, p := range doc.Plans {
		if err := upsertPlan(ctx, tx, p); err != nil {
			return ImportStats{}, err
		}
		stats.Plans++
	}
	for _, sub := range doc.Subsidies {
		if err := upsertSubsidy(ctx, tx, sub); err != nil {
			return ImportStats{}, err
		}
		stats.Subsidies++
	}
	if doc.Settings != nil {
		if _, err := InsertDefaultSettings(ctx, tx); err != nil {
			return ImportStats{}, err
		}
		if err := updateSettings(ctx, tx, *doc.Settings); err != nil {
			return ImportStats{}, err
		}
		stats.Settings = true
	}

	if err := tx.Commit(); err != nil {
		return ImportStats{}, fmt.Errorf("commit import transaction: %w", err)
	}
	return stats, nil
}
