package catalog

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/planquote/internal/db"
	"github.com/Simplici0/planquote/internal/migrations"
	"github.com/Simplici0/planquote/internal/pricing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, migrations.Up(ctx, database, "../../migrations"))
	return New(database)
}

var (
	galaxy = pricing.Device{
		ID: "galaxy-s25-256", Brand: "Samsung", Model: "Galaxy S25", Storage: "256GB", Price: 1_250_000,
		Colors: []pricing.Color{{Name: "아이시 블루", Code: "#b7c9e2"}, {Name: "나이트 블랙"}},
	}
	iphone  = pricing.Device{ID: "iphone-16-128", Brand: "Apple", Model: "iPhone 16", Storage: "128GB", Price: 1_250_000}
	premium = pricing.Plan{ID: "5g-premium", Category: "5G", Name: "5G 프리미엄", BasePrice: 109_000, Data: "무제한"}
	basic   = pricing.Plan{ID: "lte-basic", Category: "LTE", Name: "LTE 베이직", BasePrice: 33_000, Data: "6GB"}
)

func seedCatalog(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.UpsertDevice(ctx, galaxy))
	require.NoError(t, s.UpsertDevice(ctx, iphone))
	require.NoError(t, s.UpsertPlan(ctx, premium))
	require.NoError(t, s.UpsertPlan(ctx, basic))
	require.NoError(t, s.UpsertSubsidy(ctx, pricing.Subsidy{DeviceID: galaxy.ID, PlanID: premium.ID, Common: 300_000, Additional: 100_000, Select: 27_250}))
	require.NoError(t, s.UpsertSubsidy(ctx, pricing.Subsidy{DeviceID: iphone.ID, PlanID: premium.ID, Common: 250_000, Additional: 50_000}))
}

func TestDevices_UpsertGetList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)

	got, err := s.GetDevice(ctx, galaxy.ID)
	require.NoError(t, err)
	assert.Equal(t, galaxy, got)

	updated := iphone
	updated.Price = 1_150_000
	require.NoError(t, s.UpsertDevice(ctx, updated))

	devices, err := s.ListDevices(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "Apple", devices[0].Brand)
	assert.Equal(t, int64(1_150_000), devices[0].Price)
	assert.Nil(t, devices[0].Colors)
}

func TestDevices_RejectsOutOfRangePrice(t *testing.T) {
	s := newTestStore(t)

	for _, price := range []int64{-1, pricing.MaxAmount + 1} {
		bad := galaxy
		bad.Price = price
		err := s.UpsertDevice(context.Background(), bad)

		verr, ok := pricing.AsValidationError(err)
		require.True(t, ok, "price %d", price)
		assert.Equal(t, "price", verr.Field)
	}

	_, err := s.GetDevice(context.Background(), galaxy.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookups_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)

	_, err := s.GetDevice(ctx, "pixel-9")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetPlan(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetSubsidy(ctx, galaxy.ID, basic.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertSubsidy_RequiresDeviceAndPlan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)

	err := s.UpsertSubsidy(ctx, pricing.Subsidy{DeviceID: "pixel-9", PlanID: premium.ID})
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.UpsertSubsidy(ctx, pricing.Subsidy{DeviceID: galaxy.ID, PlanID: basic.ID, Common: -1})
	verr, ok := pricing.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "common", verr.Field)

	err = s.UpsertSubsidy(ctx, pricing.Subsidy{DeviceID: galaxy.ID, PlanID: basic.ID, Additional: 1 << 62})
	verr, ok = pricing.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "additional", verr.Field)
}

func TestSettings_DefaultsAndUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	gs, err := s.GetSettings(ctx)
	require.NoError(t, err)
	def := pricing.DefaultSettings()
	assert.True(t, def.InstallmentInterestRate.Equal(gs.InstallmentInterestRate))
	assert.True(t, def.SelectiveDiscountRate.Equal(gs.SelectiveDiscountRate))
	assert.True(t, gs.PricesIncludeVAT)

	gs.InstallmentInterestRate = decimal.RequireFromString("0.0475")
	gs.PricesIncludeVAT = false
	require.NoError(t, s.UpdateSettings(ctx, gs))

	again, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.0475", again.InstallmentInterestRate.String())
	assert.False(t, again.PricesIncludeVAT)

	gs.VATRate = decimal.RequireFromString("2")
	err = s.UpdateSettings(ctx, gs)
	verr, ok := pricing.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "settings.vatRate", verr.Field)
}

func TestResolve(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)

	in, err := s.Resolve(ctx, Selection{
		DeviceID:          galaxy.ID,
		PlanID:            premium.ID,
		JoinType:          pricing.JoinNumberPort,
		ContractType:      pricing.ContractPublicSubsidy,
		InstallmentMonths: 24,
	})
	require.NoError(t, err)
	assert.Equal(t, galaxy, in.Device)
	assert.Equal(t, premium, in.Plan)
	assert.Equal(t, int64(300_000), in.Subsidy.Common)

	res, err := pricing.Calculate(in, pricing.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, int64(850_000), res.Breakdown.DeviceNetPrice)

	_, err = s.Resolve(ctx, Selection{DeviceID: galaxy.ID, PlanID: basic.ID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInputsForPlan_OnlyDevicesWithSubsidy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)

	terms := Terms{JoinType: pricing.JoinNewSignup, ContractType: pricing.ContractSelectiveContract, InstallmentMonths: 36}
	inputs, err := s.InputsForPlan(ctx, premium.ID, terms)
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	for _, in := range inputs {
		assert.Equal(t, premium.ID, in.Plan.ID)
		assert.Equal(t, in.Device.ID, in.Subsidy.DeviceID)
		assert.Equal(t, 36, in.InstallmentMonths)
	}

	inputs, err = s.InputsForPlan(ctx, basic.ID, terms)
	require.NoError(t, err)
	assert.Empty(t, inputs)

	_, err = s.InputsForPlan(ctx, "nope", terms)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImport_AllOrNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc, err := DecodeDocument(strings.NewReader(`{
		"devices": [{"id": "galaxy-s25-256", "brand": "Samsung", "model": "Galaxy S25", "storage": "256GB", "price": 1250000}],
		"plans": [{"id": "5g-premium", "category": "5G", "name": "5G 프리미엄", "basePrice": 109000}],
		"subsidies": [{"deviceId": "galaxy-s25-256", "planId": "5g-premium", "common": 300000, "additional": 100000, "select": 0}],
		"settings": {"installmentInterestRate": "0.059", "selectiveDiscountRate": "0.25", "bundleDiscountRate": 0.1, "vatRate": "0.1", "pricesIncludeVat": true}
	}`))
	require.NoError(t, err)

	stats, err := s.Import(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Devices: 1, Plans: 1, Subsidies: 1, Settings: true}, stats)

	_, err = s.GetSubsidy(ctx, "galaxy-s25-256", "5g-premium")
	require.NoError(t, err)

	bad := Document{
		Plans:     []pricing.Plan{basic},
		Subsidies: []pricing.Subsidy{{DeviceID: "missing", PlanID: basic.ID}},
	}
	_, err = s.Import(ctx, bad)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetPlan(ctx, basic.ID)
	assert.ErrorIs(t, err, ErrNotFound, "failed import must not leave partial rows")
}

func TestDecodeDocument_RejectsUnknownFields(t *testing.T) {
	_, err := DecodeDocument(strings.NewReader(`{"devices": [], "sections": []}`))
	assert.Error(t, err)
}
