package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/planquote/internal/config"
)

type cli struct {
	dbPath string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	c := &cli{dbPath: filepath.Join(t.TempDir(), "cli.db")}
	_, err := c.run("migrate")
	require.NoError(t, err)
	return c
}

func (c *cli) run(args ...string) (string, error) {
	out, _, err := c.runApp(args...)
	return out, err
}

func (c *cli) runApp(args ...string) (string, *app, error) {
	root, a := newRootCmd(config.Config{LogLevel: "error"})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--db", c.dbPath, "--migrations", "../../../migrations"}, args...))

	err := execute(root, a)
	return out.String(), a, err
}

func TestMigrateReportsVersion(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("migrate")
	require.NoError(t, err)
	assert.Equal(t, "database at version 3\n", out)
}

func TestSeedIsIdempotent(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("seed")
	require.NoError(t, err)
	assert.Equal(t, "seeded 4 rows\n", out)

	out, err = c.run("seed")
	require.NoError(t, err)
	assert.Equal(t, "seeded 0 rows\n", out)
}

func TestCalculatePrintsBreakdown(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("seed")
	require.NoError(t, err)

	out, err := c.run("calculate",
		"--device", "galaxy-s25-256",
		"--plan", "5g-premium",
		"--join", "number-port",
		"--contract", "public-subsidy",
		"--months", "24",
		"--bundle",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "번호이동, 공시지원금, 24 months")
	assert.Contains(t, out, "37,634원")
	assert.Contains(t, out, "98,100원")
	assert.Contains(t, out, "135,734원")
	assert.NotContains(t, out, "saved quote")
}

func TestCalculateRejectsInvalidTerms(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("seed")
	require.NoError(t, err)

	_, err = c.run("calculate", "--device", "galaxy-s25-256", "--plan", "5g-premium", "--months", "18")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "installmentMonths")

	_, err = c.run("calculate", "--device", "missing", "--plan", "5g-premium")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = c.run("calculate", "--plan", "5g-premium")
	require.Error(t, err, "--device is required")
}

func TestDatabaseClosedAfterFailedCommand(t *testing.T) {
	c := newCLI(t)

	_, a, err := c.runApp("calculate", "--device", "missing", "--plan", "5g-premium")
	require.Error(t, err)
	require.NotNil(t, a.db)
	assert.Error(t, a.db.Ping(), "database should be closed")

	_, a, err = c.runApp("migrate")
	require.NoError(t, err)
	assert.Error(t, a.db.Ping(), "database should be closed")
}

func TestSaveListAndVerifyQuote(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("seed")
	require.NoError(t, err)

	out, err := c.run("calculate",
		"--device", "galaxy-s25-256",
		"--plan", "5g-premium",
		"--contract", "selective-contract",
		"--months", "24",
		"--save",
		"--title", "선택약정 상담",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "137,094원")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := lines[len(lines)-1]
	require.True(t, strings.HasPrefix(last, "saved quote "), last)
	id := strings.TrimPrefix(last, "saved quote ")

	out, err = c.run("quotes", "list", "상담")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "137,094원")

	out, err = c.run("quotes", "list", "no-such-title")
	require.NoError(t, err)
	assert.NotContains(t, out, id)

	out, err = c.run("quotes", "verify", id)
	require.NoError(t, err)
	assert.Contains(t, out, "reproduces")

	_, err = c.run("quotes", "verify", "missing")
	require.Error(t, err)
}

func TestImportLoadsCatalogDocument(t *testing.T) {
	c := newCLI(t)

	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"devices": [
			{"id": "iphone-16-128", "brand": "Apple", "model": "iPhone 16", "storage": "128GB", "price": 1250000}
		],
		"plans": [
			{"id": "lte-basic", "category": "LTE", "name": "LTE 베이직", "basePrice": 55000}
		],
		"subsidies": [
			{"deviceId": "iphone-16-128", "planId": "lte-basic", "common": 150000, "additional": 22500, "select": 13750}
		]
	}`), 0o600))

	out, err := c.run("import", path)
	require.NoError(t, err)
	assert.Equal(t, "imported 1 devices, 1 plans, 1 subsidies\n", out)

	out, err = c.run("calculate", "--device", "iphone-16-128", "--plan", "lte-basic", "--months", "0")
	require.NoError(t, err)
	// Lump sum: nothing owed monthly for the device.
	assert.Contains(t, out, "55,000원")
}

func TestImportRejectsUnknownFields(t *testing.T) {
	c := newCLI(t)

	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"devices": [], "pages": []}`), 0o600))

	_, err := c.run("import", path)
	require.Error(t, err)
}
