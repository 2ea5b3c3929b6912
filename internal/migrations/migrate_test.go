package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/planquote/internal/db"
)

func TestUpAppliesAllMigrationsAndIsRepeatable(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, Up(ctx, database, "../../migrations"))
	require.NoError(t, Up(ctx, database, "../../migrations"))

	v, err := Version(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	for _, table := range []string{"users", "devices", "plans", "subsidies", "pricing_settings", "quotes"} {
		var name string
		err := database.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s", table)
	}
}
