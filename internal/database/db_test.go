package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDBMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "metrics.db")

	db, err := NewDB(path)
	require.NoError(t, err)

	for _, table := range []string{"execution_metrics", "chat_sessions"} {
		var name string
		err := db.SQL.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s", table)
	}
	require.NoError(t, db.Close())

	// A second open finds nothing to migrate.
	again, err := NewDB(path)
	require.NoError(t, err)
	assert.NoError(t, again.Close())
}

func TestTimeRoundTrip(t *testing.T) {
	in := time.Date(2024, 2, 29, 23, 30, 15, 999, time.FixedZone("X", 3600))
	s := FormatTime(in)
	assert.Equal(t, "2024-02-29 22:30:15", s)

	out, err := ParseTime(s)
	require.NoError(t, err)
	assert.True(t, out.Equal(in.Truncate(time.Second)))
}
