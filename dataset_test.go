package textimport

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDataset(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, "id,name,score\n1,alice,3.5\n2,bob,\n3,carol,4.25\n")
	s.SetFirstDataLine(1)
	s.UseHeaderLine(true)
	s.BuildSchema()

	ctx := context.Background()
	db, err := OpenDataset(ctx, s, "people")
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM people`).Scan(&n))
	assert.Equal(t, 3, n)

	var name string
	var score sql.NullFloat64
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT name, score FROM people WHERE id = 3`).Scan(&name, &score))
	assert.Equal(t, "carol", name)
	require.True(t, score.Valid)
	assert.Equal(t, 4.25, score.Float64)

	// Row 2 has no score field at all; it lands as NULL.
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT score FROM people WHERE id = 2`).Scan(&score))
	assert.False(t, score.Valid)

	// Aggregates skip the NULL.
	var avg float64
	require.NoError(t, db.QueryRowContext(ctx, `SELECT AVG(score) FROM people`).Scan(&avg))
	assert.InDelta(t, 3.875, avg, 1e-9)
}

func TestWriteDatasetRequiresReadableSession(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, "a\n1\n")
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	err = s.WriteDataset(context.Background(), db, "t")
	assert.ErrorIs(t, err, ErrNotReadable)
}

func TestWriteDatasetQuotedIdentifiers(t *testing.T) {
	t.Parallel()

	// Header names that collide with SQL keywords must still work.
	s := newTestSession(t, "select,from\n1,2\n")
	s.SetFirstDataLine(1)
	s.UseHeaderLine(true)
	s.BuildSchema()

	ctx := context.Background()
	db, err := OpenDataset(ctx, s, "order")
	require.NoError(t, err)
	defer db.Close()

	var a, b float64
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT "select", "from" FROM "order"`).Scan(&a, &b))
	assert.Equal(t, 1.0, a)
	assert.Equal(t, 2.0, b)
}
