package pswarm

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerwibrew/pswarm/rng"
)

func TestDbRecording(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	p := DefaultParams([]float64{-2, -2}, []float64{2, 2})
	p.SwarmSize = 8
	p.MaxIter = 5
	p.Threshold = -1
	p.StagnationIters = 0

	res, err := Run(context.Background(), p, ObjectiveFunc(sphere), rng.NewSeeded(17), DB(db))
	require.NoError(t, err)
	require.Equal(t, 5, res.Iters)

	// iteration 0 is the initialization pass
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+TblParticles).Scan(&n))
	assert.Equal(t, 8*6, n)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+TblParticlesBest).Scan(&n))
	assert.Equal(t, 8*6, n)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+TblBest).Scan(&n))
	assert.Equal(t, 6, n)

	var runid string
	require.NoError(t, db.QueryRow("SELECT DISTINCT runid FROM "+TblBest).Scan(&runid))
	assert.Equal(t, res.RunID, runid)

	var lo, hi int
	require.NoError(t, db.QueryRow("SELECT MIN(iter), MAX(iter) FROM "+TblParticles).Scan(&lo, &hi))
	assert.Equal(t, 0, lo)
	assert.Equal(t, 5, hi)

	var minv float64
	require.NoError(t, db.QueryRow("SELECT MIN(val) FROM "+TblBest).Scan(&minv))
	assert.Equal(t, res.Best.Val, minv)

	var x0, x1 float64
	q := "SELECT x0, x1 FROM " + TblBest + " WHERE iter = 5"
	require.NoError(t, db.QueryRow(q).Scan(&x0, &x1))
	assert.Equal(t, res.Best.At(0), x0)
	assert.Equal(t, res.Best.At(1), x1)
}

func TestDbSharedBetweenRuns(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	p := DefaultParams([]float64{-1}, []float64{1})
	p.SwarmSize = 4
	p.MaxIter = 2
	p.Threshold = -1
	p.StagnationIters = 0

	o, err := New(p, ObjectiveFunc(sphere), rng.NewSeeded(23), DB(db))
	require.NoError(t, err)

	a, err := o.Run(context.Background())
	require.NoError(t, err)
	b, err := o.Run(context.Background())
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(DISTINCT runid) FROM "+TblBest).Scan(&n))
	assert.Equal(t, 2, n)

	for _, res := range []*Result{a, b} {
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+TblBest+" WHERE runid = ?", res.RunID).Scan(&n))
		assert.Equal(t, 3, n)
	}
}
