package batch_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/matchup/internal/batch"
	"github.com/okian/matchup/internal/domain/model"
	"github.com/okian/matchup/internal/domain/types"
	"github.com/okian/matchup/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestParseMatchup(t *testing.T) {
	m, err := batch.ParseMatchup("St. John's:2019@Duke:2018")
	require.NoError(t, err)
	assert.Equal(t, model.Matchup{HomeTeam: "St. John's", HomeSeason: 2019, AwayTeam: "Duke", AwaySeason: 2018}, m)

	for _, bad := range []string{"Kansas:2019", "Kansas@Duke:2018", "Kansas:20x9@Duke:2018", "Kansas:2019@Duke:"} {
		_, err := batch.ParseMatchup(bad)
		assert.ErrorIs(t, err, batch.ErrSyntax, bad)
	}

	_, err = batch.ParseMatchup(":2019@Duke:2018")
	assert.ErrorIs(t, err, model.ErrInvalidMatchup)
}

func TestReadMatchups(t *testing.T) {
	in := "# sweet sixteen\nKansas:2019@Duke:2018\n\n  Gonzaga:2017@North Carolina:2017  \n"
	got, err := batch.ReadMatchups(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "North Carolina", got[1].AwayTeam)

	_, err = batch.ReadMatchups(strings.NewReader("Kansas:2019@Duke:2018\nnonsense\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

type fakeSim struct {
	mu       sync.Mutex
	inFlight int
	peak     int
	calls    atomic.Int32
}

func (f *fakeSim) Simulate(ctx context.Context, m model.Matchup) (types.Prediction, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.peak {
		f.peak = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	select {
	case <-time.After(5 * time.Millisecond):
	case <-ctx.Done():
		return types.Prediction{}, ctx.Err()
	}
	if m.AwayTeam == "Nobody" {
		return types.Prediction{}, fmt.Errorf("assemble away side: %w", model.ErrRecordNotFound)
	}
	return types.Prediction{
		EstWinPct:  "20",
		OverUnder:  "141.5",
		Spread:     "3.5",
		HomePoints: []string{"72", "70"},
		AwayPoints: []string{"68", "71"},
	}, nil
}

func matchups(n int) []model.Matchup {
	out := make([]model.Matchup, n)
	for i := range out {
		out[i] = model.Matchup{HomeTeam: fmt.Sprintf("Team %d", i), HomeSeason: 2019, AwayTeam: "Duke", AwaySeason: 2018}
	}
	return out
}

func TestRunner_Run(t *testing.T) {
	t.Run("bounds concurrency and keeps input order", func(t *testing.T) {
		sim := &fakeSim{}
		in := matchups(12)
		in[3].AwayTeam = "Nobody"

		results, err := batch.NewRunner(sim, batch.WithWorkers(3)).Run(context.Background(), in)
		require.NoError(t, err)
		require.Len(t, results, 12)

		assert.LessOrEqual(t, sim.peak, 3)
		assert.EqualValues(t, 12, sim.calls.Load())
		for i, r := range results {
			assert.Equal(t, in[i], r.Matchup)
		}
		assert.ErrorIs(t, results[3].Err, model.ErrRecordNotFound)
		assert.NoError(t, results[4].Err)
		assert.Equal(t, "20", results[4].Prediction.EstWinPct)
	})

	t.Run("stops when the context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := batch.NewRunner(&fakeSim{}).Run(ctx, matchups(5))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestWriteJSON(t *testing.T) {
	results := []batch.Result{
		{Matchup: matchups(1)[0], Prediction: types.Prediction{EstWinPct: "20", OverUnder: "141.5", Spread: "3.5"}, Took: 12 * time.Millisecond},
		{Matchup: matchups(1)[0], Err: errors.New("boom")},
	}
	var buf bytes.Buffer
	require.NoError(t, batch.WriteJSON(&buf, results))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "2019 Team 0 vs 2018 Duke", first["matchup"])
	assert.Equal(t, "141.5", first["over_under"])
	assert.Contains(t, lines[1], `"error":"boom"`)
}

func TestWriteWorkbook(t *testing.T) {
	sim := &fakeSim{}
	in := matchups(2)
	in[1].AwayTeam = "Nobody"
	results, err := batch.NewRunner(sim).Run(context.Background(), in)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, batch.WriteWorkbook(path, results))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(batch.SummarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Team 0", rows[1][0])
	assert.Equal(t, "141.5", rows[1][5])
	assert.Contains(t, rows[2][7], "not found")

	scores, err := f.GetRows("Matchup 1")
	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.Equal(t, "72", scores[1][1])
	assert.Equal(t, []string{"Predictions", "Matchup 1"}, f.GetSheetList())
}
