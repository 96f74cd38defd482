//nolint:thelper // ok for tests
package odds

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"

	"github.com/keibacicd/jvdata-engine/pkg/locator"
	"github.com/keibacicd/jvdata-engine/pkg/model"
	"github.com/keibacicd/jvdata-engine/pkg/service"
	"github.com/keibacicd/jvdata-engine/testsupport/basedata"
)

func TestWatcher_Run(t *testing.T) {
	dir := fs.NewDir(t, "rtdata", basedata.DayDir(basedata.SampleDate))
	loc := locator.New(dir.Path())
	updates := make(chan *service.RaceOverview, 4)
	w := NewWatcher(loc, service.NewOddsService(loc),
		WithUpdateHandler(func(ov *service.RaceOverview) {
			select {
			case updates <- ov:
			default:
			}
		}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, basedata.SampleDate) }()

	p := dir.Join("2026", "0131", basedata.SnapshotName(basedata.SampleRaceID, 1))
	// the watch is registered asynchronously; rewrite until an update arrives
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	var got *service.RaceOverview
	for got == nil {
		select {
		case got = <-updates:
		case <-ticker.C:
			require.NoError(t, os.WriteFile(p, basedata.SampleO1("01311500").Bytes(), 0o600))
		case <-deadline:
			t.Fatal("no update received")
		}
	}
	assert.Equal(t, basedata.SampleRaceID, got.RaceID)
	assert.Equal(t, model.PatternSingleFavorite, got.Analysis.Pattern)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_NothingToWatch(t *testing.T) {
	loc := locator.New(t.TempDir())
	w := NewWatcher(loc, service.NewOddsService(loc))
	assert.ErrorIs(t, w.Run(context.Background(), basedata.SampleDate), ErrNothingToWatch)
	assert.ErrorIs(t, w.Run(context.Background(), "2026-1-31"), locator.ErrInvalidDate)
}
