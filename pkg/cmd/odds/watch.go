package odds

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/keibacicd/jvdata-engine/log"
	"github.com/keibacicd/jvdata-engine/pkg/cmd/cmdutil"
	"github.com/keibacicd/jvdata-engine/pkg/config"
	"github.com/keibacicd/jvdata-engine/pkg/locator"
	"github.com/keibacicd/jvdata-engine/pkg/service"
)

var ErrNothingToWatch = errors.New("no snapshot directory exists for this date")

func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch yyyymmdd",
		Short: "watch for new odds snapshots and log the field pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			loc := locator.New(config.RTDataPath())
			w := NewWatcher(loc, cmdutil.NewOddsService(),
				WithLogger(log.GetFromContext(ctx)))
			return w.Run(ctx, args[0])
		},
	}
	return cmd
}

type (
	WatchOption func(*Watcher)
	// Watcher reports the odds of a race whenever one of its snapshot files
	// is created or rewritten.
	Watcher struct {
		loc      *locator.Locator
		svc      *service.OddsService
		l        *log.Logger
		onUpdate func(*service.RaceOverview)
	}
)

func WithLogger(l *log.Logger) WatchOption {
	return func(w *Watcher) {
		w.l = l
	}
}

// WithUpdateHandler is called with the fresh overview of a changed race.
func WithUpdateHandler(f func(*service.RaceOverview)) WatchOption {
	return func(w *Watcher) {
		w.onUpdate = f
	}
}

func NewWatcher(loc *locator.Locator, svc *service.OddsService, opts ...WatchOption) *Watcher {
	w := &Watcher{loc: loc, svc: svc, l: log.Default().Named("watch")}
	for _, opt := range opts {
		opt(w)
	}
	if w.onUpdate == nil {
		w.onUpdate = w.logOverview
	}
	return w
}

// Run watches the snapshot directories of a date until ctx is done.
//
//nolint:cyclop // event loop
func (w *Watcher) Run(ctx context.Context, date string) error {
	dirs, err := w.loc.DayDirs(date)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.l.Error("could not create fsnotify watcher", log.ErrorField(err))
		return err
	}
	defer watcher.Close()

	watched := 0
	for _, d := range dirs {
		if fi, err := os.Stat(d); err != nil || !fi.IsDir() {
			continue
		}
		if err := watcher.Add(d); err != nil {
			w.l.Error("could not watch dir", log.String("dir", d), log.ErrorField(err))
			continue
		}
		watched++
		w.l.Info("watching snapshots", log.String("dir", d))
	}
	if watched == 0 {
		return ErrNothingToWatch
	}

	for {
		select {
		case <-ctx.Done():
			w.l.Info("context done, stopping watch")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				w.l.Info("watcher events channel closed, stopping watch")
				return nil
			}
			w.l.Debug("change detected",
				log.String("file", event.Name), log.Any("event", event))
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			raceID, ok := locator.RaceIDFromName(filepath.Base(event.Name))
			if !ok || raceID[:8] != date {
				continue
			}
			w.svc.Invalidate(ctx, raceID)
			ov, err := w.svc.Overview(ctx, raceID)
			if err != nil {
				w.l.Warn("could not load odds", log.String("raceId", raceID), log.ErrorField(err))
				continue
			}
			if ov != nil {
				w.onUpdate(ov)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				w.l.Info("watcher errors channel closed, stopping watch")
				return nil
			}
			w.l.Error("watcher error", log.ErrorField(err))
		}
	}
}

func (w *Watcher) logOverview(ov *service.RaceOverview) {
	fields := []log.Field{
		log.String("raceId", ov.RaceID),
		log.String("time", ov.TimeLabel),
		log.String("pattern", string(ov.Analysis.Pattern)),
		log.String("label", ov.Analysis.Label),
		log.Int("snapshots", ov.Series.Count),
	}
	if len(ov.Entrants) > 0 {
		top := ov.Entrants[0]
		for _, e := range ov.Entrants[1:] {
			if e.Win.Valid && (!top.Win.Valid || e.Win.Decimal.LessThan(top.Win.Decimal)) {
				top = e
			}
		}
		fields = append(fields, log.String("favorite", top.Number))
	}
	w.l.Info("odds updated", fields...)
}
