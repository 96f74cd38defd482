// Package service composes locator, decoder, aggregator and analyzer into
// the odds queries used by the CLI.
package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/keibacicd/jvdata-engine/log"
	"github.com/keibacicd/jvdata-engine/pkg/analysis"
	"github.com/keibacicd/jvdata-engine/pkg/jvdata"
	"github.com/keibacicd/jvdata-engine/pkg/locator"
	"github.com/keibacicd/jvdata-engine/pkg/metrics"
	"github.com/keibacicd/jvdata-engine/pkg/model"
	"github.com/keibacicd/jvdata-engine/pkg/timeseries"
	"github.com/keibacicd/jvdata-engine/pkg/utils/cache"
	"github.com/keibacicd/jvdata-engine/pkg/utils/cache/loadercache"
)

type (
	Option      func(*OddsService)
	OddsService struct {
		loc     *locator.Locator
		ttl     time.Duration
		now     func() time.Time
		l       *log.Logger
		latest  cache.Cache[string, jvdata.Result]
		series  cache.Cache[string, seriesEntry]
		display int
	}
	seriesEntry struct {
		snapshots []model.OddsSnapshot
		files     int
		skipped   int
	}
)

// SeriesView is the odds time-series of a race. Snapshots holds the
// decimated series, Full the complete one. Opening and Closing classify the
// field at the first and the last snapshot.
type SeriesView struct {
	RaceID     string                   `json:"raceId"`
	Files      int                      `json:"files"`
	Skipped    int                      `json:"skipped"`
	Total      int                      `json:"total"`
	Displayed  int                      `json:"displayed"`
	FirstLabel string                   `json:"firstLabel"`
	LastLabel  string                   `json:"lastLabel"`
	Opening    *model.RaceOddsAnalysis  `json:"opening,omitempty"`
	Closing    *model.RaceOddsAnalysis  `json:"closing,omitempty"`
	Snapshots  []model.OddsSnapshot     `json:"snapshots"`
	Changes    []model.OddsChangeInfo   `json:"changes"`
	LastMinute []model.LastMinuteChange `json:"lastMinute"`
	Full       []model.OddsSnapshot     `json:"-"`
}

// EntrantOverview is an entrant of the latest snapshot together with its
// movement over the whole series.
type EntrantOverview struct {
	model.EntrantOdds
	FirstOdds     decimal.NullDecimal `json:"firstOdds"`
	Change        decimal.NullDecimal `json:"change"`
	ChangePercent decimal.NullDecimal `json:"changePercent"`
	Trend         model.Trend         `json:"trend"`
}

type SeriesSummary struct {
	Count      int    `json:"count"`
	FirstLabel string `json:"firstLabel"`
	LastLabel  string `json:"lastLabel"`
}

type RaceOverview struct {
	RaceID      string                   `json:"raceId"`
	AnnouncedAt string                   `json:"announcedAt"`
	TimeLabel   string                   `json:"timeLabel"`
	PostTime    string                   `json:"postTime"`
	Starters    *int                     `json:"starters"`
	Entrants    []EntrantOverview        `json:"horses"`
	Analysis    model.RaceOddsAnalysis   `json:"analysis"`
	Series      SeriesSummary            `json:"series"`
	LastMinute  []model.LastMinuteChange `json:"lastMinute"`
}

func WithLogger(l *log.Logger) Option {
	return func(s *OddsService) {
		s.l = l
	}
}

// WithCacheTTL sets the lifetime of cached decode results. Zero disables
// caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *OddsService) {
		s.ttl = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *OddsService) {
		s.now = now
	}
}

// WithDisplayLimit overrides the decimation limit of SeriesView.Snapshots.
func WithDisplayLimit(limit int) Option {
	return func(s *OddsService) {
		s.display = limit
	}
}

func NewOddsService(loc *locator.Locator, opts ...Option) *OddsService {
	s := &OddsService{
		loc:     loc,
		ttl:     30 * time.Second,
		now:     time.Now,
		l:       log.Default().Named("service"),
		display: timeseries.DisplayLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.latest = loadercache.New(
		loadercache.WithExpiration[string, jvdata.Result](s.ttl),
		loadercache.WithClock[string, jvdata.Result](s.now),
		loadercache.WithLogger[string, jvdata.Result](s.l.Named("latest")),
		loadercache.WithLoader(s.loadLatest),
	)
	s.series = loadercache.New(
		loadercache.WithExpiration[string, seriesEntry](s.ttl),
		loadercache.WithClock[string, seriesEntry](s.now),
		loadercache.WithLogger[string, seriesEntry](s.l.Named("series")),
		loadercache.WithLoader(s.loadSeries),
	)
	return s
}

// Available reports whether the snapshot tree exists.
func (s *OddsService) Available() bool {
	return s.loc.Available()
}

// Invalidate drops cached data of a race, e.g. after a new snapshot file
// arrived.
func (s *OddsService) Invalidate(ctx context.Context, raceID string) {
	s.latest.Invalidate(ctx, raceID)
	s.series.Invalidate(ctx, raceID)
}

// Latest decodes the primary snapshot file of a race. A race without
// snapshot files yields StatusNotFound.
func (s *OddsService) Latest(ctx context.Context, raceID string) (jvdata.Result, error) {
	res, err := s.latest.Get(ctx, raceID)
	if err != nil {
		return jvdata.Result{}, err
	}
	return *res, nil
}

// Series returns the full and the decimated odds time-series of a race.
// A race without usable snapshots yields an empty view.
func (s *OddsService) Series(ctx context.Context, raceID string) (*SeriesView, error) {
	e, err := s.series.Get(ctx, raceID)
	if err != nil {
		return nil, err
	}
	display := timeseries.Decimate(e.snapshots, s.display)
	view := &SeriesView{
		RaceID:     raceID,
		Files:      e.files,
		Skipped:    e.skipped,
		Total:      len(e.snapshots),
		Displayed:  len(display),
		Snapshots:  display,
		Full:       e.snapshots,
		Changes:    analysis.Changes(e.snapshots),
		LastMinute: analysis.LastMinuteChanges(e.snapshots),
	}
	if len(e.snapshots) > 0 {
		first, last := e.snapshots[0], e.snapshots[len(e.snapshots)-1]
		view.FirstLabel = first.TimeLabel
		view.LastLabel = last.TimeLabel
		opening, closing := analysis.AnalyzeSnapshot(first), analysis.AnalyzeSnapshot(last)
		view.Opening, view.Closing = &opening, &closing
	}
	return view, nil
}

// Overview combines the latest snapshot with the movement over the series.
// It returns nil if no usable snapshot exists.
func (s *OddsService) Overview(ctx context.Context, raceID string) (*RaceOverview, error) {
	res, err := s.Latest(ctx, raceID)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		log.GetFromContext(ctx).Debug("no usable latest odds",
			log.String("raceId", raceID),
			log.Stringer("status", res.Status),
			log.String("reason", res.Reason))
		return nil, nil
	}
	view, err := s.Series(ctx, raceID)
	if err != nil {
		return nil, err
	}
	changes := lo.SliceToMap(view.Changes, func(c model.OddsChangeInfo) (string, model.OddsChangeInfo) {
		return c.Number, c
	})

	rec := res.Record
	ov := &RaceOverview{
		RaceID:      rec.RaceID,
		AnnouncedAt: rec.AnnouncedAt,
		TimeLabel:   timeseries.TimeLabel(rec.AnnouncedAt),
		PostTime:    rec.PostTime,
		Starters:    rec.Starters,
		Analysis:    analysis.AnalyzePattern(rec.Entrants),
		Series: SeriesSummary{
			Count:      view.Total,
			FirstLabel: view.FirstLabel,
			LastLabel:  view.LastLabel,
		},
		LastMinute: view.LastMinute,
	}
	ov.Entrants = lo.Map(rec.Entrants, func(e model.EntrantOdds, _ int) EntrantOverview {
		eo := EntrantOverview{EntrantOdds: e, Trend: model.TrendUnknown}
		if c, ok := changes[e.Number]; ok {
			eo.FirstOdds = c.FirstOdds
			eo.Change = c.Change
			eo.ChangePercent = c.ChangePercent
			eo.Trend = c.Trend
		}
		return eo
	})
	return ov, nil
}

// RacesWithOdds lists the race ids having snapshot files on a yyyymmdd date.
func (s *OddsService) RacesWithOdds(date string) ([]string, error) {
	return s.loc.ListRaces(date)
}

func (s *OddsService) loadLatest(ctx context.Context, raceID string) (*jvdata.Result, error) {
	p, err := s.loc.FindLatest(raceID)
	if err != nil {
		return nil, err
	}
	if p == "" {
		res := jvdata.NotFound("no snapshot file for " + raceID)
		metrics.Decoded(ctx, res.Status.String())
		return &res, nil
	}
	res, err := s.decodeFile(ctx, p)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *OddsService) loadSeries(ctx context.Context, raceID string) (*seriesEntry, error) {
	start := time.Now()
	files, err := s.loc.FindAll(raceID)
	if err != nil {
		return nil, err
	}
	records := make([]*model.OddsRecord, 0, len(files))
	skipped := 0
	for _, p := range files {
		res, err := s.decodeFile(ctx, p)
		if err != nil {
			return nil, err
		}
		if !res.OK() {
			skipped++
			continue
		}
		records = append(records, res.Record)
	}
	metrics.SeriesLoaded(ctx, time.Since(start).Seconds(), len(files))
	return &seriesEntry{
		snapshots: timeseries.FromRecords(records),
		files:     len(files),
		skipped:   skipped,
	}, nil
}

func (s *OddsService) decodeFile(ctx context.Context, p string) (jvdata.Result, error) {
	buf, err := os.ReadFile(p)
	if err != nil {
		return jvdata.Result{}, fmt.Errorf("read snapshot: %w", err)
	}
	res := jvdata.Decode(buf)
	metrics.Decoded(ctx, res.Status.String())
	if !res.OK() {
		s.l.Warn("could not decode snapshot",
			log.String("file", p),
			log.String("reason", res.Reason))
	}
	return res, nil
}
