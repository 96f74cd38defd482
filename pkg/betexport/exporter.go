package betexport

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/keibacicd/jvdata-engine/log"
	"github.com/keibacicd/jvdata-engine/pkg/metrics"
	"github.com/keibacicd/jvdata-engine/pkg/model"
)

const maxNameAttempts = 100

type (
	Option   func(*settings)
	settings struct {
		now func() time.Time
		l   *log.Logger
	}
	Exporter struct {
		settings
		dir string
	}
	ExportedFile struct {
		Date string `json:"date"`
		Path string `json:"path"`
		Bets int    `json:"bets"`
	}
	ExportResult struct {
		Files []ExportedFile `json:"files"`
	}
)

func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *settings) {
		s.l = l
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		now: time.Now,
		l:   log.Default().Named("betexport"),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// NewExporter writes FF files into dir (the MY_DATA directory).
func NewExporter(dir string, opts ...Option) *Exporter {
	return &Exporter{settings: newSettings(opts), dir: dir}
}

// Export writes one FF<yyyymmdd>_<HHmmss>.CSV per race date. The whole
// batch is rejected if any instruction is invalid. Existing files are never
// overwritten; a numeric suffix is added instead. Files written before an
// I/O error are reported in the result together with the error.
func (e *Exporter) Export(ctx context.Context, bets []model.BetInstruction) (*ExportResult, error) {
	files, err := Encode(bets)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	stamp := e.now().Format("150405")
	ret := &ExportResult{}
	for _, f := range files {
		p, err := e.create(fmt.Sprintf("FF%s_%s", f.Date, stamp), f.Data)
		if err != nil {
			return ret, err
		}
		ret.Files = append(ret.Files, ExportedFile{Date: f.Date, Path: p, Bets: f.Bets})
		metrics.BetsExported(ctx, "ff", f.Bets)
		e.l.Info("bet file written", log.String("file", p), log.Int("bets", f.Bets))
	}
	return ret, nil
}

func (e *Exporter) create(base string, data []byte) (string, error) {
	for i := range maxNameAttempts {
		name := base + ".CSV"
		if i > 0 {
			name = fmt.Sprintf("%s_%d.CSV", base, i)
		}
		p := filepath.Join(e.dir, name)
		f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if errors.Is(err, fs.ErrExist) {
				continue
			}
			return "", fmt.Errorf("create bet file: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("write bet file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close bet file: %w", err)
		}
		return p, nil
	}
	return "", fmt.Errorf("no free file name for %s", base)
}
