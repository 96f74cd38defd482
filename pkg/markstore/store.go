package markstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/keibacicd/jvdata-engine/log"
	"github.com/keibacicd/jvdata-engine/pkg/metrics"
	"github.com/keibacicd/jvdata-engine/pkg/model"
	"github.com/keibacicd/jvdata-engine/pkg/sjis"
	"github.com/keibacicd/jvdata-engine/pkg/utils"
)

type (
	Option func(*Store)
	// Store serializes read-modify-write cycles per file path within the
	// process. Other processes writing the same files are not coordinated.
	Store struct {
		root  string
		l     *log.Logger
		mu    sync.Mutex
		locks map[string]*sync.Mutex
	}
)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.l = l
	}
}

// New returns a store for the mark files below root (the MY_DATA directory).
func New(root string, opts ...Option) *Store {
	s := &Store{
		root:  root,
		l:     log.Default().Named("markstore"),
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the mark file of a key.
func (s *Store) Path(k RaceKey) (string, error) {
	if err := k.Validate(); err != nil {
		return "", err
	}
	return filepath.Join(MarkSetDir(s.root, k.set()), k.FileName()), nil
}

// Read returns the marks of one race. A missing file or a file too short
// for the record yields nil without error.
func (s *Store) Read(ctx context.Context, k RaceKey) (*model.RaceMarks, error) {
	p, err := s.Path(k)
	if err != nil {
		return nil, err
	}
	unlock := s.lock(p)
	defer unlock()

	buf, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read mark file: %w", err)
	}
	off := RecordOffset(k.Day, k.Race)
	if off+RecordSize > len(buf) {
		log.GetFromContext(ctx).Debug("mark file too short",
			log.String("file", p), log.Int("size", len(buf)))
		return nil, nil
	}
	return decodeRecord(buf[off : off+RecordSize]), nil
}

func decodeRecord(rec []byte) *model.RaceMarks {
	ret := &model.RaceMarks{HorseMarks: map[int]model.Mark{}}
	if c := rec[colorOffset]; c != 0x20 {
		ret.ColorCode = string(rune(c))
	}
	if rm, err := sjis.DecodeField(rec[raceMarkOffset : raceMarkOffset+raceMarkLen]); err == nil {
		ret.RaceMark = rm
	}
	for entrant := 1; entrant <= MaxEntrants; entrant++ {
		o := slotOffset + (entrant-1)*slotLen
		if m := bytesMark[[slotLen]byte{rec[o], rec[o+1]}]; m != model.MarkNone {
			ret.HorseMarks[entrant] = m
		}
	}
	return ret
}

// Write sets the mark of one entrant. MarkNone clears the slot.
func (s *Store) Write(ctx context.Context, k RaceKey, entrant int, mark model.Mark) error {
	return s.WriteBatch(ctx, k, map[int]model.Mark{entrant: mark})
}

// Clear removes the mark of one entrant.
func (s *Store) Clear(ctx context.Context, k RaceKey, entrant int) error {
	return s.Write(ctx, k, entrant, model.MarkNone)
}

// WriteBatch sets the marks of several entrants of one race with a single
// load and flush. Everything is validated first; on a validation error
// nothing is written. The file is replaced atomically.
func (s *Store) WriteBatch(ctx context.Context, k RaceKey, marks map[int]model.Mark) error {
	p, err := s.Path(k)
	if err != nil {
		return err
	}
	if len(marks) == 0 {
		return ErrEmptyBatch
	}
	var errs []error
	for _, entrant := range slices.Sorted(maps.Keys(marks)) {
		if entrant < 1 || entrant > MaxEntrants {
			errs = append(errs, fmt.Errorf("%w: %d not in 1-%d", ErrInvalidEntrant, entrant, MaxEntrants))
		}
		if _, ok := markBytes[marks[entrant]]; !ok {
			errs = append(errs, fmt.Errorf("entrant %d: %w: %q", entrant, model.ErrUnknownMark, marks[entrant]))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	unlock := s.lock(p)
	defer unlock()

	buf, err := load(p)
	if err != nil {
		return err
	}
	for entrant, m := range marks {
		b := markBytes[m]
		copy(buf[SlotOffset(k.Day, k.Race, entrant):], b[:])
	}
	if err := utils.WriteFileAtomic(p, buf, 0o644); err != nil {
		return fmt.Errorf("write mark file: %w", err)
	}
	metrics.MarkWritten(ctx, k.set(), len(marks))
	log.GetFromContext(ctx).Debug("marks written",
		log.String("file", p),
		log.Int("day", k.Day),
		log.Int("race", k.Race),
		log.Int("entrants", len(marks)))
	return nil
}

// load reads a mark file, returning a blank one if it does not exist. The
// result always has FileSize bytes: short files are padded, trailing bytes
// beyond the last record are dropped.
func load(p string) ([]byte, error) {
	buf, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return blankFile(), nil
		}
		return nil, fmt.Errorf("read mark file: %w", err)
	}
	switch {
	case len(buf) < FileSize:
		buf = append(buf, blankFile()[len(buf):]...)
	case len(buf) > FileSize:
		buf = buf[:FileSize]
	}
	return buf, nil
}

func (s *Store) lock(p string) func() {
	s.mu.Lock()
	m, ok := s.locks[p]
	if !ok {
		m = &sync.Mutex{}
		s.locks[p] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}
