// Package locator finds odds snapshot files in the RT_DATA tree.
//
// Snapshot files are named RT<raceID><seq>.DAT and live either in
// <root>/<yyyy>/<mmdd> or directly in <root>/<yyyy>.
package locator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/keibacicd/jvdata-engine/log"
	"github.com/keibacicd/jvdata-engine/pkg/model"
)

const (
	FilePrefix = "RT"
	FileSuffix = ".DAT"
)

var (
	ErrInvalidRaceID = errors.New("race id must have 16 digits")
	ErrInvalidDate   = errors.New("date must have the form yyyymmdd")
)

type (
	Option  func(*Locator)
	Locator struct {
		root string
		l    *log.Logger
	}
)

func WithLogger(l *log.Logger) Option {
	return func(loc *Locator) {
		loc.l = l
	}
}

func New(root string, opts ...Option) *Locator {
	loc := &Locator{
		root: root,
		l:    log.Default().Named("locator"),
	}
	for _, opt := range opts {
		opt(loc)
	}
	return loc
}

func (loc *Locator) Root() string {
	return loc.root
}

// Available reports whether the RT_DATA root exists.
func (loc *Locator) Available() bool {
	fi, err := os.Stat(loc.root)
	return err == nil && fi.IsDir()
}

// DayDirs returns the candidate directories for a yyyymmdd date in lookup
// order. The directories need not exist.
func (loc *Locator) DayDirs(date string) ([]string, error) {
	if !model.IsDate(date) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return []string{
		filepath.Join(loc.root, date[:4], date[4:8]),
		filepath.Join(loc.root, date[:4]),
	}, nil
}

// FindLatest returns the primary snapshot file of a race. Files with
// sequence suffix "1" or "01" are preferred. An empty path means no file.
func (loc *Locator) FindLatest(raceID string) (string, error) {
	dirs, err := loc.raceDirs(raceID)
	if err != nil {
		return "", err
	}
	prefix := FilePrefix + raceID
	for _, dir := range dirs {
		for _, suffix := range []string{"1", "01"} {
			p := filepath.Join(dir, prefix+suffix+FileSuffix)
			if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
				return p, nil
			}
		}
		names, err := loc.matching(dir, prefix)
		if err != nil {
			return "", err
		}
		if len(names) > 0 {
			return filepath.Join(dir, names[0]), nil
		}
	}
	return "", nil
}

// FindAll returns all snapshot files of a race from the first candidate
// directory containing any, sorted by name.
func (loc *Locator) FindAll(raceID string) ([]string, error) {
	dirs, err := loc.raceDirs(raceID)
	if err != nil {
		return nil, err
	}
	prefix := FilePrefix + raceID
	for _, dir := range dirs {
		names, err := loc.matching(dir, prefix)
		if err != nil {
			return nil, err
		}
		if len(names) > 0 {
			return lo.Map(names, func(n string, _ int) string {
				return filepath.Join(dir, n)
			}), nil
		}
	}
	return nil, nil
}

// ListRaces returns the sorted, distinct race ids having snapshot files on
// the given date.
func (loc *Locator) ListRaces(date string) ([]string, error) {
	dirs, err := loc.DayDirs(date)
	if err != nil {
		return nil, err
	}
	prefix := FilePrefix + date
	var ids []string
	for _, dir := range dirs {
		names, err := loc.matching(dir, prefix)
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			if id, ok := RaceIDFromName(n); ok {
				ids = append(ids, id)
			}
		}
	}
	ids = lo.Uniq(ids)
	slices.Sort(ids)
	return ids, nil
}

// RaceIDFromName extracts the race id from a snapshot file name.
func RaceIDFromName(name string) (string, bool) {
	name = filepath.Base(name)
	if !strings.HasPrefix(name, FilePrefix) || !strings.HasSuffix(name, FileSuffix) {
		return "", false
	}
	if len(name) < len(FilePrefix)+model.RaceIDLen+len(FileSuffix) {
		return "", false
	}
	id := name[len(FilePrefix) : len(FilePrefix)+model.RaceIDLen]
	if _, err := model.ParseRaceID(id); err != nil {
		return "", false
	}
	return id, true
}

func (loc *Locator) raceDirs(raceID string) ([]string, error) {
	if _, err := model.ParseRaceID(raceID); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRaceID, raceID)
	}
	return loc.DayDirs(raceID[:8])
}

// matching lists file names in dir starting with prefix and ending in .DAT.
// A missing directory is not an error.
func (loc *Locator) matching(dir, prefix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		loc.l.Warn("could not read snapshot dir", log.String("dir", dir), log.ErrorField(err))
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	names := make([]string, 0)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), FileSuffix) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}
