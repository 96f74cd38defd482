//nolint:thelper,funlen // ok for tests
package markstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keibacicd/jvdata-engine/pkg/model"
)

func sampleKey() RaceKey {
	return RaceKey{Year: 2026, Kai: 1, Venue: "東京", Day: 2, Race: 11}
}

func TestOffsets(t *testing.T) {
	assert.Equal(t, 0, RecordIndex(1, 1))
	assert.Equal(t, 0, RecordOffset(1, 1))
	assert.Equal(t, 12, RecordIndex(2, 1))
	assert.Equal(t, 528, RecordOffset(2, 1))
	assert.Equal(t, 95, RecordIndex(8, 12))
	assert.Equal(t, 4224, FileSize)
	for _, dr := range [][2]int{{1, 1}, {2, 1}, {3, 7}, {8, 12}} {
		base := RecordOffset(dr[0], dr[1])
		assert.Equal(t, base+6, SlotOffset(dr[0], dr[1], 1))
		assert.Equal(t, base+40, SlotOffset(dr[0], dr[1], 18))
	}
}

func TestPath(t *testing.T) {
	s := New("/my")
	tests := []struct {
		key  RaceKey
		want string
	}{
		{sampleKey(), filepath.Join("/my", "UM261東.DAT")},
		{RaceKey{Year: 2025, Kai: 3, Venue: "07", Day: 1, Race: 1}, filepath.Join("/my", "UM253名.DAT")},
		{RaceKey{Year: 2026, Kai: 2, Venue: "阪", Day: 1, Race: 1, MarkSet: 1}, filepath.Join("/my", "UM262阪.DAT")},
		{RaceKey{Year: 2026, Kai: 2, Venue: "小倉", Day: 1, Race: 1, MarkSet: 5}, filepath.Join("/my", "UmaMark5", "UM262小.DAT")},
	}
	for _, tt := range tests {
		got, err := s.Path(tt.key)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestValidate(t *testing.T) {
	for _, k := range []RaceKey{
		{Year: 2026, Kai: 1, Venue: "大井", Day: 1, Race: 1},
		{Year: 2026, Kai: 1, Venue: "05", Day: 0, Race: 1},
		{Year: 2026, Kai: 1, Venue: "05", Day: 9, Race: 1},
		{Year: 2026, Kai: 1, Venue: "05", Day: 1, Race: 13},
		{Year: 2026, Kai: 1, Venue: "05", Day: 1, Race: 1, MarkSet: 9},
		{Year: 2026, Kai: 0, Venue: "05", Day: 1, Race: 1},
	} {
		assert.ErrorIs(t, k.Validate(), ErrInvalidKey, "%+v", k)
	}
}

func TestKeyFromRaceID(t *testing.T) {
	k, err := KeyFromRaceID("2026013105010211", 2)
	require.NoError(t, err)
	assert.Equal(t, RaceKey{Year: 2026, Kai: 1, Venue: "05", Day: 2, Race: 11, MarkSet: 2}, k)

	_, err = KeyFromRaceID("2026013105010213", 1)
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = KeyFromRaceID("202601310501021", 1)
	assert.ErrorIs(t, err, model.ErrInvalidRaceID)
}

func TestReadMissing(t *testing.T) {
	s := New(t.TempDir())
	got, err := s.Read(context.Background(), sampleKey())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWriteReadRoundTrip(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	ctx := context.Background()
	k := sampleKey()

	require.NoError(t, s.Write(ctx, k, 5, model.MarkHonmei))
	p, _ := s.Path(k)
	before, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Len(t, before, FileSize)
	for i := range RecordsPerFile {
		assert.Equal(t, []byte("\r\n"), before[i*RecordSize+42:i*RecordSize+44])
	}
	slot := SlotOffset(k.Day, k.Race, 5)
	assert.Equal(t, []byte{0x81, 0x9d}, before[slot:slot+2])

	got, err := s.Read(ctx, k)
	require.NoError(t, err)
	assert.Equal(t, map[int]model.Mark{5: model.MarkHonmei}, got.HorseMarks)

	require.NoError(t, s.Write(ctx, k, 5, model.MarkNone))
	got, err = s.Read(ctx, k)
	require.NoError(t, err)
	assert.Empty(t, got.HorseMarks)

	after, err := os.ReadFile(p)
	require.NoError(t, err)
	// only the two bytes of entrant 5 changed, and they are blank again
	for i := range after {
		if i == slot || i == slot+1 {
			assert.Equal(t, byte(0x20), after[i])
			continue
		}
		assert.Equal(t, before[i], after[i], "offset %d", i)
	}
}

func TestWriteKeepsOtherSlots(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	ctx := context.Background()
	k := sampleKey()

	// existing file with foreign content in the record
	buf := blankFile()
	off := RecordOffset(k.Day, k.Race)
	buf[off+1] = 'R'
	copy(buf[off+2:], []byte{0x81, 0x9a, 0x20, 0x20})
	copy(buf[SlotOffset(k.Day, k.Race, 1):], []byte{0x8c, 0x8a})
	copy(buf[SlotOffset(k.Day, k.Race, 18):], []byte{0x87, 0x56})
	copy(buf[SlotOffset(k.Day, k.Race, 9):], []byte{0x41, 0x42})
	p, _ := s.Path(k)
	require.NoError(t, os.WriteFile(p, buf, 0o644))

	require.NoError(t, s.WriteBatch(ctx, k, map[int]model.Mark{3: model.MarkTaikou, 4: model.MarkTanana}))
	got, err := s.Read(ctx, k)
	require.NoError(t, err)
	assert.Equal(t, "R", got.ColorCode)
	assert.Equal(t, "★", got.RaceMark)
	assert.Equal(t, map[int]model.Mark{
		1:  model.MarkAna,
		3:  model.MarkTaikou,
		4:  model.MarkTanana,
		18: model.MarkStar,
	}, got.HorseMarks, "unknown pair at 9 reads as no mark")

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x41, 0x42}, raw[SlotOffset(k.Day, k.Race, 9):SlotOffset(k.Day, k.Race, 9)+2])
}

func TestWriteBatchValidation(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	ctx := context.Background()
	k := sampleKey()

	err := s.WriteBatch(ctx, k, map[int]model.Mark{1: model.MarkHonmei, 19: model.MarkTaikou, 2: "X"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidEntrant)
	assert.ErrorIs(t, err, model.ErrUnknownMark)
	assert.ErrorIs(t, s.WriteBatch(ctx, k, nil), ErrEmptyBatch)

	bad := k
	bad.Race = 0
	assert.ErrorIs(t, s.Write(ctx, bad, 1, model.MarkHonmei), ErrInvalidKey)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing written")
}

func TestMarkSets(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	ctx := context.Background()
	k := sampleKey()
	k2 := k
	k2.MarkSet = 2

	require.NoError(t, s.Write(ctx, k, 1, model.MarkHonmei))
	require.NoError(t, s.Write(ctx, k2, 1, model.MarkRenka))

	got, err := s.Read(ctx, k)
	require.NoError(t, err)
	assert.Equal(t, model.MarkHonmei, got.HorseMarks[1])
	got, err = s.Read(ctx, k2)
	require.NoError(t, err)
	assert.Equal(t, model.MarkRenka, got.HorseMarks[1])
	assert.FileExists(t, filepath.Join(root, "UmaMark2", "UM261東.DAT"))
}

func TestShortFile(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	k := sampleKey()
	p, _ := s.Path(k)
	require.NoError(t, os.WriteFile(p, blankFile()[:RecordSize*3], 0o644))

	got, err := s.Read(context.Background(), k)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Clear(context.Background(), k, 2))
	fi, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, int64(FileSize), fi.Size())
}

func TestOversizedFileIsTruncated(t *testing.T) {
	s := New(t.TempDir())
	k := sampleKey()
	p, _ := s.Path(k)
	require.NoError(t, os.WriteFile(p, append(blankFile(), []byte("garbage")...), 0o644))

	require.NoError(t, s.Write(context.Background(), k, 5, model.MarkHonmei))
	fi, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, int64(FileSize), fi.Size())

	got, err := s.Read(context.Background(), k)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.MarkHonmei, got.HorseMarks[5])
}

func TestConcurrentWrites(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()
	k := sampleKey()

	var wg sync.WaitGroup
	for entrant := 1; entrant <= MaxEntrants; entrant++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Write(ctx, k, entrant, model.MarkRenka))
		}()
	}
	wg.Wait()

	got, err := s.Read(ctx, k)
	require.NoError(t, err)
	assert.Len(t, got.HorseMarks, MaxEntrants)
}
