package bet

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keibacicd/jvdata-engine/pkg/betexport"
	"github.com/keibacicd/jvdata-engine/pkg/config"
	"github.com/keibacicd/jvdata-engine/pkg/model"
)

const betsYAML = `
- raceId: "2026013105010211"
  betType: win
  umaban: 5
  amount: 100
- raceId: "2026013105010211"
  betType: 1
  umaban: 5
  amount: 1200
`

func TestReadBets(t *testing.T) {
	bets, err := ReadBets(strings.NewReader(betsYAML), "-")
	require.NoError(t, err)
	assert.Equal(t, []model.BetInstruction{
		{RaceID: "2026013105010211", Kind: model.BetWin, Entrant: 5, Stake: 100},
		{RaceID: "2026013105010211", Kind: model.BetPlace, Entrant: 5, Stake: 1200},
	}, bets)

	bets, err = ReadBets(strings.NewReader(`[{"raceId":"2026013105010211","betType":"place","umaban":3,"amount":500}]`), "-")
	require.NoError(t, err)
	assert.Equal(t, model.BetPlace, bets[0].Kind)

	_, err = ReadBets(strings.NewReader(""), "-")
	assert.ErrorIs(t, err, betexport.ErrEmptyBatch)
	_, err = ReadBets(strings.NewReader("- betType: exacta"), "-")
	assert.Error(t, err)
}

func TestBetCommands(t *testing.T) {
	dir := t.TempDir()
	config.MyDataDir = dir
	config.OutputFormat = "json"
	t.Cleanup(func() { config.MyDataDir, config.OutputFormat = "", "" })

	in := filepath.Join(t.TempDir(), "bets.yaml")
	require.NoError(t, os.WriteFile(in, []byte(betsYAML), 0o600))

	run := func(args ...string) string {
		var out bytes.Buffer
		cmd := NewBetCmd()
		cmd.SetOut(&out)
		cmd.SetArgs(args)
		require.NoError(t, cmd.Execute())
		return out.String()
	}

	out := run("export", in)
	assert.Contains(t, out, `"bets": 2`)
	matches, err := filepath.Glob(filepath.Join(dir, "FF20260131_*.CSV"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	out = run("pd", in)
	assert.Contains(t, out, `"written": 1`)
	assert.FileExists(t, filepath.Join(dir, "PD202601.CSV"))

	out = run("pd-clear", "2026013105010211")
	assert.Contains(t, out, `"cleared": 1`)
}
