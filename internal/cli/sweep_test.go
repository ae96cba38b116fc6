package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/scroll"
)

func writeLayout(t *testing.T) string {
	t.Helper()
	layout := Layout{
		ViewportHeight: 800,
		Sections:       scroll.Stack([]string{"hero", "resume", "contact"}, []float64{1000, 1000, 1000}),
	}
	data, err := json.Marshal(layout)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSweepCommand_Golden(t *testing.T) {
	out, err := runCommand(t, "sweep", "--layout", writeLayout(t), "--step", "200")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "sweep", []byte(out))
}

func TestSweepCommand_JSON(t *testing.T) {
	out, err := runCommand(t, "--format", "json", "sweep", "--layout", writeLayout(t), "--step", "1100")
	require.NoError(t, err)

	var steps []SweepStep
	require.NoError(t, json.Unmarshal([]byte(out), &steps))
	require.Len(t, steps, 3)
	assert.Equal(t, "hero", steps[0].Section)
	assert.Equal(t, "resume", steps[1].Section)
	assert.InDelta(t, 50.0, steps[1].Progress.Percent, 1e-9)
	assert.Equal(t, "contact", steps[2].Section)
}

func TestSweepCommand_Errors(t *testing.T) {
	_, err := runCommand(t, "sweep")
	assert.Error(t, err, "layout flag is required")

	_, err = runCommand(t, "sweep", "--layout", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = runCommand(t, "--format", "yaml", "sweep", "--layout", writeLayout(t))
	assert.Error(t, err)
}

func TestSweep_ReverseNeverStepsForward(t *testing.T) {
	layout := Layout{
		ViewportHeight: 800,
		Sections:       scroll.Stack([]string{"hero", "resume", "contact"}, []float64{1000, 1000, 1000}),
	}
	steps, err := Sweep(layout, SweepOptions{To: -1, Step: 10, HysteresisPx: 50, Reverse: true})
	require.NoError(t, err)

	order := map[string]int{"hero": 0, "resume": 1, "contact": 2}
	last := 3
	for _, s := range steps {
		require.LessOrEqual(t, order[s.Section], last, "offset %v", s.Offset)
		last = order[s.Section]
	}
	assert.Equal(t, "contact", steps[0].Section)
	assert.Equal(t, "hero", steps[len(steps)-1].Section)
}

func TestSweep_Validates(t *testing.T) {
	_, err := Sweep(Layout{ViewportHeight: 800}, SweepOptions{Step: 0})
	assert.Error(t, err)
	_, err = Sweep(Layout{}, SweepOptions{Step: 10})
	assert.Error(t, err)
	_, err = Sweep(Layout{ViewportHeight: 800}, SweepOptions{Step: 10, HysteresisPx: -1})
	assert.ErrorIs(t, err, scroll.ErrNegativeHysteresis)
}
