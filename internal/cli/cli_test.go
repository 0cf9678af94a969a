package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ignatij/vineyard/pkg/models"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "vineyard", SilenceUsage: true, SilenceErrors: true}
	SetupCLI(root)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTimelineCommand(t *testing.T) {
	out, err := run(t, "timeline", "--variety", "Concord", "--planting-date", "2024-03-01", "--json")
	require.NoError(t, err)
	var tasks []models.Task
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	assert.Len(t, tasks, 31)
	assert.Equal(t, "Plant Concord vines with proper spacing", tasks[3].Description)

	out, err = run(t, "timeline", "--variety", "Concord", "--planting-date", "2024-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Soil Testing")
	assert.Contains(t, out, "2024-02-16")

	_, err = run(t, "timeline", "--variety", "Concord", "--planting-date", "2024-02-30")
	assert.Error(t, err)
}

func TestLayoutCommand(t *testing.T) {
	out, err := run(t, "layout", "--length", "7", "--width", "9", "--length-spacing", "2", "--width-spacing", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Capacity:            12")
	assert.Contains(t, out, "76.19%")

	_, err = run(t, "layout", "--length", "0", "--width", "9")
	assert.Error(t, err)
}

func TestSeasonalCommand(t *testing.T) {
	out, err := run(t, "seasonal", "--date", "2024-11-20")
	require.NoError(t, err)
	assert.Contains(t, out, "Current:")
	assert.Contains(t, out, "Upcoming:")

	_, err = run(t, "seasonal", "--date", "tomorrow")
	assert.Error(t, err)
}
