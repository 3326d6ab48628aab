package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat(" TEXT ")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, map[string]any{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestWrite_Text(t *testing.T) {
	report := map[string]any{
		"upload_id": "up-1",
		"metrics":   map[string]any{"winrate": 50.0, "total_trades": 2},
		"asset_performance": []map[string]any{
			{"asset": "EURUSD", "total_pnl": 10.5},
		},
		"streaks": []any{},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, report))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "upload_id"), out)
	assert.Contains(t, out, "[metrics]")
	assert.Contains(t, out, "winrate")
	assert.Contains(t, out, "[asset_performance]")
	assert.Contains(t, out, "EURUSD")
	assert.Contains(t, out, "10.5")
	assert.Contains(t, out, "(none)")
	assert.Less(t, strings.Index(out, "[asset_performance]"), strings.Index(out, "[metrics]"))
}

func TestWrite_TextScalar(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, nil))
	assert.Equal(t, "-\n", buf.String())
}
