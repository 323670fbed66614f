package output

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newTestRenderer(mode Mode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{name: "auto on terminal", mode: ModeAuto, isTTY: true, want: ModeText},
		{name: "auto piped", mode: ModeAuto, isTTY: false, want: ModeMarkdown},
		{name: "empty is auto", mode: "", isTTY: false, want: ModeMarkdown},
		{name: "explicit text piped", mode: ModeText, isTTY: false, want: ModeText},
		{name: "json on terminal", mode: ModeJSON, isTTY: true, want: ModeJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeAuto, m)

	m, err = ParseMode("json")
	require.NoError(t, err)
	assert.Equal(t, ModeJSON, m)

	_, err = ParseMode("yaml")
	assert.Error(t, err)
}

func TestRenderer_Table(t *testing.T) {
	header := []string{"from \\ to", "PayPal", "(none)"}
	rows := [][]string{{"PayPal", "4", "6"}, {"(none)", "3", "11"}}

	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeMarkdown, false)
		r.Table(header, rows)

		got := out.String()
		assert.False(t, ansiPattern.MatchString(got))
		lines := strings.Split(strings.TrimSpace(got), "\n")
		require.Len(t, lines, 4)
		for _, line := range lines {
			assert.True(t, strings.HasPrefix(line, "|"), line)
		}
		assert.Contains(t, lines[0], "PayPal")
		assert.Contains(t, lines[3], "11")
	})

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, false)
		r.Table(header, rows)

		got := out.String()
		assert.Contains(t, got, "┌")
		assert.Contains(t, got, "PayPal")
		assert.NotContains(t, got, "PAYPAL")
	})
}

func TestRenderer_MessagesWithoutTTY(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeText, false)

	r.Header(1, "Competitive matrix")
	r.Success("seeded 15 apps")
	r.Muted("from sample")
	r.Warning("careful")
	r.Error("broken")

	assert.False(t, ansiPattern.MatchString(out.String()+errOut.String()))
	assert.Contains(t, out.String(), "Competitive matrix")
	assert.Contains(t, out.String(), "✓ seeded 15 apps")
	assert.Contains(t, errOut.String(), "! careful")
	assert.Contains(t, errOut.String(), "✗ broken")
}

func TestRenderer_HeaderMarkdown(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.Header(2, "Apps")
	assert.Equal(t, "## Apps\n", out.String())
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)
	require.NoError(t, r.JSON(map[string]int{"total_count": 4}))

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, 4, decoded["total_count"])
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(1, "Title"))
	assert.Equal(t, "### Deep", FormatHeader(3, "Deep"))
	assert.Equal(t, "- **Total:** 14", FormatKeyValue("Total", "14"))
}
