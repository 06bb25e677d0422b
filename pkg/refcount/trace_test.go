package refcount_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-ou-se/mstd/pkg/refcount"
)

func captureTraces(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	refcount.SetLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { refcount.SetLogger(nil) })
	return &buf
}

func traceLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestTraceDestroy(t *testing.T) {
	buf := captureTraces(t, slog.LevelDebug)

	w, _ := newWidget("w")
	p := refcount.Adopt(w)
	p.Reset()

	lines := traceLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "object destroyed", lines[0]["msg"])
	assert.Equal(t, "*refcount_test.widget", lines[0]["type"])
}

func TestTraceCastFailed(t *testing.T) {
	buf := captureTraces(t, slog.LevelDebug)

	s := newShape(&circle{r: 1})
	assert.True(t, refcount.DynamicCast[*square](s).IsNil())

	lines := traceLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "dynamic cast failed", lines[0]["msg"])
	assert.Equal(t, "*refcount_test.square", lines[0]["target"])
	assert.EqualValues(t, 1, lines[0]["use_count"])

	s.Reset()
}

func TestTraceRespectsLevel(t *testing.T) {
	buf := captureTraces(t, slog.LevelInfo)

	p := refcount.New(handle{id: 1})
	p.Reset()

	assert.Empty(t, buf.String())
}

func TestTraceOffByDefault(t *testing.T) {
	refcount.SetLogger(nil)
	assert.NotPanics(t, func() {
		p := refcount.New(handle{id: 1})
		p.Reset()
	})
}
