package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(line, &m))
		out = append(out, m)
	}
	return out
}

func TestParseKitLogger_AttachesContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "json", Output: &buf})

	l.WithComponent("session").WithSession("abc").WithContext("model_dir", "/m").Info("hello", "tokens", 3)

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "hello", recs[0]["msg"])
	assert.Equal(t, "session", recs[0]["component"])
	assert.Equal(t, "abc", recs[0]["session_id"])
	assert.Equal(t, "/m", recs[0]["model_dir"])
	assert.EqualValues(t, 3, recs[0]["tokens"])
}

func TestParseKitLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelWarn, Output: &buf})

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 2)
	assert.Equal(t, "w", recs[0]["msg"])
	assert.Equal(t, "e", recs[1]["msg"])
}

func TestParseKitLogger_WithDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(&LoggerConfig{Level: LogLevelInfo, Output: &buf})
	_ = parent.WithContext("k", "v")

	parent.Info("plain")

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 1)
	_, ok := recs[0]["k"]
	assert.False(t, ok)
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, LogLevelWarn, lvl)

	lvl, err = ParseLogLevel("")
	require.NoError(t, err)
	assert.Equal(t, LogLevelInfo, lvl)

	_, err = ParseLogLevel("loud")
	assert.Error(t, err)
}

func TestDomainHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelDebug, Output: &buf})

	LogModelLoad(l, "tagger", "/m/tagger", time.Millisecond, nil)
	LogModelLoad(l, "depparser", "/m/depparser", time.Millisecond, errors.New("boom"))
	LogSentenceSkipped(l, "tag", 600, 512)
	LogBatch(l, "tag", "in.txt", "out.txt", 3, 1, 0, time.Second, nil)

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 4)
	assert.Equal(t, "Model loaded", recs[0]["msg"])
	assert.Equal(t, "ERROR", recs[1]["level"])
	assert.Equal(t, "boom", recs[1]["error"])
	assert.Equal(t, "WARN", recs[2]["level"])
	assert.EqualValues(t, 600, recs[2]["tokens"])
	assert.EqualValues(t, 1, recs[3]["skipped"])
}

func TestZapAdapter(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewZapAdapter(zap.New(core))

	l.Warn("Sentence exceeds length limit, skipping", "tokens", 700)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Sentence exceeds length limit, skipping", entries[0].Message)
	assert.EqualValues(t, 700, entries[0].ContextMap()["tokens"])
}

func TestZapProductionLogger_Writer(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewZapProductionLogger(LogLevelInfo, &buf)
	require.NoError(t, err)

	l.Debug("dropped")
	l.Info("Model loaded", "kind", "tagger")

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "Model loaded", recs[0]["msg"])
	assert.Equal(t, "info", recs[0]["level"])
	assert.Equal(t, "tagger", recs[0]["kind"])
}

func TestNoOpLogger(t *testing.T) {
	var l Logger = NoOpLogger{}
	assert.NotPanics(t, func() {
		l.Debug("x")
		l.Error("y", "k", "v")
	})
}
