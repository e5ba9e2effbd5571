package stdlogger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecc24clmk/clmk-site/internal/logger/adapter/stdlogger"
)

type line struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	Component string `json:"component"`
}

// captureGlobal swaps the global logger for one writing into a buffer.
func captureGlobal(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()

	var (
		buf       bytes.Buffer
		prev      = log.Logger
		prevLevel = zerolog.GlobalLevel()
	)

	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(level)

	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	return &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []line {
	t.Helper()

	var out []line

	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}

		var l line
		require.NoError(t, json.Unmarshal([]byte(raw), &l))
		out = append(out, l)
	}

	return out
}

func TestLevels(t *testing.T) {
	buf := captureGlobal(t, zerolog.InfoLevel)

	l := stdlogger.New()
	l.Debugf("%s", "hidden")
	l.Infof("info %d", 1)
	l.Warningf("warn %d", 2)
	l.Errorf("error %d", 3)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 3, "debug must be filtered at info level")

	assert.Equal(t, "info", lines[0].Level)
	assert.Equal(t, "info 1", lines[0].Message)
	assert.Equal(t, "warn", lines[1].Level)
	assert.Equal(t, "error", lines[2].Level)
	assert.Equal(t, "error 3", lines[2].Message)
}

func TestPrintfFoldsNewlines(t *testing.T) {
	buf := captureGlobal(t, zerolog.TraceLevel)

	l := stdlogger.NewComponent("gorm", zerolog.WarnLevel)
	l.Printf("%s\n[%.3fms] [rows:%v] %s", "models.go:12", 1.5, 3, "SELECT 1")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)

	assert.Equal(t, "warn", lines[0].Level)
	assert.Equal(t, "gorm", lines[0].Component)
	assert.Equal(t, "models.go:12 [1.500ms] [rows:3] SELECT 1", lines[0].Message)
}
