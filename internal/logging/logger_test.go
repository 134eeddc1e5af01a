package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger("world", &buf)

	logger.Debug("скрыто %d", 1)
	logger.Info("видно %d", 2)
	logger.Error("ошибка %s", "x")

	out := buf.String()
	assert.NotContains(t, out, "скрыто")
	assert.Contains(t, out, "[INFO] [world] видно 2")
	assert.Contains(t, out, "[ERROR] [world] ошибка x")

	buf.Reset()
	logger.SetLevels(TRACE, ERROR)
	logger.Trace("trace")
	assert.Contains(t, buf.String(), "[TRACE]")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("WARN"))
	assert.Equal(t, INFO, ParseLevel("что-то"))
}

func TestLoggerManager_ReusesComponents(t *testing.T) {
	lm := NewLoggerManager(false)

	a, err := lm.GetLogger("storage")
	require.NoError(t, err)
	b, err := lm.GetLogger("storage")
	require.NoError(t, err)
	assert.Same(t, a, b)

	lm.MustGetLogger("api")
	assert.Equal(t, []string{"api", "storage"}, lm.ListComponents())

	require.NoError(t, lm.SetLogLevel("api", DEBUG, DEBUG))
	assert.Error(t, lm.SetLogLevel("missing", DEBUG, DEBUG))
	require.NoError(t, lm.CloseAll())
	assert.Empty(t, lm.ListComponents())
}

func TestLoggerManager_FileOutput(t *testing.T) {
	old := LogDir
	LogDir = t.TempDir()
	defer func() { LogDir = old }()

	lm := NewLoggerManager(true)
	logger, err := lm.GetLogger("codec")
	require.NoError(t, err)
	logger.Debug("в файл")
	require.NoError(t, lm.CloseAll())
}

func TestHexDump(t *testing.T) {
	assert.Equal(t, "No data", HexDump(nil))
	dump := HexDump(bytes.Repeat([]byte{0xab}, 300))
	assert.True(t, strings.Contains(dump, "ab ab"))
	assert.Equal(t, 16, strings.Count(dump, "\n"))
}
