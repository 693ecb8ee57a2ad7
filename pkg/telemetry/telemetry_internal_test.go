package telemetry

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ComponentLogger(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	var buf bytes.Buffer
	tel, err := newTelemetry(Options{ServiceName: "bench"}, &buf)
	require.NoError(t, err)

	logger := tel.GetLogger("world")
	logger.Debug().Int("archetype", 3).Msg("archetype created")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "bench.world", line["component"])
	assert.Equal(t, "debug", line["level"])
	assert.InDelta(t, 3, line["archetype"], 0)
	assert.Equal(t, "archetype created", line["message"])
}

func TestNew_OptionsOverrideEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	var buf bytes.Buffer
	tel, err := newTelemetry(Options{ServiceName: "bench", LogLevel: "error"}, &buf)
	require.NoError(t, err)

	tel.Logger.Warn().Msg("filtered")
	assert.Zero(t, buf.Len(), "warn must be filtered at error level")
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		options Options
	}{
		{name: "bad level", level: "loud", format: "json", options: Options{ServiceName: "bench"}},
		{name: "bad format", level: "info", format: "xml", options: Options{ServiceName: "bench"}},
		{name: "missing service name", level: "info", format: "json", options: Options{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.level)
			t.Setenv("LOG_FORMAT", tt.format)

			_, err := newTelemetry(tt.options, &bytes.Buffer{})
			require.Error(t, err)
		})
	}
}

func TestParseLogFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LogFormatJSON, ParseLogFormat("JSON"))
	assert.Equal(t, LogFormatPretty, ParseLogFormat("pretty"))
	assert.Equal(t, LogFormatUndefined, ParseLogFormat("yaml"))
	assert.Equal(t, "pretty", LogFormatPretty.String())
}
