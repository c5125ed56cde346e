package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/tourguide/internal/pkg/logging"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("bogus"))
}

func TestNew_JSONCarriesService(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, "tourguide-api", "info", "json")

	logger.Debug("hidden")
	logger.Info("reward granted", "points", 42)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "reward granted", rec["msg"])
	assert.Equal(t, "tourguide-api", rec["service"])
	assert.EqualValues(t, 42, rec["points"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logging.New(&buf, "", "debug", "text").Debug("tracking", "traveler", "internalUser0")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "traveler=internalUser0")
	assert.NotContains(t, out, "service=")
}
