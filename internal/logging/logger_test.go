package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewJSONInProd(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Config{Format: "auto", Level: zapcore.InfoLevel, Env: "prod"})
	log.Info("registration stored", zap.String("event_id", "1"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "registration stored", line["msg"])
	assert.Equal(t, "1", line["event_id"])
}

func TestNewConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Config{Format: "console", Level: zapcore.WarnLevel})
	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "shown"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("loud"))
}

func TestContextRoundTrip(t *testing.T) {
	log := zap.NewExample()
	ctx := NewContext(context.Background(), log)
	assert.Same(t, log, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
}
