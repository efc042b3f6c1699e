// internal/common/logger/logger_test.go
package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestZapAdapter_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).
		WithFields(map[string]interface{}{"taskType": "select-top-facilities"}).
		WithError(errors.New("pool empty"))

	log.Info("selection complete", map[string]interface{}{
		"recommendations": 5,
		"cause":           errors.New("none"),
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "selection complete", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "select-top-facilities", ctx["taskType"])
	assert.Equal(t, "pool empty", ctx["error"])
	assert.Equal(t, "none", ctx["cause"])
	assert.EqualValues(t, 5, ctx["recommendations"])
}

func TestMapToZapFields_SortedKeys(t *testing.T) {
	fields := mapToZapFields(map[string]interface{}{"b": 1, "a": 2, "c": 3})

	require.Len(t, fields, 3)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "b", fields[1].Key)
	assert.Equal(t, "c", fields[2].Key)
	assert.Nil(t, mapToZapFields(nil))
}

func TestNewStructured_Builds(t *testing.T) {
	assert.NotNil(t, NewStructured("info", "json"))
	assert.NotNil(t, NewStructured("debug", "console", "stderr"))
	NewTestLogger(t).Debug("test logger", nil)
	NewNoOpLogger().Error("dropped", map[string]interface{}{"k": "v"})
}
