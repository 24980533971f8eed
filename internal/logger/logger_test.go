package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]interface{}{"order_id", 7, "access_token", "abc", "Password", "x", "dangling"})
	assert.Equal(t, []interface{}{"order_id", 7, "access_token", "[REDACTED]", "Password", "[REDACTED]", "dangling"}, got)
}

func TestWith_CarriesFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("component", "checkout").Info("order placed", "order_number", "ORD1")
	l.Debug("dropped")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "checkout", ctx["component"])
		assert.Equal(t, "ORD1", ctx["order_number"])
	}
}
