package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	log := NewLogger("debug", "development")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = NewLogger("bogus", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerFormatterByEnvironment(t *testing.T) {
	log := NewLogger("info", "production")
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log = NewLogger("info", "development")
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestSlateLoggerComputed(t *testing.T) {
	log, buf := setupTestLogger()
	slateLogger := NewSlateLogger(log)

	slateLogger.LogSlateComputed(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), 12, 2, 830.0)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "slate", logEntry["component"])
	assert.Equal(t, "2026-01-15", logEntry["date"])
	assert.Equal(t, float64(12), logEntry["games"])
}

func TestSlateLoggerMatchupScored(t *testing.T) {
	log, buf := setupTestLogger()
	slateLogger := NewSlateLogger(log)

	slateLogger.LogMatchupScored(2025020500, "TOR @ MTL", 64, 88, "Head-to-head OT 40% last 5")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "TOR @ MTL", logEntry["matchup"])
	assert.Equal(t, float64(64), logEntry["confidence"])
}
