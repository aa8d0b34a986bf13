// Package logger provides slate-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// SlateLogger provides dedicated logging for slate computations.
type SlateLogger struct {
	*logrus.Entry
}

// NewSlateLogger creates a new slate logger.
func NewSlateLogger(baseLogger *logrus.Logger) *SlateLogger {
	return &SlateLogger{
		Entry: baseLogger.WithField("component", "slate"),
	}
}

// LogSlateComputed logs a completed slate computation.
func (sl *SlateLogger) LogSlateComputed(date time.Time, games, skipped int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"date":        date.Format("2006-01-02"),
		"games":       games,
		"skipped":     skipped,
		"duration_ms": durationMs,
	}).Info("Slate computation completed")
}

// LogMatchupScored logs one scored matchup.
func (sl *SlateLogger) LogMatchupScored(gamePK int64, label string, confidence, dataConfidence int, reason string) {
	sl.WithFields(logrus.Fields{
		"game_pk":         gamePK,
		"matchup":         label,
		"confidence":      confidence,
		"data_confidence": dataConfidence,
		"reason":          reason,
	}).Info("Matchup scored")
}

// LogMatchupSkipped logs a matchup excluded by risk flags.
func (sl *SlateLogger) LogMatchupSkipped(gamePK int64, label, reason string) {
	sl.WithFields(logrus.Fields{
		"game_pk": gamePK,
		"matchup": label,
		"reason":  reason,
	}).Info("Matchup skipped")
}
