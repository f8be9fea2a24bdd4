// Package loggertest provides loggers for tests.
package loggertest

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/unclebandit/sem-planner-backend/internal/logger"
)

// New routes log output through t.
func New(t testing.TB) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}
