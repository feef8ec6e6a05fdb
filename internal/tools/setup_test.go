package tools

import (
	"github.com/BangRocket/mypalclara/internal/log"
)

// testLogger returns a no-op logger for testing.
func testLogger() log.Logger {
	return log.NewNop()
}
