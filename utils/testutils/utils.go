package testutils

import (
	"strings"
	"testing"

	"github.com/benoitkugler/boxtree/logger"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func AssertEqual(t *testing.T, got, exp interface{}) {
	t.Helper()
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Fatalf("unexpected value (-want +got):\n%s", diff)
	}
}

// CapturedLogs stores the messages emitted by the package loggers.
type CapturedLogs struct {
	logs *observer.ObservedLogs
}

// CaptureLogs redirects the loggers until the returned
// value is checked.
func CaptureLogs() *CapturedLogs {
	core, logs := observer.New(zap.DebugLevel)
	logger.ConfigureWithCore(core)
	return &CapturedLogs{logs: logs}
}

// Logs returns the captured messages and restores the default loggers.
func (c *CapturedLogs) Logs() []string {
	logger.Configure(logger.Config{Level: "info"})
	var out []string
	for _, entry := range c.logs.All() {
		if entry.LoggerName == "boxtree.progress" {
			continue
		}
		out = append(out, entry.Message)
	}
	return out
}

func (c *CapturedLogs) AssertNoLogs(t *testing.T) {
	t.Helper()
	if l := c.Logs(); len(l) > 0 {
		t.Fatalf("expected no warnings, got\n%s", strings.Join(l, "\n"))
	}
}

// CheckLogs asserts that each captured warning contains the
// corresponding expected substring.
func (c *CapturedLogs) CheckLogs(t *testing.T, expected ...string) {
	t.Helper()
	logs := c.Logs()
	if len(logs) != len(expected) {
		t.Fatalf("expected %d warnings, got %d:\n%s", len(expected), len(logs), strings.Join(logs, "\n"))
	}
	for i, exp := range expected {
		if !strings.Contains(logs[i], exp) {
			t.Fatalf("expected %q in %q", exp, logs[i])
		}
	}
}
