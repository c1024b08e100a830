package obs

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func TestTimeLogsRequestIDAndError(t *testing.T) {
	buf := captureLog(t)
	ctx := WithRequestID(context.Background(), "abc")

	err := errors.New("boom")
	Time(ctx, "geocode")(&err)

	line := buf.String()
	if !strings.Contains(line, "req_id=abc op=geocode") {
		t.Fatalf("log line = %q", line)
	}
	if !strings.Contains(line, "err=boom") {
		t.Fatalf("log line missing error: %q", line)
	}
}

func TestLogfWithoutRequestID(t *testing.T) {
	buf := captureLog(t)
	Logf(context.Background(), "row=%d degraded", 3)

	if got := strings.TrimSpace(buf.String()); got != "req_id= row=3 degraded" {
		t.Fatalf("log line = %q", got)
	}
}
