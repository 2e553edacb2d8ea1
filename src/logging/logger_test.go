package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	saved := baseLogger
	baseLogger = log.New(&buf, "", 0)
	t.Cleanup(func() { baseLogger = saved })
	return &buf
}

func TestInfofNoDoubleFormattingWithPercent(t *testing.T) {
	buf := capture(t)
	SetLevel("info")

	msg := "[POST] /api/simulation -> 200 executed in 1.2s (100.0% cached)"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "(100.0% cached)") {
		t.Fatalf("log output missing percent segment: %s", out)
	}
	if strings.Contains(out, "(MISSING)") {
		t.Fatalf("log output shows fmt artifact: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)

	SetLevel("warn")
	Infof("hidden")
	Warnf("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line logged at warn level: %s", out)
	}
	if !strings.Contains(out, "[WARN] shown") {
		t.Fatalf("warn line missing: %s", out)
	}

	SetLevel("bogus")
	if GetLevel() != LevelWarn {
		t.Fatalf("unknown level name changed the level to %v", GetLevel())
	}
	SetLevel("info")
}
