package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestOpenWritesSessionFile(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "debug", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.WithField("category", "cafes").Debug("hello")
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "category=cafes") {
		t.Fatalf("expected structured field in log, got %q", data)
	}
}

func TestOpenFallsBackToWriter(t *testing.T) {
	var buf bytes.Buffer
	s, err := Open("", "bogus", &buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Debug("hidden")
	s.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if s.Close() != nil {
		t.Fatalf("expected nil close without file")
	}
}
