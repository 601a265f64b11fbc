package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_ConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Console: &buf})

	logger.Debug("hidden at info level")
	logger.Info("submission stored", zap.Int64("id", 7))
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden at info level") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "submission stored") {
		t.Errorf("info line missing: %q", out)
	}
}

func TestNew_Debug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Console: &buf, Debug: true})

	logger.Debug("update received")
	_ = logger.Sync()

	if !strings.Contains(buf.String(), "update received") {
		t.Errorf("debug line missing: %q", buf.String())
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scout.log")
	var buf bytes.Buffer
	logger := New(Options{File: path, Console: &buf})

	logger.Warn("notification failed", zap.Int64("operator_id", 111))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var entry map[string]any
	line := strings.TrimSpace(strings.Split(string(data), "\n")[0])
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, line)
	}
	if entry["message"] != "notification failed" {
		t.Errorf("message = %v, want %q", entry["message"], "notification failed")
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entry["level"])
	}
	if !strings.Contains(buf.String(), "notification failed") {
		t.Errorf("console copy missing: %q", buf.String())
	}
}
