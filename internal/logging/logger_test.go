package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediaorganizer/internal/config"
	"mediaorganizer/internal/logging"
	"mediaorganizer/internal/services"
)

func TestConsoleLoggerRendersComponentAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	renamer := logging.NewComponentLogger(logger, "renamer")
	renamer.Info("renamed file",
		logging.String(logging.FieldFile, "/media/a.mkv"),
		logging.String(logging.FieldBatchID, "hidden-at-info"),
	)

	content := readFile(t, logPath)
	if !strings.Contains(content, "INFO [renamer] – renamed file") {
		t.Fatalf("expected header with component, got %q", content)
	}
	if !strings.Contains(content, "    - File: /media/a.mkv") {
		t.Fatalf("expected file field, got %q", content)
	}
	if strings.Contains(content, "hidden-at-info") {
		t.Fatalf("batch id should be debug-only, got %q", content)
	}
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information at info level, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("probe", logging.String(logging.FieldBatchID, "b-7"))

	content := readFile(t, logPath)
	if !strings.Contains(content, "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
	if !strings.Contains(content, "batch_id: b-7") {
		t.Fatalf("expected every attribute at debug level, got %q", content)
	}
}

func TestJSONLoggerWritesStructuredRecords(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithOperation(services.WithBatchID(context.Background(), "b-42"), "rename")
	logging.ErrorWithContext(logging.WithContext(ctx, logger), "rename failed", "rename_failed",
		logging.Error(errors.New("target exists")),
	)

	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readFile(t, logPath))), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	want := map[string]string{
		"level":                "error",
		"msg":                  "rename failed",
		logging.FieldBatchID:   "b-42",
		logging.FieldOperation: "rename",
		logging.FieldEventType: "rename_failed",
		logging.FieldErrorHint: "check logs for details",
		"error":                "target exists",
	}
	for key, value := range want {
		if record[key] != value {
			t.Errorf("field %s: got %v want %q", key, record[key], value)
		}
	}
	if _, ok := record["ts"]; !ok {
		t.Error("expected ts field")
	}
}

func TestWarnWithContextFillsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "skipped", "scan_skipped", logging.String(logging.FieldImpact, "subtree not scanned"))

	content := readFile(t, logPath)
	for _, want := range []string{`"event_type":"scan_skipped"`, `"impact":"subtree not scanned"`, `"error_hint"`} {
		if !strings.Contains(content, want) {
			t.Errorf("expected %s in %s", want, content)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesRotatedJSONFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Level = "info"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("started", logging.String(logging.FieldComponent, "cli"))
	logger.Debug("suppressed")

	content := readFile(t, filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if !strings.Contains(content, `"msg":"started"`) {
		t.Fatalf("expected JSON record in log file, got %q", content)
	}
	if strings.Contains(content, "suppressed") {
		t.Fatalf("debug record should be filtered at info level, got %q", content)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewComponentLogger(nil, "scanner")
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger should never be enabled")
	}
	logger.Error("ignored")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
