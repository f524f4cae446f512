package services_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mediaorganizer/internal/services"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestCommandExecutorCapturesOutputAndExitCode(t *testing.T) {
	script := writeScript(t, "echo out; echo err 1>&2; exit 3")
	result, err := services.CommandExecutor{}.Run(context.Background(), script)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", result.ExitCode)
	}
	if result.Stdout != "out\n" || result.Stderr != "err\n" {
		t.Fatalf("unexpected output: %+v", result)
	}
}

func TestCommandExecutorMissingBinary(t *testing.T) {
	_, err := services.CommandExecutor{}.Run(context.Background(), filepath.Join(t.TempDir(), "missing-tool"))
	if !errors.Is(err, services.ErrExternalToolUnavailable) {
		t.Fatalf("expected ErrExternalToolUnavailable, got %v", err)
	}
}

func TestRunWithTimeoutReportsTimeout(t *testing.T) {
	script := writeScript(t, "exec sleep 5")
	_, err := services.RunWithTimeout(context.Background(), nil, 50*time.Millisecond, script)
	if !errors.Is(err, services.ErrExternalToolTimeout) {
		t.Fatalf("expected ErrExternalToolTimeout, got %v", err)
	}
}
