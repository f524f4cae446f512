package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mediaorganizer/internal/config"
	"mediaorganizer/internal/services"
)

type stubExecutor struct {
	result services.CommandResult
	err    error
	calls  [][]string
}

func (s *stubExecutor) Run(_ context.Context, binary string, args ...string) (services.CommandResult, error) {
	s.calls = append(s.calls, append([]string{binary}, args...))
	return s.result, s.err
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckToolVersion(t *testing.T) {
	ok := &stubExecutor{result: services.CommandResult{Stdout: "mkvpropedit v82.0 ('I'm The Widow')\nextra"}}
	result := CheckToolVersion(context.Background(), ok, "mkvpropedit", "mkvpropedit", time.Second)
	if !result.Passed || result.Detail != "mkvpropedit v82.0 ('I'm The Widow')" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if got := strings.Join(ok.calls[0], " "); got != "mkvpropedit --version" {
		t.Fatalf("unexpected invocation %q", got)
	}

	cases := []struct {
		name string
		exec *stubExecutor
		want string
	}{
		{"missing", &stubExecutor{err: services.ErrExternalToolUnavailable}, "not found"},
		{"timeout", &stubExecutor{err: services.ErrExternalToolTimeout}, "timed out"},
		{"exit", &stubExecutor{result: services.CommandResult{ExitCode: 2}}, "status 2"},
	}
	for _, tc := range cases {
		result := CheckToolVersion(context.Background(), tc.exec, "mkvpropedit", "mkvpropedit", time.Second)
		if result.Passed || !strings.Contains(result.Detail, tc.want) {
			t.Errorf("%s: unexpected result %+v", tc.name, result)
		}
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, nil); results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}

func TestRunAll_SkipsStateDirWhenJournalDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DefaultRoot = t.TempDir()
	cfg.Paths.StateDir = t.TempDir()
	exec := &stubExecutor{result: services.CommandResult{Stdout: "v1"}}

	results := RunAll(context.Background(), &cfg, exec)
	if len(results) != 3 {
		t.Fatalf("expected 3 results with journal enabled, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Fatalf("expected %s to pass: %s", r.Name, r.Detail)
		}
	}

	cfg.Journal.Enabled = false
	results = RunAll(context.Background(), &cfg, exec)
	if len(results) != 2 {
		t.Fatalf("expected 2 results with journal disabled, got %d", len(results))
	}
}

func TestCheckSystemDeps(t *testing.T) {
	binDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(binDir, "mkvpropedit"), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir)
	cfg := config.Default()

	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available {
		t.Fatalf("expected mkvpropedit available: %+v", statuses[0])
	}
	if statuses[1].Available || !statuses[1].Optional {
		t.Fatalf("expected mkvinfo optional and missing: %+v", statuses[1])
	}
}
