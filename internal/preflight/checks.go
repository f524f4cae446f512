package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"mediaorganizer/internal/config"
	"mediaorganizer/internal/deps"
	"mediaorganizer/internal/services"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckToolVersion runs "<binary> --version" bounded by timeout and reports
// the first line of output.
func CheckToolVersion(ctx context.Context, runner services.Executor, name, binary string, timeout time.Duration) Result {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return Result{Name: name, Detail: "command not configured"}
	}
	out, err := services.RunWithTimeout(ctx, runner, timeout, binary, "--version")
	switch {
	case errors.Is(err, services.ErrExternalToolUnavailable):
		return Result{Name: name, Detail: fmt.Sprintf("%s not found", binary)}
	case errors.Is(err, services.ErrExternalToolTimeout):
		return Result{Name: name, Detail: fmt.Sprintf("%s --version timed out after %s", binary, timeout)}
	case err != nil:
		return Result{Name: name, Detail: err.Error()}
	case out.ExitCode != 0:
		return Result{Name: name, Detail: fmt.Sprintf("%s --version exited with status %d", binary, out.ExitCode)}
	}
	return Result{Name: name, Passed: true, Detail: firstLine(out.Stdout)}
}

// CheckSystemDeps evaluates the external tools named in the configuration.
// mkvpropedit is required for Matroska tagging; the readers are optional
// because a missing reader only degrades display.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "mkvpropedit",
			Command:     cfg.Tools.MKVPropEdit,
			Description: "Required for writing Matroska titles",
		},
		{
			Name:        "mkvinfo",
			Command:     cfg.Tools.MKVInfo,
			Description: "Reads Matroska titles",
			Optional:    true,
		},
		{
			Name:        "ffprobe",
			Command:     cfg.Tools.FFprobe,
			Description: "Fallback title reader and inspect command",
			Optional:    true,
		},
	}
	return deps.CheckBinaries(requirements)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
	}
	if s == "" {
		return "available"
	}
	return s
}
