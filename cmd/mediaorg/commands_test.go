package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediaorganizer/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out := env.run(t, "config", "validate")
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out = env.run(t, "config", "init", "--path", target)
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse an existing file")
	}

	out = env.run(t, "config", "show")
	requireContains(t, out, "default_root")
}

func TestScanJSONAndExtensionFilter(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteTree(t, env.root, "b.mkv", "season/a.MP4", "notes.txt")

	out := env.run(t, "scan", env.root, "--json")
	var rows []scanRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}

	out = env.run(t, "scan", env.root, "--ext", "mp4")
	requireContains(t, out, "a.MP4")
	requireContains(t, out, "1 media files")
}

func TestGenresListsFixedSet(t *testing.T) {
	out, _, err := runCLI(t, []string{"genres"}, "")
	if err != nil {
		t.Fatalf("genres: %v", err)
	}
	requireContains(t, out, "Science Fiction")
	requireContains(t, out, "Western")
}

func TestStatusReportsSections(t *testing.T) {
	env := setupCLITestEnv(t)
	out := env.run(t, "status")
	requireContains(t, out, "== Configuration ==")
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "Default root")
}

func TestTreeLockPathIsStable(t *testing.T) {
	env := setupCLITestEnv(t)
	a := treeLockPath(env.cfg, env.root)
	b := treeLockPath(env.cfg, env.root+string(filepath.Separator))
	if a != b {
		t.Fatalf("lock paths differ: %s vs %s", a, b)
	}
	if filepath.Dir(a) != env.cfg.LockDir() {
		t.Fatalf("lock outside lock dir: %s", a)
	}
}

func TestLockTreeExcludesNestedTrees(t *testing.T) {
	env := setupCLITestEnv(t)
	show := filepath.Join(env.root, "Show")
	other := filepath.Join(env.root, "Other")

	unlock, err := lockTree(env.cfg, show)
	if err != nil {
		t.Fatalf("lock %s: %v", show, err)
	}

	if _, err := lockTree(env.cfg, env.root); err == nil || !strings.Contains(err.Error(), "already running") {
		t.Fatalf("parent lock err = %v, want conflict", err)
	}
	if _, err := lockTree(env.cfg, filepath.Join(show, "Season 1")); err == nil {
		t.Fatal("expected child lock to conflict")
	}
	unlockOther, err := lockTree(env.cfg, other)
	if err != nil {
		t.Fatalf("sibling lock: %v", err)
	}
	unlockOther()
	unlock()

	unlockRoot, err := lockTree(env.cfg, env.root)
	if err != nil {
		t.Fatalf("lock after release: %v", err)
	}
	unlockRoot()
}
