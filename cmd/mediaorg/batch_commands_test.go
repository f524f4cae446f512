package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"mediaorganizer/internal/batch"
	"mediaorganizer/internal/media"
	"mediaorganizer/internal/testsupport"
)

func TestRenameDryRunLeavesFilesInPlace(t *testing.T) {
	env := setupCLITestEnv(t)
	paths := testsupport.WriteTree(t, env.root, "b.mkv", "a.mkv")

	out := env.run(t, "rename", env.root, "--title", "Show", "--season", "2", "--episode", "5", "--dry-run")
	requireContains(t, out, "Would rename to "+filepath.Join(env.root, "Show S02 EP005.mkv"))
	requireContains(t, out, "Would rename 2 of 2 files")
	for _, p := range paths {
		requireExists(t, p)
	}
}

func TestRenameThenUndo(t *testing.T) {
	env := setupCLITestEnv(t)
	paths := testsupport.WriteTree(t, env.root, "a.mkv", "b.mkv")

	out := env.run(t, "rename", env.root, "--title", "Show", "--episode", "1", "--padding", "2")
	requireContains(t, out, "Renamed 2 of 2 files")
	requireExists(t, filepath.Join(env.root, "Show S01 EP01.mkv"))
	requireExists(t, filepath.Join(env.root, "Show S01 EP02.mkv"))

	out = env.run(t, "history")
	requireContains(t, out, "rename")

	out = env.run(t, "undo")
	requireContains(t, out, "Restored 2 of 2 files")
	for _, p := range paths {
		requireExists(t, p)
	}

	if _, _, err := runCLI(t, []string{"undo"}, env.configPath); err == nil {
		t.Fatal("expected second undo to fail")
	}
}

func TestRenameMovieJSONSummary(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteTree(t, env.root, "rip.mp4")

	out := env.run(t, "rename", env.root, "--title", "Heat", "--movie", "--year", "1995", "--include-year", "--json")
	var summary batch.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, out)
	}
	if summary.Succeeded != 1 || summary.BatchID == "" {
		t.Fatalf("summary = %+v", summary)
	}
	requireExists(t, filepath.Join(env.root, "Heat (1995).mp4"))
}

func TestRenameRequiresTitle(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"rename", env.root}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "title") {
		t.Fatalf("err = %v", err)
	}
}

func TestRenameRefusesLockedTree(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteTree(t, env.root, "a.mkv")

	unlock, err := lockTree(env.cfg, env.root)
	if err != nil {
		t.Fatalf("lockTree: %v", err)
	}
	defer unlock()

	_, _, err = runCLI(t, []string{"rename", env.root, "--title", "Show"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Fatalf("err = %v", err)
	}
	requireExists(t, filepath.Join(env.root, "a.mkv"))
}

func TestTagThenShowMP4(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.root, "show.mp4")
	testsupport.WriteMP4(t, path, testsupport.MP4Options{})
	testsupport.WriteTree(t, env.root, "other.avi")

	out := env.run(t, "tag", env.root, "--title", "Show", "--season", "2", "--episode", "3", "--genre", "drama", "--ext", "mp4")
	requireContains(t, out, "Tagged 1 of 1 files")

	out = env.run(t, "show", path, "--json")
	var meta media.Metadata
	if err := json.Unmarshal([]byte(out), &meta); err != nil {
		t.Fatalf("decode metadata: %v\n%s", err, out)
	}
	want := media.Metadata{Title: "Show S02 EP003", Season: 2, Episode: 3, Genre: "Drama"}
	if meta != want {
		t.Fatalf("metadata = %+v, want %+v", meta, want)
	}
}

func TestTagRejectsUnknownGenre(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteTree(t, env.root, "a.mkv")
	_, _, err := runCLI(t, []string{"tag", env.root, "--title", "Show", "--genre", "polka"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "unknown genre") {
		t.Fatalf("err = %v", err)
	}
}

func TestOrganizeRenamesAndTags(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteMP4(t, filepath.Join(env.root, "raw.mp4"), testsupport.MP4Options{MoovAfterMdat: true})

	out := env.run(t, "organize", env.root, "--title", "Show", "--season", "1", "--episode", "7")
	requireContains(t, out, "Organized 1 of 1 files")

	renamed := filepath.Join(env.root, "Show S01 EP007.mp4")
	out = env.run(t, "show", renamed, "--json")
	var meta media.Metadata
	if err := json.Unmarshal([]byte(out), &meta); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if meta.Title != "Show S01 EP007" || meta.Episode != 7 {
		t.Fatalf("metadata = %+v", meta)
	}
}

func TestHistoryRequiresJournal(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithJournalDisabled())
	_, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "journal is disabled") {
		t.Fatalf("err = %v", err)
	}
}
