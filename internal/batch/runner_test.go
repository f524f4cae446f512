package batch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"mediaorganizer/internal/batch"
	"mediaorganizer/internal/config"
	"mediaorganizer/internal/journal"
	"mediaorganizer/internal/media"
	"mediaorganizer/internal/services"
	"mediaorganizer/internal/testsupport"
)

type recordingUpdater struct {
	mu    sync.Mutex
	calls []update
	fail  map[string]bool
}

type update struct {
	path string
	meta media.Metadata
}

func (u *recordingUpdater) UpdateMetadata(_ context.Context, path string, meta media.Metadata) media.MetadataUpdateResult {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, update{path: path, meta: meta})
	if u.fail[filepath.Base(path)] {
		return media.MetadataUpdateResult{FilePath: path, Error: "editor write failed", Cause: services.ErrEditorWriteFailed}
	}
	return media.MetadataUpdateResult{Success: true, FilePath: path}
}

func (u *recordingUpdater) episodes() []int {
	out := make([]int, 0, len(u.calls))
	for _, c := range u.calls {
		out = append(out, c.meta.Episode)
	}
	return out
}

type fixture struct {
	cfg     *config.Config
	root    string
	journal *journal.Journal
	updater *recordingUpdater
	runner  *batch.Runner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	j := testsupport.MustOpenJournal(t, cfg)
	updater := &recordingUpdater{fail: map[string]bool{}}
	return &fixture{
		cfg:     cfg,
		root:    cfg.Paths.DefaultRoot,
		journal: j,
		updater: updater,
		runner:  batch.NewRunner(batch.NewRenamerFactory(cfg.Naming, nil), updater, j, nil),
	}
}

func (f *fixture) files(t *testing.T, names ...string) []*media.MediaFile {
	t.Helper()
	paths := testsupport.WriteTree(t, f.root, names...)
	out := make([]*media.MediaFile, 0, len(paths))
	for _, p := range paths {
		out = append(out, media.NewMediaFile(p))
	}
	return out
}

func episodesOf(summary batch.Summary) []int {
	out := make([]int, 0, len(summary.Events))
	for _, ev := range summary.Events {
		out = append(out, ev.Episode)
	}
	return out
}

func TestRenameAllAdvancesEpisodeOnlyAfterSuccess(t *testing.T) {
	f := newFixture(t)
	files := f.files(t, "a.mkv", "b.mkv", "c.mkv")
	if err := os.Remove(files[0].Path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	summary, err := f.runner.RenameAll(context.Background(), files, batch.RenameRequest{
		Root: f.root, Title: "Show", Season: 1, Episode: 5, Episodic: true,
	}, nil)
	if err != nil {
		t.Fatalf("RenameAll: %v", err)
	}
	if got := episodesOf(summary); !slices.Equal(got, []int{5, 5, 6}) {
		t.Fatalf("episodes = %v, want [5 5 6]", got)
	}
	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Fatalf("succeeded=%d failed=%d", summary.Succeeded, summary.Failed)
	}
	for _, name := range []string{"Show S01 EP005.mkv", "Show S01 EP006.mkv"} {
		if !exists(filepath.Join(f.root, name)) {
			t.Fatalf("expected %s to exist", name)
		}
	}
	if files[1].Path != filepath.Join(f.root, "Show S01 EP005.mkv") {
		t.Fatalf("entry path not updated: %s", files[1].Path)
	}
}

func TestRenameAllDryRunAssumesSuccess(t *testing.T) {
	f := newFixture(t)
	files := f.files(t, "a.mkv", "b.mkv", "Show S01 EP002.mkv")

	summary, err := f.runner.RenameAll(context.Background(), files[:2], batch.RenameRequest{
		Root: f.root, Title: "Show", Season: 1, Episode: 1, Episodic: true, DryRun: true,
	}, nil)
	if err != nil {
		t.Fatalf("RenameAll: %v", err)
	}
	if got := episodesOf(summary); !slices.Equal(got, []int{1, 2}) {
		t.Fatalf("episodes = %v", got)
	}
	if !summary.Events[1].Collides {
		t.Fatalf("expected second plan to collide: %+v", summary.Events[1])
	}
	if !exists(files[0].Path) || !exists(files[1].Path) {
		t.Fatal("dry run moved files")
	}
	batches, err := f.journal.ListBatches(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListBatches: %v", err)
	}
	if len(batches) != 0 {
		t.Fatalf("dry run was journaled: %+v", batches)
	}
}

func TestRenameAllSkipsUnselectedAndReportsProgress(t *testing.T) {
	f := newFixture(t)
	files := f.files(t, "a.mp4", "b.mp4")
	files[0].Selected = false

	var events []batch.Event
	summary, err := f.runner.RenameAll(context.Background(), files, batch.RenameRequest{
		Title: "Movie", Year: 2002, IncludeYear: true,
	}, func(ev batch.Event) { events = append(events, ev) })
	if err != nil {
		t.Fatalf("RenameAll: %v", err)
	}
	if summary.Skipped != 1 || summary.Total != 1 || len(events) != 1 {
		t.Fatalf("summary=%+v events=%d", summary, len(events))
	}
	if events[0].Target != filepath.Join(f.root, "Movie (2002).mp4") {
		t.Fatalf("target = %s", events[0].Target)
	}
	if summary.BatchID == "" {
		t.Fatal("expected a batch id")
	}
	ops, err := f.journal.Operations(context.Background(), summary.BatchID)
	if err != nil {
		t.Fatalf("Operations: %v", err)
	}
	if len(ops) != 1 || !ops[0].Moved() {
		t.Fatalf("ops = %+v", ops)
	}
}

func TestRenameAllRejectsInvalidRequests(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		req  batch.RenameRequest
	}{
		{"blank title", batch.RenameRequest{Title: "  "}},
		{"negative episode", batch.RenameRequest{Title: "Show", Season: 1, Episode: -1, Episodic: true}},
		{"bad padding", batch.RenameRequest{Title: "Show", Padding: 4}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.runner.RenameAll(context.Background(), nil, tc.req, nil)
			if !errors.Is(err, services.ErrInvalidArgument) {
				t.Fatalf("err = %v, want invalid argument", err)
			}
		})
	}
}

func TestRenameAllStopsWhenCancelled(t *testing.T) {
	f := newFixture(t)
	files := f.files(t, "a.mkv", "b.mkv")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := f.runner.RenameAll(ctx, files, batch.RenameRequest{Title: "Show", Season: 1, Episode: 1, Episodic: true}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if !summary.Cancelled || len(summary.Events) != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if !exists(files[0].Path) {
		t.Fatal("file moved after cancellation")
	}
	batches, err := f.journal.ListBatches(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListBatches: %v", err)
	}
	if len(batches) != 0 {
		t.Fatalf("cancelled batch was journaled: %+v", batches)
	}
}

// cancellingUpdater cancels the batch while its first update is in flight.
type cancellingUpdater struct {
	cancel context.CancelFunc
}

func (u cancellingUpdater) UpdateMetadata(_ context.Context, path string, _ media.Metadata) media.MetadataUpdateResult {
	u.cancel()
	return media.MetadataUpdateResult{Success: true, FilePath: path}
}

func TestCancelledBatchStillJournalsFinishedFile(t *testing.T) {
	f := newFixture(t)
	files := f.files(t, "a.mkv", "b.mkv")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner := batch.NewRunner(batch.NewRenamerFactory(f.cfg.Naming, nil), cancellingUpdater{cancel: cancel}, f.journal, nil)

	summary, err := runner.TagAll(ctx, files, batch.TagRequest{Metadata: media.Metadata{Title: "Show"}}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if !summary.Cancelled || summary.Succeeded != 1 || len(summary.Events) != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	ops, err := f.journal.Operations(context.Background(), summary.BatchID)
	if err != nil {
		t.Fatalf("Operations: %v", err)
	}
	if len(ops) != 1 || ops[0].Source != files[0].Path || !ops[0].Success {
		t.Fatalf("ops = %+v", ops)
	}
}

func TestTagAllNumbersFromStart(t *testing.T) {
	f := newFixture(t)
	files := f.files(t, "a.mkv", "b.mkv", "c.mkv")
	files[1].Selected = false

	summary, err := f.runner.TagAll(context.Background(), files, batch.TagRequest{
		Metadata: media.Metadata{Title: "Show", Season: 2, Episode: 3, Genre: "science fiction"},
	}, nil)
	if err != nil {
		t.Fatalf("TagAll: %v", err)
	}
	if got := f.updater.episodes(); !slices.Equal(got, []int{3, 4}) {
		t.Fatalf("episodes = %v, want [3 4]", got)
	}
	if f.updater.calls[0].meta.Genre != "Science Fiction" {
		t.Fatalf("genre = %q", f.updater.calls[0].meta.Genre)
	}
	if summary.Succeeded != 2 || summary.Skipped != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if files[2].Metadata.Episode != 4 {
		t.Fatalf("entry metadata not updated: %+v", files[2].Metadata)
	}
}

func TestTagAllMovieKeepsEpisodeZero(t *testing.T) {
	f := newFixture(t)
	files := f.files(t, "a.mp4", "b.mp4")

	if _, err := f.runner.TagAll(context.Background(), files, batch.TagRequest{
		Metadata: media.Metadata{Title: "Movie", Year: 1999},
	}, nil); err != nil {
		t.Fatalf("TagAll: %v", err)
	}
	if got := f.updater.episodes(); !slices.Equal(got, []int{0, 0}) {
		t.Fatalf("episodes = %v", got)
	}
}

func TestTagAllRejectsUnknownGenre(t *testing.T) {
	f := newFixture(t)
	_, err := f.runner.TagAll(context.Background(), f.files(t, "a.mkv"), batch.TagRequest{
		Metadata: media.Metadata{Title: "Show", Genre: "Polka"},
	}, nil)
	if !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
	if len(f.updater.calls) != 0 {
		t.Fatal("updater called for invalid request")
	}
}

func TestOrganizeAllTagsRenamedPaths(t *testing.T) {
	f := newFixture(t)
	files := f.files(t, "a.mkv", "b.mkv", "c.mkv")
	if err := os.Remove(files[1].Path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	f.updater.fail["Show S01 EP002.mkv"] = true

	summary, err := f.runner.OrganizeAll(context.Background(), files, batch.OrganizeRequest{
		RenameRequest: batch.RenameRequest{Root: f.root, Title: "Show", Season: 1, Episode: 1, Episodic: true},
		Genre:         "drama",
	}, nil)
	if err != nil {
		t.Fatalf("OrganizeAll: %v", err)
	}
	if len(f.updater.calls) != 2 {
		t.Fatalf("updater calls = %d, want 2", len(f.updater.calls))
	}
	first, second := f.updater.calls[0], f.updater.calls[1]
	if first.path != filepath.Join(f.root, "Show S01 EP001.mkv") || first.meta.Episode != 1 {
		t.Fatalf("first call = %+v", first)
	}
	if second.path != filepath.Join(f.root, "Show S01 EP002.mkv") || second.meta.Episode != 2 {
		t.Fatalf("second call = %+v", second)
	}
	if first.meta.Genre != "Drama" || first.meta.Title != "Show" {
		t.Fatalf("metadata = %+v", first.meta)
	}
	if summary.Succeeded != 1 || summary.Failed != 2 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestUndoRestoresOriginalNames(t *testing.T) {
	f := newFixture(t)
	files := f.files(t, "a.mkv", "b.mkv")
	originals := []string{files[0].Path, files[1].Path}
	ctx := context.Background()

	renamed, err := f.runner.RenameAll(ctx, files, batch.RenameRequest{Root: f.root, Title: "Show", Season: 1, Episode: 1, Episodic: true}, nil)
	if err != nil {
		t.Fatalf("RenameAll: %v", err)
	}

	summary, err := f.runner.Undo(ctx, "", nil)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if summary.Succeeded != 2 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	for _, p := range originals {
		if !exists(p) {
			t.Fatalf("%s not restored", p)
		}
	}

	b, err := f.journal.GetBatch(ctx, renamed.BatchID)
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if !b.Undone() {
		t.Fatal("batch not marked undone")
	}
	if _, err := f.runner.Undo(ctx, renamed.BatchID, nil); !errors.Is(err, batch.ErrAlreadyUndone) {
		t.Fatalf("second undo err = %v", err)
	}
	if _, err := f.runner.Undo(ctx, "", nil); !errors.Is(err, journal.ErrBatchNotFound) {
		t.Fatalf("undo with nothing left err = %v", err)
	}
}

func TestUndoLeavesBatchOpenOnFailure(t *testing.T) {
	f := newFixture(t)
	files := f.files(t, "a.mkv")
	original := files[0].Path
	ctx := context.Background()

	renamed, err := f.runner.RenameAll(ctx, files, batch.RenameRequest{Title: "Show", Season: 1, Episode: 1, Episodic: true}, nil)
	if err != nil {
		t.Fatalf("RenameAll: %v", err)
	}
	testsupport.WriteFile(t, original, 4)

	summary, err := f.runner.Undo(ctx, renamed.BatchID[:8], nil)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	b, err := f.journal.GetBatch(ctx, renamed.BatchID)
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if b.Undone() {
		t.Fatal("batch marked undone after a failed move")
	}
}

func TestUndoRetryFinishesPartialUndo(t *testing.T) {
	f := newFixture(t)
	files := f.files(t, "a.mkv", "b.mkv")
	originals := []string{files[0].Path, files[1].Path}
	ctx := context.Background()

	renamed, err := f.runner.RenameAll(ctx, files, batch.RenameRequest{Title: "Show", Season: 1, Episode: 1, Episodic: true}, nil)
	if err != nil {
		t.Fatalf("RenameAll: %v", err)
	}
	testsupport.WriteFile(t, originals[1], 4)

	first, err := f.runner.Undo(ctx, renamed.BatchID, nil)
	if err != nil {
		t.Fatalf("first Undo: %v", err)
	}
	if first.Succeeded != 1 || first.Failed != 1 {
		t.Fatalf("first undo = %+v", first)
	}

	if err := os.Remove(originals[1]); err != nil {
		t.Fatalf("remove blocker: %v", err)
	}
	second, err := f.runner.Undo(ctx, renamed.BatchID, nil)
	if err != nil {
		t.Fatalf("second Undo: %v", err)
	}
	if second.Succeeded != 2 || second.Failed != 0 {
		t.Fatalf("second undo = %+v", second)
	}
	for _, p := range originals {
		if !exists(p) {
			t.Fatalf("expected %s restored", p)
		}
	}
	b, err := f.journal.GetBatch(ctx, renamed.BatchID)
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if !b.Undone() {
		t.Fatal("batch not marked undone after the retry")
	}
}

func TestUndoRejectsMetadataBatches(t *testing.T) {
	f := newFixture(t)
	tagged, err := f.runner.TagAll(context.Background(), f.files(t, "a.mkv"), batch.TagRequest{Metadata: media.Metadata{Title: "Show"}}, nil)
	if err != nil {
		t.Fatalf("TagAll: %v", err)
	}
	if _, err := f.runner.Undo(context.Background(), tagged.BatchID, nil); !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunnerWithoutJournal(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithJournalDisabled())
	runner := batch.NewRunner(batch.NewRenamerFactory(cfg.Naming, nil), nil, nil, nil)
	paths := testsupport.WriteTree(t, cfg.Paths.DefaultRoot, "a.mkv")

	summary, err := runner.RenameAll(context.Background(), []*media.MediaFile{media.NewMediaFile(paths[0])}, batch.RenameRequest{Title: "Movie"}, nil)
	if err != nil {
		t.Fatalf("RenameAll: %v", err)
	}
	if summary.BatchID == "" || summary.Succeeded != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if _, err := runner.Undo(context.Background(), "", nil); !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("undo err = %v", err)
	}
	if _, err := runner.TagAll(context.Background(), nil, batch.TagRequest{}, nil); !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("tag err = %v", err)
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
