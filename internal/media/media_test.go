package media

import (
	"errors"
	"testing"
)

func TestMetadataFromMapNormalizesValues(t *testing.T) {
	meta := MetadataFromMap(map[string]any{
		"title":      "Show",
		"season":     "2",
		"episode":    float64(7),
		"genre":      GenreDrama,
		"year":       int64(2004),
		"collection": "Box Set",
		"unknown":    "ignored",
	})
	want := Metadata{Title: "Show", Season: 2, Episode: 7, Genre: "Drama", Year: 2004, Collection: "Box Set"}
	if meta != want {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestMetadataFromMapIgnoresBadValues(t *testing.T) {
	meta := MetadataFromMap(map[string]any{
		"title":   42,
		"season":  "two",
		"episode": nil,
	})
	if !meta.IsZero() {
		t.Fatalf("expected zero metadata, got %+v", meta)
	}
}

func TestMetadataFieldsRoundTrip(t *testing.T) {
	meta := Metadata{Title: "Movie", Year: 1999, Genre: "Western"}
	if got := MetadataFromMap(meta.Fields()); got != meta {
		t.Fatalf("map form lost data: %+v", got)
	}
	if meta.IsEpisodic() {
		t.Fatal("movie metadata should not be episodic")
	}
	if !(Metadata{Season: 1, Episode: 1}).IsEpisodic() {
		t.Fatal("expected season and episode to be episodic")
	}
}

func TestNewMediaFile(t *testing.T) {
	f := NewMediaFile("/library/Show/Episode.One.MKV")
	if f.OriginalName != "Episode.One.MKV" {
		t.Fatalf("unexpected original name %q", f.OriginalName)
	}
	if !f.Selected {
		t.Fatal("new entries should be selected")
	}
	if f.Extension() != ".mkv" {
		t.Fatalf("expected lower-cased extension, got %q", f.Extension())
	}
	f.Path = "/library/Show/Show S01 EP001.MKV"
	if f.Name() != "Show S01 EP001.MKV" || f.OriginalName != "Episode.One.MKV" {
		t.Fatalf("unexpected names after move: %q / %q", f.Name(), f.OriginalName)
	}
	if f.Dir() != "/library/Show" {
		t.Fatalf("unexpected dir %q", f.Dir())
	}
}

func TestResultMessages(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"rename ok", RenameResult{Success: true, OriginalPath: "/a/x.mp4", NewPath: "/a/Show S01 EP001.mp4"}.Message(), "Renamed to Show S01 EP001.mp4"},
		{"rename ok no path", RenameResult{Success: true}.Message(), "Renamed"},
		{"rename failed", RenameResult{Error: "Target file already exists: /a/b.mp4", Cause: errors.New("x")}.Message(), "Failed: Target file already exists: /a/b.mp4"},
		{"rename failed bare", RenameResult{}.Message(), "Failed"},
		{"update ok", MetadataUpdateResult{Success: true}.Message(), "Updated"},
		{"update failed", MetadataUpdateResult{Error: "unsupported file type"}.Message(), "Failed: unsupported file type"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestRenameResultUnchanged(t *testing.T) {
	if !(RenameResult{Success: true, OriginalPath: "/a", NewPath: "/a"}).Unchanged() {
		t.Fatal("expected same-path success to be unchanged")
	}
	if (RenameResult{Success: true, OriginalPath: "/a", NewPath: "/b"}).Unchanged() {
		t.Fatal("expected a move to be a change")
	}
}

func TestParseGenre(t *testing.T) {
	tests := map[string]Genre{
		"action":             GenreAction,
		"  SCIENCE fiction ": GenreScienceFiction,
		"Western":            GenreWestern,
	}
	for in, want := range tests {
		got, ok := ParseGenre(in)
		if !ok || got != want {
			t.Errorf("ParseGenre(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	for _, in := range []string{"", "Documentary", "sci-fi"} {
		if _, ok := ParseGenre(in); ok {
			t.Errorf("ParseGenre(%q) should fail", in)
		}
	}
}

func TestGenresReturnsCopy(t *testing.T) {
	list := Genres()
	if len(list) != 15 {
		t.Fatalf("expected 15 genres, got %d", len(list))
	}
	list[0] = "Changed"
	if Genres()[0] != GenreAction {
		t.Fatal("Genres must return a copy")
	}
}
