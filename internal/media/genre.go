package media

import (
	"strings"

	"golang.org/x/text/cases"
)

// Genre is one of the fixed genre labels offered for tagging.
type Genre string

const (
	GenreAction         Genre = "Action"
	GenreAdventure      Genre = "Adventure"
	GenreAnimated       Genre = "Animated"
	GenreAnime          Genre = "Anime"
	GenreComedy         Genre = "Comedy"
	GenreDrama          Genre = "Drama"
	GenreFantasy        Genre = "Fantasy"
	GenreHorror         Genre = "Horror"
	GenreMusical        Genre = "Musical"
	GenreMystery        Genre = "Mystery"
	GenreRomance        Genre = "Romance"
	GenreScienceFiction Genre = "Science Fiction"
	GenreSports         Genre = "Sports"
	GenreThriller       Genre = "Thriller"
	GenreWestern        Genre = "Western"
)

var genres = []Genre{
	GenreAction,
	GenreAdventure,
	GenreAnimated,
	GenreAnime,
	GenreComedy,
	GenreDrama,
	GenreFantasy,
	GenreHorror,
	GenreMusical,
	GenreMystery,
	GenreRomance,
	GenreScienceFiction,
	GenreSports,
	GenreThriller,
	GenreWestern,
}

// Genres returns every genre in display order.
func Genres() []Genre {
	return append([]Genre(nil), genres...)
}

// ParseGenre matches s against the genre labels, ignoring case and
// surrounding whitespace.
func ParseGenre(s string) (Genre, bool) {
	folder := cases.Fold()
	key := folder.String(strings.TrimSpace(s))
	if key == "" {
		return "", false
	}
	for _, g := range genres {
		if folder.String(string(g)) == key {
			return g, true
		}
	}
	return "", false
}

func (g Genre) String() string {
	return string(g)
}
