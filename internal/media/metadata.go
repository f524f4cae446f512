package media

import (
	"math"
	"strconv"
	"strings"
)

// Metadata is the descriptive information written into or read from a media
// container. Zero values mean unset.
type Metadata struct {
	Title      string `json:"title"`
	Season     int    `json:"season"`
	Episode    int    `json:"episode"`
	Genre      string `json:"genre"`
	Year       int    `json:"year"`
	Collection string `json:"collection"`
}

// IsZero reports whether every field is unset.
func (m Metadata) IsZero() bool {
	return m == Metadata{}
}

// IsEpisodic reports whether both season and episode are set.
func (m Metadata) IsEpisodic() bool {
	return m.Season > 0 && m.Episode > 0
}

// Fields returns the record as a map keyed by field name.
func (m Metadata) Fields() map[string]any {
	return map[string]any{
		"title":      m.Title,
		"season":     m.Season,
		"episode":    m.Episode,
		"genre":      m.Genre,
		"year":       m.Year,
		"collection": m.Collection,
	}
}

// MetadataFromMap builds a record from its map form. Missing or unusable
// values leave the field unset and unknown keys are ignored.
func MetadataFromMap(values map[string]any) Metadata {
	return Metadata{
		Title:      stringValue(values["title"]),
		Season:     intValue(values["season"]),
		Episode:    intValue(values["episode"]),
		Genre:      stringValue(values["genre"]),
		Year:       intValue(values["year"]),
		Collection: stringValue(values["collection"]),
	}
}

func stringValue(v any) string {
	switch typed := v.(type) {
	case string:
		return typed
	case []byte:
		return string(typed)
	case Genre:
		return string(typed)
	default:
		return ""
	}
}

func intValue(v any) int {
	switch typed := v.(type) {
	case int:
		return typed
	case int32:
		return int(typed)
	case int64:
		return int(typed)
	case uint32:
		return int(typed)
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return 0
		}
		return int(typed)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
