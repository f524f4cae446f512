package logging

import (
	"sort"
	"strings"
)

type infoField struct {
	label string
	value string
}

// highlightRank orders the fields shown first at info level. Fields not
// listed keep their emission order after these.
var highlightRank = func() map[string]int {
	keys := []string{
		FieldAlert, FieldEventType, FieldFile, FieldTarget,
		"error", FieldErrorHint, FieldImpact,
		"succeeded", "failed", "skipped", "count",
	}
	rank := make(map[string]int, len(keys))
	for i, k := range keys {
		rank[k] = i
	}
	return rank
}()

// maxInfoValueLen hides values too long to read inline; debug output keeps them.
const maxInfoValueLen = 120

// selectInfoFields picks the fields worth showing at info level and counts
// the ones left for debug output: identifiers and overlong values.
func selectInfoFields(attrs []kv) (shown []infoField, hidden int) {
	ranked := make([]kv, 0, len(attrs))
	for _, a := range attrs {
		if _, ok := highlightRank[a.key]; !ok && isDebugOnlyKey(a.key) {
			hidden++
			continue
		}
		ranked = append(ranked, a)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return rankOf(ranked[i].key) < rankOf(ranked[j].key)
	})

	for _, a := range ranked {
		value := formatValue(a.value)
		if _, highlighted := highlightRank[a.key]; !highlighted && len(value) > maxInfoValueLen {
			hidden++
			continue
		}
		shown = append(shown, infoField{label: displayLabel(a.key), value: value})
	}
	return shown, hidden
}

func rankOf(key string) int {
	if r, ok := highlightRank[key]; ok {
		return r
	}
	return len(highlightRank)
}

func isDebugOnlyKey(key string) bool {
	switch key {
	case FieldBatchID, FieldCorrelationID, FieldOperation:
		return true
	}
	return strings.HasSuffix(key, "_id")
}

func displayLabel(key string) string {
	switch key {
	case FieldAlert:
		return "Alert"
	case FieldEventType:
		return "Event"
	case FieldErrorHint:
		return "Hint"
	}
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
