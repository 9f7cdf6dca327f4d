package feed

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lysyi3m/rss-merge/app/config"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run returns the entries that pass every filter, in their original order,
// and the number of entries that were dropped.
func (f *Filterer) Run(entries []RawEntry, filters []config.Filter) ([]RawEntry, int) {
	if len(filters) == 0 {
		return entries, 0
	}

	kept := make([]RawEntry, 0, len(entries))
	for _, entry := range entries {
		if isFiltered, reason := f.applyFilters(entry, filters); isFiltered {
			slog.Debug("Entry filtered", "link", entry.Link, "title", entry.Title, "reason", reason)
			continue
		}
		kept = append(kept, entry)
	}

	return kept, len(entries) - len(kept)
}

func (f *Filterer) applyFilters(entry RawEntry, filters []config.Filter) (bool, string) {
	for _, filter := range filters {
		value := f.getFieldValue(entry, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, exclude)
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true, fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
			}
		}
	}

	return false, ""
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(entry RawEntry, field string) string {
	switch field {
	case config.FieldTitle:
		return entry.Title
	case config.FieldContent:
		return strings.Join(append(append([]string(nil), entry.Contents...), entry.Summary), " ")
	case config.FieldAuthors:
		return entry.Author
	case config.FieldLink:
		return entry.Link
	case config.FieldTags:
		return strings.Join(entry.Tags, " ")
	default:
		return ""
	}
}
