package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrSourceLoad is returned when the source list cannot be read or is invalid.
// Callers treat it as fatal.
var ErrSourceLoad = errors.New("failed to load sources")

// Loader handles loading and validation of the source list
type Loader struct {
	path string
}

// NewLoader creates a new source list loader
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Run loads the configured sources in file order
func (l *Loader) Run() ([]Source, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrSourceLoad, l.path, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML %s: %w", ErrSourceLoad, l.path, err)
	}

	if len(file.Feeds) == 0 {
		return nil, fmt.Errorf("%w: no feeds configured in %s", ErrSourceLoad, l.path)
	}

	for i := range file.Feeds {
		if err := l.validate(&file.Feeds[i]); err != nil {
			return nil, fmt.Errorf("%w: invalid feed at index %d: %w", ErrSourceLoad, i, err)
		}
	}

	slog.Debug("Sources loaded", "path", l.path, "count", len(file.Feeds))

	return file.Feeds, nil
}

// validate validates one source entry
func (l *Loader) validate(source *Source) error {
	if source.URL == "" {
		return fmt.Errorf("feed URL is required")
	}

	nonNegativeFields := map[string]int{
		"timeout":   source.Settings.Timeout,
		"max items": source.Settings.MaxItems,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	validFields := map[string]bool{
		FieldTitle:   true,
		FieldContent: true,
		FieldAuthors: true,
		FieldLink:    true,
		FieldTags:    true,
	}

	for i, filter := range source.Filters {
		if !validFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}
