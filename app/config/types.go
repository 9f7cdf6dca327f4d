package config

// File is the top-level layout of the sources YAML file
type File struct {
	Feeds []Source `yaml:"feeds"`
}

// Source is one configured upstream feed
type Source struct {
	URL      string   `yaml:"url"`
	Name     string   `yaml:"name"` // optional display name
	Settings Settings `yaml:"settings"`
	Filters  []Filter `yaml:"filters"`
}

// Settings contains per-source processing settings
type Settings struct {
	Enabled        *bool `yaml:"enabled"` // nil means enabled
	Timeout        int   `yaml:"timeout"` // seconds
	MaxItems       int   `yaml:"max_items"`
	ExtractContent bool  `yaml:"extract_content"`
}

// Filter fields
const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldAuthors = "authors"
	FieldLink    = "link"
	FieldTags    = "tags"
)

// Filter represents a content filter rule
type Filter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}
