package cfg

import "time"

type Cfg struct {
	// Input / output
	SourcesFile string
	OutputFile  string

	// Feed document
	FeedURL     string
	Title       string
	HomePageURL string

	// Languages
	PrimaryLang   string
	SecondaryLang string

	// Translation
	Translator       string
	TranslatorURL    string
	TranslatorAPIKey string
	OpenAIModel      string
	TranslateRPS     float64
	TranslateTimeout time.Duration

	// Fetching
	UserAgent         string
	MaxBodySize       int64
	AllowPrivateHosts bool
	AllowedPorts      []int

	// Output processing
	SanitizeHTML bool
	MetricsFile  string

	// Application metadata
	LogFormat string
	Debug     bool
	Version   string
}
