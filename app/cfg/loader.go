package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/lysyi3m/rss-merge/app/lang"
)

// Version is set at build time via -ldflags
var Version = "dev"

const (
	TranslatorNone           = "none"
	TranslatorLibreTranslate = "libretranslate"
	TranslatorOpenAI         = "openai"

	defaultLibreTranslateURL = "http://localhost:5000"
)

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Input / output
	SourcesFile string `long:"sources" env:"SOURCES_FILE" default:"sources.yaml" description:"YAML file listing the feeds to aggregate"`
	OutputFile  string `long:"output" env:"OUTPUT_FILE" default:"feed.json" description:"Path of the JSON Feed document to write"`

	// Feed document
	FeedURL     string `long:"feed-url" env:"PUBLIC_FEED_URL" description:"Public URL of the generated feed (defaults to the canonical location)"`
	Title       string `long:"title" env:"FEED_TITLE" description:"Title of the generated feed"`
	HomePageURL string `long:"home-page-url" env:"HOME_PAGE_URL" description:"Home page URL of the generated feed"`

	// Languages
	PrimaryLang   string `long:"primary-lang" env:"PRIMARY_LANG" default:"fr" description:"Language entries are translated to"`
	SecondaryLang string `long:"secondary-lang" env:"SECONDARY_LANG" default:"en" description:"Second language kept untranslated"`

	// Translation
	Translator       string  `long:"translator" env:"TRANSLATOR" default:"none" choice:"none" choice:"libretranslate" choice:"openai" description:"Translation backend"`
	TranslatorURL    string  `long:"translator-url" env:"TRANSLATOR_URL" description:"LibreTranslate server URL or OpenAI-compatible base URL"`
	TranslatorAPIKey string  `long:"translator-key" env:"TRANSLATOR_API_KEY" description:"API key for the translation backend"`
	OpenAIModel      string  `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-4o-mini" description:"Model used by the openai translator"`
	TranslateRPS     float64 `long:"translate-rps" env:"TRANSLATE_RPS" default:"2" description:"Maximum translation requests per second (0 = unlimited)"`
	TranslateTimeout int     `long:"translate-timeout" env:"TRANSLATE_TIMEOUT" default:"60" description:"Translation request timeout in seconds"`

	// Fetching
	UserAgent         string `long:"user-agent" env:"USER_AGENT" default:"RSS Merge/1.0" description:"User agent string for HTTP requests"`
	MaxBodySize       int64  `long:"max-body-size" env:"MAX_BODY_SIZE" default:"10485760" description:"Maximum feed body size in bytes"`
	AllowPrivateHosts bool   `long:"allow-private-hosts" env:"ALLOW_PRIVATE_HOSTS" description:"Allow fetching feeds from private and loopback addresses"`
	AllowedPorts      []int  `long:"allowed-port" env:"ALLOWED_PORTS" env-delim:"," default:"80" default:"443" description:"Remote port feeds may be fetched from; repeat for several (not enforced with --allow-private-hosts)"`

	// Output processing
	SanitizeHTML bool   `long:"sanitize" env:"SANITIZE_HTML" description:"Sanitize content_html with an allow-list policy"`
	MetricsFile  string `long:"metrics-file" env:"METRICS_FILE" description:"Write run metrics in Prometheus text format to this file"`

	// Application metadata
	LogFormat string `long:"log-format" env:"LOG_FORMAT" default:"text" choice:"text" choice:"json" description:"Log output format"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load reads .env (if present), environment variables and command-line flags.
// It returns nil, nil when help was requested.
func Load() (*Cfg, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	return parse(os.Args[1:])
}

func parse(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	primary, err := lang.Normalize(raw.PrimaryLang)
	if err != nil {
		return nil, fmt.Errorf("invalid primary language: %w", err)
	}
	secondary, err := lang.Normalize(raw.SecondaryLang)
	if err != nil {
		return nil, fmt.Errorf("invalid secondary language: %w", err)
	}

	if raw.TranslateRPS < 0 {
		return nil, fmt.Errorf("translate rps must be non-negative")
	}
	if raw.MaxBodySize <= 0 {
		return nil, fmt.Errorf("max body size must be positive")
	}
	for _, port := range raw.AllowedPorts {
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid allowed port: %d", port)
		}
	}
	if raw.Translator == TranslatorOpenAI && raw.TranslatorAPIKey == "" {
		return nil, fmt.Errorf("translator key is required for the openai translator")
	}

	translatorURL := raw.TranslatorURL
	if raw.Translator == TranslatorLibreTranslate {
		translatorURL = cmp.Or(translatorURL, defaultLibreTranslateURL)
	}

	cfg := &Cfg{
		SourcesFile:       raw.SourcesFile,
		OutputFile:        raw.OutputFile,
		FeedURL:           raw.FeedURL,
		Title:             raw.Title,
		HomePageURL:       raw.HomePageURL,
		PrimaryLang:       primary,
		SecondaryLang:     secondary,
		Translator:        raw.Translator,
		TranslatorURL:     translatorURL,
		TranslatorAPIKey:  raw.TranslatorAPIKey,
		OpenAIModel:       raw.OpenAIModel,
		TranslateRPS:      raw.TranslateRPS,
		TranslateTimeout:  time.Duration(cmp.Or(raw.TranslateTimeout, 60)) * time.Second,
		UserAgent:         raw.UserAgent,
		MaxBodySize:       raw.MaxBodySize,
		AllowPrivateHosts: raw.AllowPrivateHosts,
		AllowedPorts:      raw.AllowedPorts,
		SanitizeHTML:      raw.SanitizeHTML,
		MetricsFile:       raw.MetricsFile,
		LogFormat:         raw.LogFormat,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	return cfg, nil
}
