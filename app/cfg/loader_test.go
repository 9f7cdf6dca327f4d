package cfg

import (
	"slices"
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// Version can be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := parse([]string{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.SourcesFile != "sources.yaml" {
		t.Errorf("Expected sources file 'sources.yaml', got '%s'", cfg.SourcesFile)
	}
	if cfg.OutputFile != "feed.json" {
		t.Errorf("Expected output file 'feed.json', got '%s'", cfg.OutputFile)
	}
	if cfg.PrimaryLang != "fr" {
		t.Errorf("Expected primary language 'fr', got '%s'", cfg.PrimaryLang)
	}
	if cfg.SecondaryLang != "en" {
		t.Errorf("Expected secondary language 'en', got '%s'", cfg.SecondaryLang)
	}
	if cfg.Translator != TranslatorNone {
		t.Errorf("Expected translator 'none', got '%s'", cfg.Translator)
	}
	if cfg.TranslateTimeout != 60*time.Second {
		t.Errorf("Expected translate timeout 60s, got %v", cfg.TranslateTimeout)
	}
	if cfg.MaxBodySize != 10<<20 {
		t.Errorf("Expected max body size %d, got %d", 10<<20, cfg.MaxBodySize)
	}
	if cfg.FeedURL != "" {
		t.Errorf("Expected empty feed URL, got '%s'", cfg.FeedURL)
	}
	if cfg.Version == "" {
		t.Error("Expected version to be set")
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := parse([]string{
		"--sources", "feeds.yml",
		"--output", "out/merged.json",
		"--feed-url", "https://feeds.example.com/merged.json",
		"--primary-lang", "en-GB",
		"--secondary-lang", "deu",
		"--translator", "libretranslate",
		"--translate-rps", "0.5",
		"--sanitize",
		"--debug",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.SourcesFile != "feeds.yml" {
		t.Errorf("Expected sources file 'feeds.yml', got '%s'", cfg.SourcesFile)
	}
	if cfg.FeedURL != "https://feeds.example.com/merged.json" {
		t.Errorf("Expected feed URL override, got '%s'", cfg.FeedURL)
	}
	if cfg.PrimaryLang != "en" {
		t.Errorf("Expected primary language 'en', got '%s'", cfg.PrimaryLang)
	}
	if cfg.SecondaryLang != "de" {
		t.Errorf("Expected secondary language 'de', got '%s'", cfg.SecondaryLang)
	}
	if cfg.Translator != TranslatorLibreTranslate {
		t.Errorf("Expected translator 'libretranslate', got '%s'", cfg.Translator)
	}
	if cfg.TranslatorURL != "http://localhost:5000" {
		t.Errorf("Expected default LibreTranslate URL, got '%s'", cfg.TranslatorURL)
	}
	if cfg.TranslateRPS != 0.5 {
		t.Errorf("Expected translate rps 0.5, got %v", cfg.TranslateRPS)
	}
	if !cfg.SanitizeHTML {
		t.Error("Expected sanitize to be enabled")
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestParseAllowedPorts(t *testing.T) {
	cfg, err := parse([]string{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !slices.Equal(cfg.AllowedPorts, []int{80, 443}) {
		t.Errorf("Expected default allowed ports [80 443], got %v", cfg.AllowedPorts)
	}

	t.Setenv("ALLOWED_PORTS", "443,8443")
	cfg, err = parse([]string{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !slices.Contains(cfg.AllowedPorts, 8443) {
		t.Errorf("Expected port 8443 from environment, got %v", cfg.AllowedPorts)
	}
}

func TestParseEnvironment(t *testing.T) {
	t.Setenv("OUTPUT_FILE", "/tmp/env-feed.json")
	t.Setenv("PRIMARY_LANG", "es")

	cfg, err := parse([]string{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.OutputFile != "/tmp/env-feed.json" {
		t.Errorf("Expected output file from environment, got '%s'", cfg.OutputFile)
	}
	if cfg.PrimaryLang != "es" {
		t.Errorf("Expected primary language 'es', got '%s'", cfg.PrimaryLang)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown translator", []string{"--translator", "babelfish"}},
		{"invalid language", []string{"--primary-lang", "not a language"}},
		{"negative rps", []string{"--translate-rps", "-1"}},
		{"openai without key", []string{"--translator", "openai"}},
		{"zero body size", []string{"--max-body-size", "0"}},
		{"port out of range", []string{"--allowed-port", "70000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parse(tt.args)
			if err == nil {
				t.Errorf("Expected error, got config: %+v", cfg)
			}
		})
	}
}
