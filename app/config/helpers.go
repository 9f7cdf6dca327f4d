package config

import (
	"time"
)

const DefaultTimeout = 30 * time.Second

// IsEnabled reports whether the source takes part in the run
func (s *Settings) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// GetTimeout returns the fetch timeout as time.Duration
func (s *Settings) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultTimeout
	}
	return time.Duration(s.Timeout) * time.Second
}

// DisplayName returns the configured name, falling back to the URL
func (s *Source) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.URL
}
