package feed

import (
	"net/http"
	"time"

	"github.com/doyensec/safeurl"
)

var defaultAllowedPorts = []int{80, 443}

// NewHTTPClient returns the client used for feeds and article pages.
// Unless allowPrivateHosts is set, requests to private, loopback and
// link-local addresses are refused after DNS resolution, as are ports
// outside allowedPorts (80 and 443 when empty).
func NewHTTPClient(timeout time.Duration, allowPrivateHosts bool, allowedPorts []int) *http.Client {
	if allowPrivateHosts {
		return &http.Client{Timeout: timeout}
	}

	if len(allowedPorts) == 0 {
		allowedPorts = defaultAllowedPorts
	}

	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(allowedPorts...).
		Build()

	return safeurl.Client(config).Client
}
