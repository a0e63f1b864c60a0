// Package config centralizes configuration for the ECG runtime: execution
// limits, HTTP zero-trust network policy, resource limits, and retry
// defaults for external-call nodes.
package config

import (
	"time"

	"github.com/Skymel-Inc/SkymelADKPy/pkg/security"
)

// Config holds ECG engine configuration. All configuration is centralized
// here so it can be constructed once per Engine and passed down to every
// node that needs it.
type Config struct {
	// Execution limits
	MaxExecutionTime     time.Duration // deadline for one graph execution
	MaxNodeExecutionTime time.Duration // deadline for one node's subroutine

	// HTTP / external-call node configuration
	HTTPTimeout         time.Duration // per-attempt request timeout
	MaxHTTPRedirects    int
	MaxResponseSize     int64
	MaxHTTPCallsPerExec int // 0 = unlimited

	// Network policy. The httpclient Builder applies AllowedDomains and the
	// Block* flags when it validates redirect targets. AllowHTTP is stored
	// here but no component reads it; outbound requests are not gated on it.
	AllowHTTP          bool
	AllowedDomains     []string // empty = all domains allowed
	BlockPrivateIPs    bool
	BlockLocalhost     bool
	BlockLinkLocal     bool
	BlockCloudMetadata bool

	// Resource limits
	MaxPayloadSize int // maximum size of a loaded graph description, bytes
	MaxNodes       int
	MaxEdges       int

	// Retry defaults for external-call nodes that don't override them
	DefaultMaxAttempts int
	DefaultBackoff     time.Duration
}

// Default returns a Config with secure, production-ready default values:
// zero trust on outbound HTTP, conservative resource ceilings.
func Default() *Config {
	return &Config{
		MaxExecutionTime:     5 * time.Minute,
		MaxNodeExecutionTime: 30 * time.Second,

		HTTPTimeout:         30 * time.Second,
		MaxHTTPRedirects:    10,
		MaxResponseSize:     10 * 1024 * 1024, // 10MB
		MaxHTTPCallsPerExec: 100,

		AllowHTTP:          false,
		AllowedDomains:     nil,
		BlockPrivateIPs:    true,
		BlockLocalhost:     true,
		BlockLinkLocal:     true,
		BlockCloudMetadata: true,

		MaxPayloadSize: 10 * 1024 * 1024, // 10MB
		MaxNodes:       1000,
		MaxEdges:       5000,

		DefaultMaxAttempts: 3,
		DefaultBackoff:     1 * time.Second,
	}
}

// Development returns a Config with relaxed network restrictions for
// local development against test servers.
func Development() *Config {
	cfg := Default()
	cfg.AllowHTTP = true
	cfg.BlockPrivateIPs = false
	cfg.BlockLocalhost = false
	cfg.MaxExecutionTime = 10 * time.Minute
	return cfg
}

// Testing returns a Config suited for unit and integration tests: HTTP and
// localhost allowed, short timeouts so failing tests fail fast.
func Testing() *Config {
	cfg := Default()
	cfg.AllowHTTP = true
	cfg.BlockPrivateIPs = false
	cfg.BlockLocalhost = false
	cfg.MaxExecutionTime = 1 * time.Minute
	cfg.HTTPTimeout = 5 * time.Second
	return cfg
}

// Validate checks that the configuration values are internally consistent.
func (c *Config) Validate() error {
	if c.MaxExecutionTime < 0 {
		return ErrInvalidExecutionTime
	}
	if c.MaxNodeExecutionTime < 0 {
		return ErrInvalidNodeExecutionTime
	}
	if c.HTTPTimeout < 0 {
		return ErrInvalidHTTPTimeout
	}
	if c.MaxHTTPRedirects < 0 {
		return ErrInvalidMaxRedirects
	}
	if c.MaxResponseSize < 0 {
		return ErrInvalidMaxResponseSize
	}
	if c.MaxPayloadSize < 0 {
		return ErrInvalidPayloadSize
	}
	if c.MaxNodes < 0 {
		return ErrInvalidMaxNodes
	}
	if c.MaxEdges < 0 {
		return ErrInvalidMaxEdges
	}
	if c.DefaultMaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}
	if c.DefaultBackoff < 0 {
		return ErrInvalidBackoff
	}
	return nil
}

// SSRFConfig projects the zero-trust network policy fields of c into a
// security.SSRFConfig, the shape external-call nodes use to validate
// outbound request URLs before dialing them.
func (c *Config) SSRFConfig() security.SSRFConfig {
	return security.SSRFConfig{
		AllowedSchemes:     []string{"http", "https"},
		BlockPrivateIPs:    c.BlockPrivateIPs,
		BlockLocalhost:     c.BlockLocalhost,
		BlockLinkLocal:     c.BlockLinkLocal,
		BlockCloudMetadata: c.BlockCloudMetadata,
		AllowedDomains:     c.AllowedDomains,
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	clone := *c
	if c.AllowedDomains != nil {
		clone.AllowedDomains = make([]string, len(c.AllowedDomains))
		copy(clone.AllowedDomains, c.AllowedDomains)
	}
	return &clone
}
