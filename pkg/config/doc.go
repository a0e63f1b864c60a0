// Package config provides configuration management for the ECG runtime.
//
// # Overview
//
// The config package centralizes all configuration for the engine: a
// single Config value travels from the Engine down to every node, so
// execution limits and network policy are decided once per run rather
// than scattered across call sites.
//
// # Configuration Structure
//
//   - Execution limits: graph and node deadlines
//   - HTTP settings: timeouts, redirects, response size for external-call nodes
//   - Zero-trust network policy: AllowHTTP, AllowedDomains, and Block flags
//     for private, localhost, link-local, and cloud-metadata address classes
//   - Resource limits: payload size, node/edge count ceilings
//   - Retry defaults: attempts and backoff for external-call nodes
//
// # Basic Usage
//
//	cfg := config.Default()
//	eng := engine.New(cfg)
//
// # Default Configuration
//
// The default configuration sets AllowHTTP to false and every
// private-address-class block flag to true. AllowHTTP is not consulted
// by any component; the block flags and AllowedDomains take effect where
// the httpclient Builder validates redirect targets.
//
//	MaxExecutionTime:     5 minutes
//	MaxNodeExecutionTime: 30 seconds
//	HTTPTimeout:          30 seconds
//	MaxHTTPRedirects:     10
//	MaxResponseSize:      10MB
//	AllowHTTP:            false
//	BlockPrivateIPs:      true
//	BlockLocalhost:       true
//	BlockLinkLocal:       true
//	BlockCloudMetadata:   true
//	MaxNodes:             1000
//	MaxEdges:             5000
//	DefaultMaxAttempts:   3
//	DefaultBackoff:       1 second
//
// # Thread Safety
//
// Config values are read-only after construction; Clone produces an
// independent copy for callers that need to override a field per run.
package config
