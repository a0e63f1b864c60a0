// Package httpclient provides a configurable HTTP client builder for the
// execution-control graph runtime.
//
// This package lets external-call nodes define named HTTP clients with
// custom authentication, headers, timeouts, and other options via
// configuration, so a graph with many nodes calling the same backend
// does not repeat authentication and connection settings at every node.
//
// # Features
//
//   - Multiple named HTTP clients with independent configurations
//   - Authentication: None (default), Basic Auth, Bearer Token
//   - Configurable timeouts, connection pooling, and network settings
//   - Default headers and query parameters
//   - SSRF protection integrated with engine security settings
//   - Thread-safe client registry
//
// # Authentication Types
//
// The package supports three authentication types:
//
//   - None: No authentication (default)
//   - Basic: HTTP Basic Authentication with username and password
//   - Bearer: Bearer Token authentication
//
// Future extensions may include OAuth2 and other authentication mechanisms.
//
// # Example Usage
//
//	// Create client configuration
//	config := &httpclient.ClientConfig{
//	    Name:     "api-client",
//	    AuthType: httpclient.AuthTypeBearer,
//	    Token:    "your-api-token",
//	    Timeout:  60 * time.Second,
//	    DefaultHeaders: map[string]string{
//	        "Content-Type": "application/json",
//	    },
//	}
//
//	// Build the client
//	builder := httpclient.NewBuilder(engineConfig)
//	client, err := builder.Build(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Register in registry
//	registry := httpclient.NewRegistry()
//	registry.Register("api-client", client)
//
//	// Use from external-call nodes: every externalApiCaller node a
//	// loader builds shares the one client passed to it
//	l := loader.New(loader.WithHTTPClient(client))
//
// # Security Considerations
//
//   - SSRF checks built from the engine configuration (the Block* flags
//     and AllowedDomains) apply to redirect targets when FollowRedirects
//     is set; the URL of the initial request is not checked by the client
//   - Credentials should be passed via environment variables, not hardcoded
//   - MaxResponseSize is carried in the client configuration and returned
//     by Registry.GetHTTPClient; the client itself does not cap response
//     bodies
//   - Connection pooling limits prevent resource exhaustion
package httpclient
