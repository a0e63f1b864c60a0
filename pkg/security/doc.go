// Package security provides URL validation against Server-Side Request
// Forgery (SSRF) for the graph execution engine.
//
// # Overview
//
// SSRFProtection checks a candidate URL before a request is made to it:
//
//   - Scheme: only the allowed schemes pass (http and https by default)
//   - Domains: an optional allowlist (empty allows every domain) and a
//     blocklist, both matched against the exact lowercased hostname
//   - Addresses: a literal IP, or every address a hostname resolves to,
//     is rejected when it is loopback or 0.0.0.0, private (10/8,
//     172.16/12, 192.168/16, fc00::/7), link-local (169.254/16,
//     fe80::/10), or a cloud metadata endpoint (169.254.169.254,
//     fd00:ec2::254), each class under its own Block* flag
//   - Hostnames: under the same flags, localhost and the well-known
//     metadata hostnames are rejected by name before any lookup; a
//     hostname that does not resolve passes once these name checks pass
//
// The package does no input validation, rate limiting, access control
// or output sanitization; the sentinel errors in errors.go are declared
// but ValidateURL does not wrap them.
//
// # Basic Usage
//
//	p := security.NewSSRFProtection() // every Block* flag on
//	if err := p.ValidateURL(url); err != nil {
//	    return fmt.Errorf("URL not allowed: %w", err)
//	}
//
// # Custom Configuration
//
//	p := security.NewSSRFProtectionWithConfig(security.SSRFConfig{
//	    AllowedSchemes:     []string{"https"},
//	    BlockPrivateIPs:    true,
//	    BlockLocalhost:     false,
//	    BlockLinkLocal:     true,
//	    BlockCloudMetadata: true,
//	    AllowedDomains:     []string{"api.example.com"},
//	})
//
// # Thread Safety
//
// An SSRFProtection is not modified after construction, so ValidateURL
// may be called concurrently from multiple goroutines.
package security
