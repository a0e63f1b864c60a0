package config

import "testing"

func TestDefaultIsZeroTrust(t *testing.T) {
	cfg := Default()
	if cfg.AllowHTTP {
		t.Error("Default().AllowHTTP = true, want false")
	}
	if !cfg.BlockPrivateIPs || !cfg.BlockLocalhost || !cfg.BlockLinkLocal || !cfg.BlockCloudMetadata {
		t.Error("Default() must block every restricted address class")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() failed Validate(): %v", err)
	}
}

func TestDevelopmentRelaxesNetworkPolicy(t *testing.T) {
	cfg := Development()
	if !cfg.AllowHTTP {
		t.Error("Development().AllowHTTP = false, want true")
	}
	if cfg.BlockPrivateIPs || cfg.BlockLocalhost {
		t.Error("Development() should allow private IPs and localhost")
	}
}

func TestValidateRejectsNegatives(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"execution time", func(c *Config) { c.MaxExecutionTime = -1 }, ErrInvalidExecutionTime},
		{"http timeout", func(c *Config) { c.HTTPTimeout = -1 }, ErrInvalidHTTPTimeout},
		{"max attempts", func(c *Config) { c.DefaultMaxAttempts = 0 }, ErrInvalidMaxAttempts},
		{"backoff", func(c *Config) { c.DefaultBackoff = -1 }, ErrInvalidBackoff},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := Default()
	cfg.AllowedDomains = []string{"example.com"}
	clone := cfg.Clone()
	clone.AllowedDomains[0] = "mutated.com"
	if cfg.AllowedDomains[0] != "example.com" {
		t.Error("Clone() shares backing array with the original")
	}
}

func TestSSRFConfigProjection(t *testing.T) {
	cfg := Default()
	cfg.AllowedDomains = []string{"api.internal.example.com"}
	sc := cfg.SSRFConfig()
	if sc.BlockPrivateIPs != cfg.BlockPrivateIPs || sc.BlockCloudMetadata != cfg.BlockCloudMetadata {
		t.Error("SSRFConfig() did not carry over the block flags")
	}
	if len(sc.AllowedDomains) != 1 || sc.AllowedDomains[0] != "api.internal.example.com" {
		t.Error("SSRFConfig() did not carry over AllowedDomains")
	}
}
