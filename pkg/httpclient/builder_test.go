package httpclient

import (
	"testing"

	"github.com/Skymel-Inc/SkymelADKPy/pkg/config"
)

func TestBuilderBuildAppliesDefaults(t *testing.T) {
	engineCfg := config.Testing()
	b := NewBuilder(*engineCfg)

	client, err := b.Build(&ClientConfig{Name: "test-client", Timeout: 0})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if client.GetConfig().Timeout == 0 {
		t.Error("Build() did not apply defaults to the client config")
	}
}

func TestBuilderBuildRejectsInvalidConfig(t *testing.T) {
	b := NewBuilder(*config.Default())
	if _, err := b.Build(&ClientConfig{}); err == nil {
		t.Error("Build() with an unnamed client config should fail validation")
	}
}

func TestBuilderValidateURLBlocksLoopbackByDefault(t *testing.T) {
	b := NewBuilder(*config.Default())
	if err := b.validateURL("http://127.0.0.1/admin"); err == nil {
		t.Error("validateURL() should block loopback addresses under the default zero-trust policy")
	}
}

func TestBuilderValidateURLAllowsUnderDevelopmentPolicy(t *testing.T) {
	b := NewBuilder(*config.Development())
	if err := b.validateURL("http://127.0.0.1:8080/webhook"); err != nil {
		t.Errorf("validateURL() = %v, want nil under the development policy", err)
	}
}
