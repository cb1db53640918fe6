package config

import (
	"strings"
	"testing"
)

func productionConfig() *Config {
	return &Config{
		Environment:        EnvProduction,
		StoreBackend:       StoreMongo,
		CORSAllowedOrigins: "https://shop.example.com",
		LogLevel:           "info",
	}
}

func TestValidateForProduction_NonProductionIsNoop(t *testing.T) {
	cfg := &Config{Environment: EnvDevelopment, StoreBackend: StoreMemory, CORSAllowedOrigins: "*", LogLevel: "debug"}
	if err := ValidateForProduction(cfg); err != nil {
		t.Fatalf("expected nil for development config, got %v", err)
	}
}

func TestValidateForProduction_Valid(t *testing.T) {
	if err := ValidateForProduction(productionConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateForProduction_Violations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"memory backend", func(c *Config) { c.StoreBackend = StoreMemory }, "STORE_BACKEND"},
		{"wildcard cors", func(c *Config) { c.CORSAllowedOrigins = " * " }, "CORS_ALLOWED_ORIGINS"},
		{"debug logging", func(c *Config) { c.LogLevel = "debug" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := productionConfig()
			tt.mutate(cfg)
			err := ValidateForProduction(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected %q in error, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}
