package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseConfig() *Config {
	return &Config{
		JWTSecret:  "secure-secret-at-least-32-chars-long",
		Port:       "8080",
		DBPassword: "secure-password",
		DBSSLMode:  "require",
		Env:        "development",
	}
}

func TestConfig_ValidateRequiredFields(t *testing.T) {
	c := baseConfig()
	c.Port = ""
	assert.Error(t, c.Validate())

	c = baseConfig()
	c.JWTSecret = ""
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateProductionSecrets(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		jwtSecret   string
		dbPassword  string
		expectError bool
	}{
		{"Production with default JWT secret", "production", "your-secret-key-change-in-production", "secure-password", true},
		{"Production with short JWT secret", "production", "short", "secure-password", true},
		{"Production with default DB password", "production", "secure-secret-at-least-32-chars-long", "password", true},
		{"Production with empty DB password", "prod", "secure-secret-at-least-32-chars-long", "", true},
		{"Production fully configured", "production", "secure-secret-at-least-32-chars-long", "secure-password", false},
		{"Development tolerates defaults", "development", "your-secret-key-change-in-production", "password", false},
		{"Test tolerates short secret", "test", "short", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := baseConfig()
			c.Env = tt.env
			c.JWTSecret = tt.jwtSecret
			c.DBPassword = tt.dbPassword

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
