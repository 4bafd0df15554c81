package config

import (
	"strings"
	"testing"
	"time"
)

func validBaseConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      "8000",
			Namespace: "pebec",
			Database:  "beepa",
		},
		JWT: JWTConfig{
			PublicKeyPath:  "./keys/public.pem",
			ExpirationMins: 60,
			Issuer:         "auth.pebec.gov.ng",
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	cfg := validBaseConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_InvalidServerEnv(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Env = "invalid"

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for invalid SERVER_ENV")
	}
	if !strings.Contains(err.Error(), "SERVER_ENV") {
		t.Errorf("expected error to mention SERVER_ENV, got: %v", err)
	}
}

func TestConfig_Validate_MissingPort(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Port = ""

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for missing SERVER_PORT")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("expected error to mention SERVER_PORT, got: %v", err)
	}
}

func TestConfig_Validate_EmptyAllowedOrigins(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.AllowedOrigins = []string{}

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for empty CORS_ALLOWED_ORIGINS")
	}
	if !strings.Contains(err.Error(), "CORS_ALLOWED_ORIGINS") {
		t.Errorf("expected error to mention CORS_ALLOWED_ORIGINS, got: %v", err)
	}
}

func TestConfig_Validate_MissingDatabaseHost(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database.Host = ""

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for missing DB_HOST")
	}
	if !strings.Contains(err.Error(), "DB_HOST") {
		t.Errorf("expected error to mention DB_HOST, got: %v", err)
	}
}

func TestConfig_Validate_InvalidJWTExpiration(t *testing.T) {
	cfg := validBaseConfig()
	cfg.JWT.ExpirationMins = 0

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for zero JWT_EXPIRATION_MINS")
	}
	if !strings.Contains(err.Error(), "JWT_EXPIRATION_MINS") {
		t.Errorf("expected error to mention JWT_EXPIRATION_MINS, got: %v", err)
	}
}

func TestConfig_Validate_MissingIssuer(t *testing.T) {
	cfg := validBaseConfig()
	cfg.JWT.Issuer = ""

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for missing JWT_ISSUER")
	}
	if !strings.Contains(err.Error(), "JWT_ISSUER") {
		t.Errorf("expected error to mention JWT_ISSUER, got: %v", err)
	}
}

func TestConfig_Validate_ProductionRequiresPublicKey(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Env = "production"
	cfg.JWT.PublicKeyPath = ""

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for missing JWT public key in production")
	}
	if !strings.Contains(err.Error(), "JWT_PUBLIC_KEY_PATH") {
		t.Errorf("expected error to mention JWT_PUBLIC_KEY_PATH, got: %v", err)
	}
}

func TestConfig_Validate_DevelopmentAllowsMissingPublicKey(t *testing.T) {
	cfg := validBaseConfig()
	cfg.JWT.PublicKeyPath = ""

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected no error in development without public key, got: %v", err)
	}
}

func TestConfig_Validate_ReportsAllFailures(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Port = ""
	cfg.Database.Namespace = ""
	cfg.JWT.ExpirationMins = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for multiple invalid fields")
	}
	for _, want := range []string{"SERVER_PORT", "DB_NAMESPACE", "JWT_EXPIRATION_MINS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got: %v", want, err)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Server.Port == "" {
		t.Error("expected default server port")
	}
	if cfg.Database.Namespace == "" {
		t.Error("expected default database namespace")
	}
	if cfg.JWT.Issuer == "" {
		t.Error("expected default JWT issuer")
	}
}

func TestIsDevelopment(t *testing.T) {
	cfg := validBaseConfig()

	if !cfg.IsDevelopment() {
		t.Error("expected development config to report IsDevelopment")
	}
	if cfg.IsProduction() {
		t.Error("development config must not report IsProduction")
	}

	cfg.Server.Env = "production"
	if !cfg.IsProduction() {
		t.Error("expected production config to report IsProduction")
	}
}
