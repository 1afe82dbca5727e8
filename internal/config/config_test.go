package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("AUTH_JWT_SECRET", "this-is-a-very-long-jwt-secret-for-testing-32+")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  write_timeout: "15s"
  idle_timeout: "30s"
  shutdown_timeout: "5s"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"
  jwt_issuer: "koekalenteri"

mail:
  host: "smtp.example.org"
  port: 465
  from: "noreply@example.org"
  timeout: "20s"

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Server
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	// Database
	if cfg.Database.DSN != "postgres://u:p@localhost:5432/testdb" {
		t.Errorf("database.dsn = %q", cfg.Database.DSN)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10", cfg.Database.MaxConns)
	}

	// Auth
	if cfg.Auth.JWTIssuer != "koekalenteri" {
		t.Errorf("auth.jwt_issuer = %q", cfg.Auth.JWTIssuer)
	}

	// Mail
	if cfg.Mail.Host != "smtp.example.org" {
		t.Errorf("mail.host = %q", cfg.Mail.Host)
	}
	if cfg.Mail.Port != 465 {
		t.Errorf("mail.port = %d, want 465", cfg.Mail.Port)
	}
	if cfg.Mail.From != "noreply@example.org" {
		t.Errorf("mail.from = %q", cfg.Mail.From)
	}
	if cfg.Mail.Timeout != 20*time.Second {
		t.Errorf("mail.timeout = %v, want 20s", cfg.Mail.Timeout)
	}

	// Log
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	validEnv(t)

	t.Setenv("CONFIG_PATH", "")
	// Set working dir to a temp dir with no config.yaml
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Mail.Port != 587 {
		t.Errorf("mail.port = %d, want 587 (default)", cfg.Mail.Port)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate_JWTSecretTooShort(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "short"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for short JWT secret")
	}
}

func TestValidate_JWTSecretEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty JWT secret")
	}
}

func TestValidate_MailHostEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Mail.Host = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty mail host")
	}
}

func TestValidate_MailPortOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Mail.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for mail port 0")
	}

	cfg.Mail.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for mail port > 65535")
	}
}

func TestValidate_MailFromEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Mail.From = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty mail sender")
	}
}

// validConfig returns a Config that passes all validation checks.
func validConfig() Config {
	return Config{
		Auth: AuthConfig{
			JWTSecret: "this-is-a-very-long-jwt-secret-for-testing-32+",
		},
		Mail: MailConfig{
			Host: "smtp.example.org",
			Port: 587,
			From: "noreply@example.org",
		},
	}
}
