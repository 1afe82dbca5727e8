package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Mail.Host == "" {
		return fmt.Errorf("mail.host must not be empty")
	}
	if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
		return fmt.Errorf("mail.port must be a valid port (got %d)", c.Mail.Port)
	}
	if c.Mail.From == "" {
		return fmt.Errorf("mail.from must not be empty")
	}
	return nil
}
