package config

import (
    "os"
    "strconv"
)

// SMTPConfig carries the settings for the outbound mail transport.  Only the
// host is strictly required; when it is empty the application falls back to a
// no-op mailer so that local development works without an SMTP server.
type SMTPConfig struct {
    Host string // SMTP server hostname
    Port int    // SMTP server port (465 for SSL, 587 for STARTTLS)
    User string // authentication username, also used as the From address
    Pass string // authentication password (app password, not the real one)
    From string // display From header, defaults to the user address
}

// LoadSMTPConfig reads SMTP settings from environment variables.  Defaults
// follow common provider setups.
func LoadSMTPConfig() SMTPConfig {
    port := 587
    if s := os.Getenv("SMTP_PORT"); s != "" {
        if n, err := strconv.Atoi(s); err == nil {
            port = n
        }
    }
    user := os.Getenv("SMTP_USER")
    from := os.Getenv("SMTP_FROM")
    if from == "" {
        from = user
    }
    return SMTPConfig{
        Host: os.Getenv("SMTP_HOST"),
        Port: port,
        User: user,
        Pass: os.Getenv("SMTP_PASS"),
        From: from,
    }
}
