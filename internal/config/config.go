package config

import (
	"fmt"
	"math"
	"os"
	"time"
	_ "time/tzdata" // embedded zone database

	"github.com/goccy/go-yaml"
)

const (
	SessionModeFixed  = "fixed"
	SessionModeCookie = "cookie"

	IdentityTypeFixed = "fixed"
	IdentityTypeJWT   = "jwt"

	AttendanceTypeMemory   = "memory"
	AttendanceTypeFile     = "file"
	AttendanceTypePostgres = "postgres"

	DefaultSessionID         = "kiosk"
	DefaultSessionCookieName = "checkin_session"
	DefaultIdentityCookie    = "checkin_presenter"
)

type Config struct {
	Session    SessionConfig     `yaml:"session"`
	Identity   IdentityConfig    `yaml:"identity"`
	Presenters []PresenterConfig `yaml:"presenters"`
	Attendance AttendanceConfig  `yaml:"attendance"`
	Audit      AuditConfig       `yaml:"audit"`
	Admin      AdminConfig       `yaml:"admin"`
	RateLimit  RateLimitConfig   `yaml:"rate_limit"`
	Metrics    MetricsConfig     `yaml:"metrics"`

	// Timezone is the IANA zone used to format check-in times on the confirmation page.
	// Empty means the server's local time.
	Timezone string `yaml:"timezone"`
}

// SessionConfig decides how requests are mapped to the session owning a pending token.
type SessionConfig struct {
	// Mode is either "fixed" (every request shares FixedID, e.g. one kiosk)
	// or "cookie" (each browser gets its own random session).
	Mode string `yaml:"mode"`

	// FixedID is the session used in fixed mode.
	FixedID string `yaml:"fixed_id"`

	// CookieName is the name of the session cookie in cookie mode.
	CookieName string `yaml:"cookie_name"`

	// Secure marks the session cookie as HTTPS-only.
	Secure bool `yaml:"secure"`
}

// IdentityConfig configures how the presenter checking in is identified.
type IdentityConfig struct {
	// Type is either "fixed" or "jwt".
	Type string `yaml:"type"`

	// FixedID is the identity reported by the fixed resolver.
	FixedID string `yaml:"fixed_id"`

	// SigningKey is the HMAC key presenter session tokens are signed with (jwt only).
	SigningKey string `yaml:"signing_key"`

	// CookieName is the cookie carrying the presenter session token (jwt only).
	// The Authorization header is checked first.
	CookieName string `yaml:"cookie_name"`
}

// PresenterConfig maps a presenter identity to a display name.
type PresenterConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// AttendanceConfig selects the durable attendance store.
type AttendanceConfig struct {
	Type string `yaml:"type"` // e.g., "memory", "file", "postgres"

	// Path is the output file for the "file" type.
	Path string `yaml:"path"`

	// DSN is the connection string for the "postgres" type.
	DSN string `yaml:"dsn"`

	// Migrate runs the embedded schema migrations on startup ("postgres" only).
	Migrate bool `yaml:"migrate"`
}

// AuditConfig holds configuration for auditing.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Type    string `yaml:"type"` // e.g., "file", "memory"
}

// AdminConfig protects the admin routes.
type AdminConfig struct {
	// SigningKey is the HMAC key admin tokens are signed with.
	// Admin routes are disabled if empty.
	SigningKey string `yaml:"signing_key"`
}

// RateLimitConfig throttles the token routes per client address.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client. Zero disables rate limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the number of requests allowed at once. Defaults to the rounded-up rate.
	Burst int `yaml:"burst"`
}

// MetricsConfig exposes Prometheus metrics on /metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no config file is given:
// a single kiosk session, a fixed presenter and in-memory storage.
func Default() *Config {
	cfg := &Config{
		Identity: IdentityConfig{FixedID: "user123"},
		Presenters: []PresenterConfig{
			{ID: "user123", Name: "Juan Perez"},
			{ID: "user456", Name: "Maria Rodriguez"},
		},
		Audit: AuditConfig{Enabled: true, Type: "memory"},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file at the given path.
// It returns a Config struct or an error if loading/parsing/validation fails.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Session.Mode == "" {
		c.Session.Mode = SessionModeFixed
	}
	if c.Session.FixedID == "" {
		c.Session.FixedID = DefaultSessionID
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = DefaultSessionCookieName
	}
	if c.Identity.Type == "" {
		c.Identity.Type = IdentityTypeFixed
	}
	if c.Identity.CookieName == "" {
		c.Identity.CookieName = DefaultIdentityCookie
	}
	if c.Attendance.Type == "" {
		c.Attendance.Type = AttendanceTypeMemory
	}
	if c.RateLimit.RequestsPerSecond > 0 && c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = int(math.Ceil(c.RateLimit.RequestsPerSecond))
	}
}

func (c *Config) Validate() error {
	switch c.Session.Mode {
	case SessionModeFixed, SessionModeCookie:
	default:
		return fmt.Errorf("unknown session mode '%s'", c.Session.Mode)
	}

	switch c.Identity.Type {
	case IdentityTypeFixed:
		if c.Identity.FixedID == "" {
			return fmt.Errorf("identity type 'fixed' requires fixed_id")
		}
	case IdentityTypeJWT:
		if len(c.Identity.SigningKey) < 32 {
			return fmt.Errorf("identity type 'jwt' requires a signing_key of at least 32 bytes")
		}
	default:
		return fmt.Errorf("unknown identity type '%s'", c.Identity.Type)
	}

	seen := make(map[string]struct{})
	for idx, p := range c.Presenters {
		if p.ID == "" {
			return fmt.Errorf("presenter at index %d has empty id", idx)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("presenter id '%s' is not unique", p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	switch c.Attendance.Type {
	case AttendanceTypeMemory:
	case AttendanceTypeFile:
		if c.Attendance.Path == "" {
			return fmt.Errorf("attendance type 'file' requires a path")
		}
	case AttendanceTypePostgres:
		if c.Attendance.DSN == "" {
			return fmt.Errorf("attendance type 'postgres' requires a dsn")
		}
	default:
		return fmt.Errorf("unknown attendance type '%s'", c.Attendance.Type)
	}

	if c.RateLimit.RequestsPerSecond < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit values must not be negative")
	}

	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid timezone: %w", err)
		}
	}

	return nil
}

// Location returns the time zone check-in times are displayed in.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
