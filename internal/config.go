package internal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	Environment string           `mapstructure:"environment"`
	Server      ServerConfig     `mapstructure:"http_server"`
	Supabase    SupabaseConfig   `mapstructure:"supabase"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Storage     StorageConfig    `mapstructure:"storage"`
	Captcha     CaptchaConfig    `mapstructure:"captcha"`
	Logging     LoggingConfig    `mapstructure:"logging"`
	Pagination  PaginationConfig `mapstructure:"pagination"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

// SupabaseConfig holds the hosted backend's endpoint and keys.
type SupabaseConfig struct {
	URL            string        `mapstructure:"url"`
	AnonKey        string        `mapstructure:"anon_key"`
	ServiceRoleKey string        `mapstructure:"service_role_key"`
	JWTSecret      string        `mapstructure:"jwt_secret"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

type StorageConfig struct {
	Driver       string        `mapstructure:"driver"`
	ResumeBucket string        `mapstructure:"resume_bucket"`
	AvatarBucket string        `mapstructure:"avatar_bucket"`
	SignedURLTTL time.Duration `mapstructure:"signed_url_ttl"`
	S3           S3Config      `mapstructure:"s3"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessID  string `mapstructure:"access_id"`
	AccessKey string `mapstructure:"access_key"`
	PublicURL string `mapstructure:"public_url"`
}

type CaptchaConfig struct {
	Store         string        `mapstructure:"store"`
	TTL           time.Duration `mapstructure:"ttl"`
	MaxAttempts   int           `mapstructure:"max_attempts"`
	HashCost      int           `mapstructure:"hash_cost"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type PaginationConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

const (
	StorageDriverSupabase = "supabase"
	StorageDriverS3       = "s3"

	CaptchaStoreMemory   = "memory"
	CaptchaStorePostgres = "postgres"
)

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Supabase.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("supabase config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Captcha.Validate(c.Database); err != nil {
		errs = append(errs, fmt.Sprintf("captcha config: %v", err))
	}

	if err := c.Pagination.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("pagination config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *SupabaseConfig) Validate() error {
	if c.URL == "" {
		return errors.New("url is required (NEXT_PUBLIC_SUPABASE_URL)")
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid url %q", c.URL)
	}
	if c.AnonKey == "" {
		return errors.New("anon_key is required")
	}
	if c.ServiceRoleKey == "" {
		return errors.New("service_role_key is required (SUPABASE_SERVICE_ROLE_KEY)")
	}
	return nil
}

func (c *DatabaseConfig) Enabled() bool {
	return c.Source != ""
}

func (c *DatabaseConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *StorageConfig) Validate() error {
	switch c.Driver {
	case StorageDriverSupabase:
	case StorageDriverS3:
		if c.S3.Region == "" {
			return errors.New("s3.region is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Driver)
	}
	if c.ResumeBucket == "" || c.AvatarBucket == "" {
		return errors.New("resume_bucket and avatar_bucket are required")
	}
	return nil
}

func (c *CaptchaConfig) Validate(db DatabaseConfig) error {
	switch c.Store {
	case CaptchaStoreMemory:
	case CaptchaStorePostgres:
		if !db.Enabled() {
			return errors.New("postgres captcha store requires database.source")
		}
	default:
		return fmt.Errorf("unknown captcha store %q", c.Store)
	}
	if c.TTL <= 0 {
		return errors.New("ttl must be positive")
	}
	if c.MaxAttempts <= 0 {
		return errors.New("max_attempts must be positive")
	}
	return nil
}

func (c *PaginationConfig) Validate() error {
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit <= 0 {
		return fmt.Errorf("max_limit must be positive, got %d", c.MaxLimit)
	}
	if c.DefaultLimit > c.MaxLimit {
		return errors.New("default_limit cannot be greater than max_limit")
	}
	return nil
}
