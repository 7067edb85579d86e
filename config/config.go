// ABOUTME: Application configuration loaded from defaults, .env, a TOML file and the environment
// ABOUTME: Converts into civicrm.Config for the CRM client and validates before use
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/harperreed/civibridge/civicrm"
	"github.com/joho/godotenv"
)

const (
	AppName         = "civibridge"
	DefaultHTTPAddr = ":8080"
	DefaultTimeout  = "30s"
)

// Environment overrides. Non-empty values win over the file.
const (
	EnvCVPath       = "CIVICRM_CV_PATH"
	EnvSettingsPath = "CIVICRM_SETTINGS_PATH"
	EnvJWTSecret    = "CIVIBRIDGE_JWT_SECRET"
	EnvUserEmail    = "CIVIBRIDGE_USER_EMAIL"
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogFormat    = "LOG_FORMAT"
)

type Config struct {
	Log    LogConfig    `toml:"log"`
	CRM    CRMConfig    `toml:"crm"`
	Roles  RolesConfig  `toml:"roles"`
	Server ServerConfig `toml:"server"`
	Auth   AuthConfig   `toml:"auth"`
	MCP    MCPConfig    `toml:"mcp"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// CRMConfig locates cv and bounds its work.
type CRMConfig struct {
	CVPath          string `toml:"cv_path"`
	SettingsPath    string `toml:"settings_path"`
	SettingsEnv     string `toml:"settings_env"`
	Timeout         string `toml:"timeout"`
	StatsSampleSize int    `toml:"stats_sample_size"`
	ScanLimit       int    `toml:"scan_limit"`
}

// RolesConfig maps case roles to CiviCRM relationship type ids.
type RolesConfig struct {
	CoordinatorTypeID  int64  `toml:"coordinator_type_id"`
	ManagerTypeID      int64  `toml:"manager_type_id"`
	ResolveDynamically bool   `toml:"resolve_dynamically"`
	CoordinatorLabel   string `toml:"coordinator_label"`
	ManagerLabel       string `toml:"manager_label"`
	OpenStatusID       int64  `toml:"open_status_id"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// AuthConfig holds the HS256 secret shared with the identity provider.
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// MCPConfig holds the identity the stdio server acts as.
type MCPConfig struct {
	UserEmail string `toml:"user_email"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	crm := civicrm.DefaultConfig()
	return Config{
		Log: LogConfig{Level: "info", Format: "text"},
		CRM: CRMConfig{
			CVPath:          crm.CVPath,
			SettingsEnv:     crm.SettingsEnv,
			Timeout:         DefaultTimeout,
			StatsSampleSize: crm.StatsSampleSize,
			ScanLimit:       crm.ScanLimit,
		},
		Roles: RolesConfig{
			CoordinatorTypeID: crm.Roles.CoordinatorTypeID,
			ManagerTypeID:     crm.Roles.ManagerTypeID,
			CoordinatorLabel:  crm.Roles.CoordinatorLabel,
			ManagerLabel:      crm.Roles.ManagerLabel,
			OpenStatusID:      crm.Roles.OpenStatusID,
		},
		Server: ServerConfig{Addr: DefaultHTTPAddr},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/civibridge/config.toml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}

// Load builds the configuration. An empty path reads DefaultPath when it
// exists; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || explicit {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.CRM.CVPath, EnvCVPath)
	set(&c.CRM.SettingsPath, EnvSettingsPath)
	set(&c.Auth.JWTSecret, EnvJWTSecret)
	set(&c.MCP.UserEmail, EnvUserEmail)
	set(&c.Log.Level, EnvLogLevel)
	set(&c.Log.Format, EnvLogFormat)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.CRM.CVPath) == "" {
		return errors.New("invalid config: crm.cv_path is empty")
	}
	timeout, err := c.CRM.TimeoutDuration()
	if err != nil {
		return fmt.Errorf("invalid config: crm.timeout: %w", err)
	}
	if timeout <= 0 {
		return fmt.Errorf("invalid config: crm.timeout must be positive, got %s", c.CRM.Timeout)
	}
	if c.Roles.CoordinatorTypeID == c.Roles.ManagerTypeID {
		return fmt.Errorf("invalid config: coordinator and manager share relationship type %d", c.Roles.ManagerTypeID)
	}
	return nil
}

// TimeoutDuration parses Timeout; empty means the default.
func (c CRMConfig) TimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(c.Timeout) == "" {
		return time.ParseDuration(DefaultTimeout)
	}
	return time.ParseDuration(c.Timeout)
}

// ClientConfig converts to the CRM client's configuration.
func (c Config) ClientConfig() civicrm.Config {
	return civicrm.Config{
		CVPath:          c.CRM.CVPath,
		SettingsPath:    c.CRM.SettingsPath,
		SettingsEnv:     c.CRM.SettingsEnv,
		StatsSampleSize: c.CRM.StatsSampleSize,
		ScanLimit:       c.CRM.ScanLimit,
		Roles: civicrm.RoleConfig{
			CoordinatorTypeID:  c.Roles.CoordinatorTypeID,
			ManagerTypeID:      c.Roles.ManagerTypeID,
			ResolveDynamically: c.Roles.ResolveDynamically,
			CoordinatorLabel:   c.Roles.CoordinatorLabel,
			ManagerLabel:       c.Roles.ManagerLabel,
			OpenStatusID:       c.Roles.OpenStatusID,
		},
	}
}
