package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"

	"github.com/olimci/create-creatif/pkg/utils/decode"
)

const DefaultArchiveURL = "https://api.github.com/repos/Creatif/creatif-backend/zipball"

var ErrInvalidConfig = errors.New("invalid config")

// Config holds everything a run needs besides the user's answers.
type Config struct {
	Archive  ConfigArchive  `toml:"archive" yaml:"archive" json:"archive"`
	Database ConfigDatabase `toml:"database" yaml:"database" json:"database"`
	Server   ConfigServer   `toml:"server" yaml:"server" json:"server"`
	Frontend ConfigFrontend `toml:"frontend" yaml:"frontend" json:"frontend"`
	Secret   ConfigSecret   `toml:"secret" yaml:"secret" json:"secret"`
	Paths    ConfigPaths    `toml:"paths" yaml:"paths" json:"paths"`
}

type ConfigArchive struct {
	URL     string        `toml:"url" yaml:"url" json:"url" env:"CREATIF_ARCHIVE_URL"`
	Timeout time.Duration `toml:"timeout" yaml:"timeout" json:"timeout" env:"CREATIF_ARCHIVE_TIMEOUT"`
	Retries int           `toml:"retries" yaml:"retries" json:"retries" env:"CREATIF_ARCHIVE_RETRIES"`
	// Prune lists paths removed from the unpacked backend, relative to backend/.
	Prune []string `toml:"prune" yaml:"prune" json:"prune" env:"CREATIF_ARCHIVE_PRUNE"`
}

type ConfigDatabase struct {
	User string `toml:"user" yaml:"user" json:"user" env:"CREATIF_DATABASE_USER"`
	Name string `toml:"name" yaml:"name" json:"name" env:"CREATIF_DATABASE_NAME"`
	Host string `toml:"host" yaml:"host" json:"host" env:"CREATIF_DATABASE_HOST"`
	Port int    `toml:"port" yaml:"port" json:"port" env:"CREATIF_DATABASE_PORT"`
}

type ConfigServer struct {
	AppEnv string `toml:"app_env" yaml:"app_env" json:"app_env" env:"CREATIF_SERVER_APP_ENV"`
	Host   string `toml:"host" yaml:"host" json:"host" env:"CREATIF_SERVER_HOST"`
	Port   int    `toml:"port" yaml:"port" json:"port" env:"CREATIF_SERVER_PORT"`
}

type ConfigFrontend struct {
	Port    int    `toml:"port" yaml:"port" json:"port" env:"CREATIF_FRONTEND_PORT"`
	APIHost string `toml:"api_host" yaml:"api_host" json:"api_host" env:"CREATIF_FRONTEND_API_HOST"`
}

type ConfigSecret struct {
	Length int  `toml:"length" yaml:"length" json:"length" env:"CREATIF_SECRET_LENGTH"`
	Hash   bool `toml:"hash" yaml:"hash" json:"hash" env:"CREATIF_SECRET_HASH"`
}

// ConfigPaths are paths inside the backend container.
type ConfigPaths struct {
	LogDirectory    string `toml:"log_directory" yaml:"log_directory" json:"log_directory" env:"CREATIF_LOG_DIRECTORY"`
	AssetsDirectory string `toml:"assets_directory" yaml:"assets_directory" json:"assets_directory" env:"CREATIF_ASSETS_DIRECTORY"`
}

// Default constructs a new Config with default values.
func Default() *Config {
	return &Config{
		Archive: ConfigArchive{
			URL:     DefaultArchiveURL,
			Timeout: 5 * time.Minute,
			Retries: 0,
			Prune: []string{
				"pgx_ulid",
				"docker-entrypoint-initdb.d",
				"Dockerfile",
				"docker-compose.yml",
			},
		},
		Database: ConfigDatabase{
			User: "api",
			Name: "api",
			Host: "db",
			Port: 5432,
		},
		Server: ConfigServer{
			AppEnv: "local",
			Host:   "localhost",
			Port:   3002,
		},
		Frontend: ConfigFrontend{
			Port:    5173,
			APIHost: "http://localhost:3002",
		},
		Secret: ConfigSecret{
			Length: 20,
			Hash:   true,
		},
		Paths: ConfigPaths{
			LogDirectory:    "/app/var/log",
			AssetsDirectory: "/app/assets",
		},
	}
}

// Load builds a Config from the defaults, the optional file at path and CREATIF_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := decode.File(path, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from their CREATIF_* environment variables.
func (c *Config) ApplyEnv() error {
	err := envdecode.Decode(c)
	if err == nil || errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil
	}
	return fmt.Errorf("%w: environment: %w", ErrInvalidConfig, err)
}

// Validate validates the Config.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	c.Archive.URL = strings.TrimSpace(c.Archive.URL)
	if c.Archive.URL == "" {
		fail("archive.url is required")
	} else if u, err := url.Parse(c.Archive.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		fail("archive.url must be an http(s) URL (got %q)", c.Archive.URL)
	}

	if c.Archive.Timeout < 0 {
		fail("archive.timeout must not be negative (got %s)", c.Archive.Timeout)
	}
	if c.Archive.Retries < 0 {
		fail("archive.retries must not be negative (got %d)", c.Archive.Retries)
	}
	for _, p := range c.Archive.Prune {
		clean := filepath.Clean(strings.TrimSpace(p))
		if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			fail("archive.prune entry %q must be a path inside backend/", p)
		}
	}

	for name, port := range map[string]int{
		"database.port": c.Database.Port,
		"server.port":   c.Server.Port,
		"frontend.port": c.Frontend.Port,
	} {
		if port < 1 || port > 65535 {
			fail("%s must be between 1 and 65535 (got %d)", name, port)
		}
	}

	for name, v := range map[string]string{
		"database.user": c.Database.User,
		"database.name": c.Database.Name,
		"database.host": c.Database.Host,
		"server.host":   c.Server.Host,
	} {
		if strings.TrimSpace(v) == "" {
			fail("%s is required", name)
		}
	}

	if c.Secret.Length < 8 || c.Secret.Length > 72 {
		fail("secret.length must be between 8 and 72 (got %d)", c.Secret.Length)
	}

	return errors.Join(errs...)
}
