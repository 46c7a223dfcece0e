// Package config loads the chart updater's configuration.
//
// Non-secret settings live in a TOML file; credentials and deployment
// coordinates come from the environment so they stay out of the site
// checkout.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/arice/trmnl-astro/pkg/cache"
	"github.com/arice/trmnl-astro/pkg/chart"
	"github.com/arice/trmnl-astro/pkg/errors"
	"github.com/arice/trmnl-astro/pkg/pipeline"
)

// DefaultPath is where the updater looks for its config file.
const DefaultPath = "config.toml"

// Cache backend names accepted in [CacheConfig].
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendOff   = "off"
)

// Config is the TOML file shape.
type Config struct {
	Location pipeline.Location `toml:"location"`
	Bodies   []string          `toml:"bodies"`
	Display  DisplayConfig     `toml:"display"`
	Output   OutputConfig      `toml:"output"`
	Cache    CacheConfig       `toml:"cache"`
}

// DisplayConfig toggles optional chart elements.
type DisplayConfig struct {
	ShowRetrograde   bool `toml:"show_retrograde"`
	ShowMoonPhase    bool `toml:"show_moon_phase"`
	ShowHouseNumbers bool `toml:"show_house_numbers"`
}

// OutputConfig says where the rendered chart lands.
type OutputConfig struct {
	Dir string `toml:"dir"`
}

// CacheConfig selects the position cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
}

// Duration wraps time.Duration for TOML strings like "10m".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Bodies: chart.DefaultBodies,
		Display: DisplayConfig{
			ShowRetrograde:   true,
			ShowMoonPhase:    true,
			ShowHouseNumbers: true,
		},
		Output: OutputConfig{Dir: "docs"},
		Cache: CacheConfig{
			Backend: CacheBackendFile,
			TTL:     Duration(cache.TTLPositions),
		},
	}
}

// Load reads the TOML file at path on top of the defaults. A missing file at
// the default path is fine; a missing file at an explicit path is an error,
// so typos don't silently fall back.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case "", CacheBackendFile, CacheBackendRedis, CacheBackendOff:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache backend %q (must be file, redis, or off)", c.Cache.Backend)
	}
	for _, body := range c.Bodies {
		if err := errors.ValidateBodyName(body); err != nil {
			return err
		}
	}
	return nil
}

// OpenCache builds the configured cache backend.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheBackendOff:
		return cache.NewNullCache(), nil
	case CacheBackendRedis:
		return cache.NewRedisCache(ctx, c.Cache.RedisAddr)
	default:
		dir, err := cache.DefaultDir()
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	}
}

// Secrets holds the values read from the environment.
type Secrets struct {
	// APIURL is the base URL of the self-hosted Astrologer API.
	APIURL string

	// TRMNLKey authorizes webhook posts; PluginUUID addresses the plugin.
	TRMNLKey   string
	PluginUUID string

	// SiteUser and SiteRepo name the GitHub Pages site.
	SiteUser string
	SiteRepo string
}

// Environment variable names.
const (
	EnvAPIURL     = "ASTROLOGER_API_URL"
	EnvTRMNLKey   = "TRMNL_API_KEY"
	EnvPluginUUID = "PLUGIN_UUID"
	EnvSiteUser   = "GH_USERNAME"
	EnvSiteRepo   = "GH_REPO"
)

// LoadSecrets reads deployment secrets from the environment. Requirements
// depend on the run: a render-only run needs no webhook credentials, so
// callers pass needNotify and needPublish accordingly. All missing variables
// are reported together.
func LoadSecrets(needPublish, needNotify bool) (Secrets, error) {
	s := Secrets{
		APIURL:     os.Getenv(EnvAPIURL),
		TRMNLKey:   os.Getenv(EnvTRMNLKey),
		PluginUUID: os.Getenv(EnvPluginUUID),
		SiteUser:   os.Getenv(EnvSiteUser),
		SiteRepo:   os.Getenv(EnvSiteRepo),
	}

	var missing []string
	if s.APIURL == "" {
		missing = append(missing, EnvAPIURL)
	}
	if needPublish {
		if s.SiteUser == "" {
			missing = append(missing, EnvSiteUser)
		}
		if s.SiteRepo == "" {
			missing = append(missing, EnvSiteRepo)
		}
	}
	if needNotify {
		if s.TRMNLKey == "" {
			missing = append(missing, EnvTRMNLKey)
		}
		if s.PluginUUID == "" {
			missing = append(missing, EnvPluginUUID)
		}
	}
	if len(missing) > 0 {
		return s, errors.New(errors.ErrCodeInvalidConfig,
			"missing environment variables: %s", strings.Join(missing, ", "))
	}

	if err := errors.ValidateURL(s.APIURL); err != nil {
		return s, err
	}
	if needNotify {
		if err := errors.ValidatePluginUUID(s.PluginUUID); err != nil {
			return s, err
		}
	}
	return s, nil
}

// PipelineOptions assembles pipeline options from file config and secrets.
func (c Config) PipelineOptions(s Secrets) pipeline.Options {
	return pipeline.Options{
		Location:       c.Location,
		Bodies:         c.Bodies,
		HideRetrograde: !c.Display.ShowRetrograde,
		HideMoonPhase:  !c.Display.ShowMoonPhase,
		HideHouses:     !c.Display.ShowHouseNumbers,
		OutputDir:      c.Output.Dir,
		SiteUser:       s.SiteUser,
		SiteRepo:       s.SiteRepo,
		PluginUUID:     s.PluginUUID,
	}
}
