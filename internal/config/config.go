// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/ecc24clmk/clmk-site/internal/locale"
)

// EnvConfigJSON names the environment variable holding a JSON config override.
const EnvConfigJSON = "CLMK_SITE_CONFIG_JSON"

const (
	defaultShutDownTime    = 5
	defaultBodyLimit       = 12 << 20
	defaultCacheTTL        = time.Hour
	defaultRefreshInterval = 60 * time.Second
	defaultNewsLimit       = 6
	defaultStorageRoot     = "./storage/app/public"
	defaultStoragePrefix   = "/storage"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon cannot start without and fills
// defaults for the optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.BodyLimit == 0 {
		c.Webserver.BodyLimit = defaultBodyLimit
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineMySQL
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownGormEngine, c.DB.GormEngine)
	}

	if err := validateStorage(&c.Storage); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	switch c.Cache.Driver {
	case "":
		c.Cache.Driver = CacheDriverMemory
	case CacheDriverMemory, CacheDriverRedis, CacheDriverNone:
	default:
		return errors.Wrap(ErrUnknownCacheDriver, c.Cache.Driver)
	}

	if c.Cache.TTL == 0 {
		c.Cache.TTL = defaultCacheTTL
	}

	if c.Site.DefaultLocale == "" {
		c.Site.DefaultLocale = locale.Default
	}

	if !locale.IsSupported(c.Site.DefaultLocale) {
		return errors.Wrap(ErrUnsupportedLocale, c.Site.DefaultLocale)
	}

	if c.Site.RefreshInterval == 0 {
		c.Site.RefreshInterval = defaultRefreshInterval
	}

	if c.Site.NewsLimit == 0 {
		c.Site.NewsLimit = defaultNewsLimit
	}

	return nil
}

func validateStorage(s *Storage) error {
	switch s.Driver {
	case "", StorageDriverLocal:
		s.Driver = StorageDriverLocal

		if s.Local.Root == "" {
			s.Local.Root = defaultStorageRoot
		}

		if s.Local.URLPrefix == "" {
			s.Local.URLPrefix = defaultStoragePrefix
		}
	case StorageDriverS3:
		if s.S3.Bucket == "" {
			return ErrS3BucketEmpty
		}
	default:
		return errors.Wrap(ErrUnknownStorageDriver, s.Driver)
	}

	return nil
}
