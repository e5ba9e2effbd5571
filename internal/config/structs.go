package config

import (
	"time"

	"github.com/ecc24clmk/clmk-site/internal/logger"
)

// Storage and cache drivers.
const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"

	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
	CacheDriverNone   = "none"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Storage   Storage
	Cache     Cache
	Site      Site
	Admin     Admin
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    // enable static file browsing (for development purposes only)
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	BodyLimit      int     // max request body in bytes, uploads included
	MetricsPath    string  // prometheus scrape path, empty disables it
	Session        Session // session settings
}

// Storage holds the disk settings for uploaded images.
type Storage struct {
	Driver        string // local or s3
	MaxImageWidth int    // downscale raster uploads wider than this, 0 keeps originals
	Local         LocalStorage
	S3            S3Storage
}

// LocalStorage stores files below Root and serves them at URLPrefix.
type LocalStorage struct {
	Root      string
	URLPrefix string
}

// S3Storage points at an S3 compatible bucket (AWS, MinIO).
type S3Storage struct {
	Bucket       string
	Region       string
	Endpoint     string // custom endpoint, empty for AWS
	AccessKey    string
	SecretKey    string
	PublicURL    string // base URL objects are publicly reachable at
	UsePathStyle bool
}

// Cache configures the settings cache backend.
type Cache struct {
	Driver string // memory, redis or none
	TTL    time.Duration
	Redis  Redis
}

// Redis connection settings.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Site holds public site behaviour.
type Site struct {
	DefaultLocale   string
	RefreshInterval time.Duration // homepage poll interval
	NewsLimit       int
}

// Admin is the account created on first start when no user exists.
type Admin struct {
	Name     string
	Email    string
	Password string
}
