package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if DB.GormEngine is not one of mysql, postgres, sqlite.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine is not supported")

	// ErrUnknownStorageDriver error if Storage.Driver is not local or s3.
	ErrUnknownStorageDriver = errors.New("toml config storage.driver is not supported")

	// ErrS3BucketEmpty error if the s3 driver is selected without a bucket.
	ErrS3BucketEmpty = errors.New("toml config storage.s3.bucket can not be empty")

	// ErrUnknownCacheDriver error if Cache.Driver is not memory, redis or none.
	ErrUnknownCacheDriver = errors.New("toml config cache.driver is not supported")

	// ErrUnsupportedLocale error if Site.DefaultLocale is neither fr nor en.
	ErrUnsupportedLocale = errors.New("toml config site.defaultLocale must be fr or en")
)
