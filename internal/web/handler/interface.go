package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ecc24clmk/clmk-site/internal/asset"
	"github.com/ecc24clmk/clmk-site/internal/auth"
	"github.com/ecc24clmk/clmk-site/internal/config"
	"github.com/ecc24clmk/clmk-site/internal/homepage"
	"github.com/ecc24clmk/clmk-site/internal/settings"
)

// ErrMissingDeps is returned by Init when a required dependency is nil.
var ErrMissingDeps = errors.New(ErrNilACDFatalLogMsg)

// Deps are the services shared by the handlers.
type Deps struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Auth     *auth.Service
	Assets   *asset.Manager
	Settings *settings.Service
	Homepage *homepage.Aggregator
}

// Check reports ErrMissingDeps when the config or the database is missing.
func (d *Deps) Check() error {
	if d == nil || d.Cfg == nil || d.DB == nil {
		return ErrMissingDeps
	}

	return nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}
