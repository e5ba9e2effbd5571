// Package session keeps the per visitor state: the signed in user, the
// chosen language and the one shot flash notice.
package session

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog/log"

	"github.com/ecc24clmk/clmk-site/internal/db/models"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "session"

	dataKey   = "data"
	localsKey = "session_data"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// ErrNotInitialized is returned when Init was not called.
var ErrNotInitialized = errors.New("session store is not initialized")

// Store is the global session store instance.
var Store *session.Store

// User is the part of the account kept in the session.
type User struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Flash is a notice shown once on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Data represents the session data structure.
type Data struct {
	User   User   `json:"user"`
	Locale string `json:"locale,omitempty"`
	Flash  *Flash `json:"flash,omitempty"`
}

// Authenticated reports whether a user is signed in.
func (d *Data) Authenticated() bool {
	return d != nil && d.User.ID > 0
}

// Config configures the store.
type Config struct {
	Storage    fiber.Storage
	Expiration time.Duration
	Secure     bool // send the cookie over https only
}

// Init initializes the session store with the provided storage backend.
func Init(cfg Config) {
	if cfg.Storage == nil {
		panic("storage is nil")
	}

	Store = session.New(session.Config{
		Storage:        cfg.Storage,
		Expiration:     cfg.Expiration,
		KeyLookup:      "cookie:" + CookieName,
		CookieSecure:   cfg.Secure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
}

// Load returns the session data of the request. A visitor without a session
// gets empty data. The result is cached for the rest of the request.
func Load(c *fiber.Ctx) (*Data, error) {
	if d, ok := c.Locals(localsKey).(*Data); ok {
		return d, nil
	}

	if Store == nil {
		return nil, ErrNotInitialized
	}

	sess, err := Store.Get(c)
	if err != nil {
		return nil, err
	}

	d := new(Data)
	if raw, ok := sess.Get(dataKey).(string); ok && raw != "" {
		if err = json.Unmarshal([]byte(raw), d); err != nil {
			// unreadable data is treated as a fresh visitor
			d = new(Data)
		}
	}

	c.Locals(localsKey, d)

	return d, nil
}

// Save writes d to the session of the request, creating it when needed.
func Save(c *fiber.Ctx, d *Data) error {
	sess, err := Store.Get(c)
	if err != nil {
		return err
	}

	return write(c, sess, d)
}

func write(c *fiber.Ctx, sess *session.Session, d *Data) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}

	sess.Set(dataKey, string(raw))

	if err = sess.Save(); err != nil {
		return err
	}

	c.Locals(localsKey, d)

	return nil
}

// Update loads the session, applies fn and saves it.
func Update(c *fiber.Ctx, fn func(d *Data)) error {
	d, err := Load(c)
	if err != nil {
		return err
	}

	fn(d)

	return Save(c, d)
}

// Login stores user in a fresh session id. The language of the visitor is
// carried over.
func Login(c *fiber.Ctx, user *models.User) error {
	d, err := Load(c)
	if err != nil {
		return err
	}

	sess, err := Store.Get(c)
	if err != nil {
		return err
	}

	if err = sess.Regenerate(); err != nil {
		return err
	}

	next := &Data{
		User:   User{ID: user.ID, Name: user.Name, Email: user.Email},
		Locale: d.Locale,
	}

	return write(c, sess, next)
}

// Logout destroys the session and expires the cookie.
func Logout(c *fiber.Ctx) error {
	if Store == nil {
		return ErrNotInitialized
	}

	sess, err := Store.Get(c)
	if err != nil {
		return err
	}

	c.Locals(localsKey, new(Data))

	return sess.Destroy()
}

// SetFlash queues a notice for the next rendered page.
func SetFlash(c *fiber.Ctx, kind, message string) error {
	return Update(c, func(d *Data) {
		d.Flash = &Flash{Kind: kind, Message: message}
	})
}

// PopFlash returns the queued notice, if any, and clears it.
func PopFlash(c *fiber.Ctx) *Flash {
	d, err := Load(c)
	if err != nil || d.Flash == nil {
		return nil
	}

	f := d.Flash
	d.Flash = nil

	if err = Save(c, d); err != nil {
		log.Warn().Err(err).Msg("failed to clear flash notice")
	}

	return f
}
