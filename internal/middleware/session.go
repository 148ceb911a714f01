package middleware

import (
	"context"
	"time"

	"geobuild-atlas/internal/cache"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SessionConfig for the cache-backed visitor session.
type SessionConfig struct {
	Store             cache.Cache
	AllowCrossSiteDev bool
	IsProduction      bool
}

const (
	SessionCookieName = "atlas.sid"
	sessionMaxAge     = 24 * time.Hour

	sessionIDLocal   = "session_id"
	sessionDataLocal = "session_data"
	sessionNewLocal  = "session_new"
)

// SessionKey is the store key holding the data for session id.
func SessionKey(id string) string {
	return cache.Key("session", id)
}

// Session loads the visitor's session data from cfg.Store, issuing a fresh id
// (and cookie) when the request carries none or an unknown one. Data set by the
// handler is written back with a sliding 24h TTL.
func Session(cfg SessionConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()
		sessionID := c.Cookies(SessionCookieName)

		var data []byte
		if _, err := uuid.Parse(sessionID); err == nil {
			if b, ok := cfg.Store.Get(ctx, SessionKey(sessionID)); ok {
				data = b
			}
		} else {
			sessionID = ""
		}
		isNew := sessionID == ""
		if isNew {
			sessionID = uuid.New().String()
		}

		c.Locals(sessionIDLocal, sessionID)
		c.Locals(sessionDataLocal, data)
		c.Locals(sessionNewLocal, isNew)
		if isNew {
			cookie := SessionCookieConfig(cfg)
			cookie.Value = sessionID
			c.Cookie(&cookie)
		}

		err := c.Next()
		if err != nil {
			return err
		}

		if updated, _ := c.Locals(sessionDataLocal).([]byte); updated != nil {
			if err := cfg.Store.Set(ctx, SessionKey(sessionID), updated, sessionMaxAge); err != nil {
				log.Warn().Err(err).Str("trace_id", GetTraceID(c)).Msg("Session save failed")
			}
		}
		return nil
	}
}

// GetSessionID returns the current session ID from context.
func GetSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(sessionIDLocal).(string)
	return sid
}

// GetSessionData returns the raw session payload, nil for an empty session.
func GetSessionData(c *fiber.Ctx) []byte {
	b, _ := c.Locals(sessionDataLocal).([]byte)
	return b
}

// SetSessionData replaces the session payload; it is persisted after the handler returns.
func SetSessionData(c *fiber.Ctx, data []byte) {
	c.Locals(sessionDataLocal, data)
}

// IsNewSession reports whether the session id was issued on this request.
func IsNewSession(c *fiber.Ctx) bool {
	b, _ := c.Locals(sessionNewLocal).(bool)
	return b
}

// SessionCookieConfig returns the cookie options used for the session cookie.
func SessionCookieConfig(cfg SessionConfig) fiber.Cookie {
	sameSite := "Lax"
	if cfg.AllowCrossSiteDev {
		sameSite = "None"
	}
	secure := cfg.IsProduction || cfg.AllowCrossSiteDev
	return fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	}
}
