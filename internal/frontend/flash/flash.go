package flash

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// SessionCookieName identifies the browser session flash messages are keyed by.
	SessionCookieName = "catalog_session"
	// MessageTTL bounds how long an unread message is kept.
	MessageTTL = 10 * time.Minute
)

// Store keeps at most one pending message per session. Pop returns "" when there is none.
type Store interface {
	Put(ctx context.Context, sessionID, message string) error
	Pop(ctx context.Context, sessionID string) (string, error)
	Close() error
}

// NewStore returns a redis backed store when addr is set and an in-process store otherwise.
func NewStore(ctx context.Context, addr, password string, db int) (Store, error) {
	if addr == "" {
		return NewMemoryStore(), nil
	}
	return NewRedisStore(ctx, addr, password, db)
}

// Flasher attaches flash messages to the session cookie of a request.
type Flasher struct {
	store Store
}

func NewFlasher(store Store) *Flasher {
	return &Flasher{store: store}
}

// Set stores message for the next page the session renders. Failures are logged only.
func (f *Flasher) Set(ctx echo.Context, message string) {
	id := sessionID(ctx)
	if id == "" {
		id = uuid.NewString()
		ctx.SetCookie(&http.Cookie{
			Name:     SessionCookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	if err := f.store.Put(ctx.Request().Context(), id, message); err != nil {
		slog.Warn("failed to store flash message", "error", err)
	}
}

// Take returns and clears the pending message of the session.
func (f *Flasher) Take(ctx echo.Context) string {
	id := sessionID(ctx)
	if id == "" {
		return ""
	}
	message, err := f.store.Pop(ctx.Request().Context(), id)
	if err != nil {
		slog.Warn("failed to read flash message", "error", err)
		return ""
	}
	return message
}

func sessionID(ctx echo.Context) string {
	cookie, err := ctx.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}
