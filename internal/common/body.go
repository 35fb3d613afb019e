package common

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// MaxBodySize leaves headroom above the image size limit for the other form fields.
const MaxBodySize = "4M"

// IsBodyTooLarge reports whether err stems from a request body over the limit.
func IsBodyTooLarge(err error) bool {
	return errors.Is(err, echo.ErrStatusRequestEntityTooLarge)
}

// LimitBody rejects bodies over limit and answers them with tooLarge instead of a bare 413.
// It covers both a declared Content-Length and a body that only overflows while being read.
func LimitBody(limit string, tooLarge echo.HandlerFunc) echo.MiddlewareFunc {
	limiter := middleware.BodyLimit(limit)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		limited := limiter(next)
		return func(ctx echo.Context) error {
			err := limited(ctx)
			if IsBodyTooLarge(err) {
				return tooLarge(ctx)
			}
			return err
		}
	}
}
