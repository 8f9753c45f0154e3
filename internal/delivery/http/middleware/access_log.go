package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AccessLogMiddleware struct {
	logger *log.Logger
}

func NewAccessLogMiddleware(logger *log.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
			c.Set("X-Request-ID", rid)
		}

		err := c.Next()

		// Set by the auth middleware; "-" until then.
		who := "-"
		if uid, ok := c.Locals(CtxUserIDKey).(uuid.UUID); ok {
			who = uid.String()
		}

		if m != nil && m.logger != nil {
			m.logger.Printf(
				"HTTP access | rid=%s ip=%s method=%s path=%s status=%d latency=%s user=%s bytes=%d ua=%q",
				rid, c.IP(), c.Method(), c.OriginalURL(), c.Response().StatusCode(),
				time.Since(start), who, len(c.Response().Body()), c.Get("User-Agent"),
			)
		}

		return err
	}
}
