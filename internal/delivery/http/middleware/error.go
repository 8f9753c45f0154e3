package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"teachassist/internal/pkg/response"
)

// AppError is the one error shape handlers return. The status and message
// travel to the client; Cause stays server-side for logs.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

type ErrorMiddleware struct {
	logger *log.Logger
}

func NewErrorMiddleware(logger *log.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Printf("panic recovered | path=%s error=%v", c.Path(), r)
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := m.normalize(c, err)
		return response.Error(c, status, msg, data)
	}
}

// normalize collapses every error into a client-safe status, message, and
// payload. Anything 5xx is logged with its cause and masked.
func (m *ErrorMiddleware) normalize(c fiber.Ctx, err error) (int, string, interface{}) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		if status >= 500 {
			m.logger.Printf("internal error | path=%s error=%v", c.Path(), appErr)
		}
		// A 5xx without an explicit message is masked; handlers that set one
		// (upstream provider failures) keep it so the client sees the
		// remediation.
		if status <= 0 || (status >= 500 && appErr.Message == "") {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}

		msg := appErr.Message
		if msg == "" {
			msg = response.DefaultMessageForStatus(status)
		}
		return status, msg, appErr.Data
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= 500 {
			m.logger.Printf("internal error | path=%s error=%v", c.Path(), fiberErr)
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}

		msg := fiberErr.Message
		if msg == "" {
			msg = response.DefaultMessageForStatus(status)
		}
		return status, msg, nil
	}

	m.logger.Printf("internal error | path=%s error=%v", c.Path(), err)
	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
}
