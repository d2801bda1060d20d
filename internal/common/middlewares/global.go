package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/common/response"
)

// RequestLogger mencatat setiap request dengan level sesuai status.
func RequestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogMethod:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			status := v.Status
			if v.Error != nil {
				status = statusOf(v.Error)
			}

			var e *zerolog.Event
			switch {
			case status >= 500:
				e = logger.Error().Err(v.Error)
			case status >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}
			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}
			if userID := GetUserID(c); userID != 0 {
				e = e.Int("user_id", userID)
			}
			e.Dur("latency", v.Latency).
				Int("status", status).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("ip", c.RealIP()).
				Msg("API")
			return nil
		},
	})
}

// LoginRateLimiter membatasi percobaan login per IP.
func LoginRateLimiter(perSecond float64) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStore(rate.Limit(perSecond)),
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return errs.New(http.StatusTooManyRequests, "Terlalu banyak percobaan, coba lagi sebentar")
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.Forbidden("Tidak dapat mengenali klien")
		},
	})
}

func statusOf(err error) int {
	var he *errs.HTTPError
	var ee *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Status
	case errors.As(err, &ee):
		return ee.Code
	}
	return http.StatusInternalServerError
}

// ErrorHandler merender semua error sebagai envelope { success: false, message, errors }.
// Error yang tidak dikenal dicatat lengkap dengan stack dan dijawab 500 generik.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		err = errs.From(err)
		var he *errs.HTTPError
		var ee *echo.HTTPError
		var status int
		var message string
		var fields map[string]string

		switch {
		case errors.As(err, &he):
			status, message, fields = he.Status, he.Message, he.Errors
		case errors.As(err, &ee):
			status = ee.Code
			switch ee.Code {
			case http.StatusNotFound:
				message = "Halaman tidak ditemukan"
			case http.StatusMethodNotAllowed:
				message = "Metode tidak diizinkan"
			default:
				if m, ok := ee.Message.(string); ok {
					message = m
				} else {
					message = http.StatusText(ee.Code)
				}
			}
		default:
			status = http.StatusInternalServerError
			message = errs.Internal().Message
			logger.Error().Stack().Err(err).
				Str("request_id", GetRequestID(c)).
				Str("uri", c.Request().RequestURI).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = response.Fail(c, status, message, fields)
	}
}
