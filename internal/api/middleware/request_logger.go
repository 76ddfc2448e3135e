package middleware

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/storefront-api/pkg/logger"
)

// RequestLogger emits one structured entry per request. Requests that passed
// Auth also carry the caller's user_id.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			var userID string
			if u := CurrentUser(c); u != nil {
				userID = u.ID
			}
			reqLog := logger.Request(log, v.RequestID, userID)

			evt := reqLog.Info()
			switch {
			case v.Status >= 500:
				evt = reqLog.Error().Err(v.Error)
			case v.Status >= 400:
				evt = reqLog.Warn()
			}

			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
