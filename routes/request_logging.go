/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/session"

	"github.com/humaidq/gnprotocol/logging"
)

var requestLogger = logging.Logger(logging.SourceWebRequest)

// RequestLogger logs request metadata and timing for each HTTP request.
// Submitted measurements are never logged.
func RequestLogger(c flamego.Context, s session.Session) {
	start := time.Now()

	c.Next()

	status := c.ResponseWriter().Status()
	if status == 0 {
		status = http.StatusOK
	}

	fields := append(requestFields(c, s),
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if c.Request().Method == http.MethodPost {
		fields = append(fields, "content_type", c.Request().Header.Get("Content-Type"))
	}

	requestLogger.Info("request", fields...)
}

// logDenied records a rejected login or an unauthenticated request.
func logDenied(c flamego.Context, s session.Session, event, reason string, extra ...interface{}) {
	fields := append(requestFields(c, s), "reason", reason)
	requestLogger.Warn(event, append(fields, extra...)...)
}

func requestFields(c flamego.Context, s session.Session) []interface{} {
	r := c.Request()
	fields := []interface{}{
		"method", r.Method,
		"path", r.URL.Path,
		"ip", clientIP(r.Header.Get("X-Forwarded-For"), c.RemoteAddr()),
	}
	if authenticated, userID := sessionAuthInfo(s); authenticated {
		fields = append(fields, "user_id", userID)
	}
	return fields
}

// sessionAuthInfo reports whether the session belongs to a signed-in
// allow-listed user, and which one.
func sessionAuthInfo(s session.Session) (bool, string) {
	if authenticated, _ := s.Get(sessionKeyAuthenticated).(bool); !authenticated {
		return false, ""
	}

	userID, _ := s.Get(sessionKeyUserID).(string)
	if userID == "" {
		return false, ""
	}
	return true, userID
}

// clientIP prefers the first X-Forwarded-For hop over the socket address.
func clientIP(forwardedFor, remoteAddr string) string {
	first, _, _ := strings.Cut(forwardedFor, ",")
	if ip := strings.TrimSpace(first); ip != "" {
		return ip
	}
	return remoteAddr
}
