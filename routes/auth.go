/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/gnprotocol/config"
)

const (
	sessionKeyAuthenticated = "authenticated"
	sessionKeyUserID        = "user_id"
)

// LoginForm renders the login page
func LoginForm(c flamego.Context, s session.Session, t template.Template, data template.Data) {
	if authenticated, _ := sessionAuthInfo(s); authenticated {
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	data["HeaderOnly"] = true
	t.HTML(http.StatusOK, "login")
}

// Login checks the submitted user id and passcode against the allow-list.
// A failed attempt re-renders the empty form without saying why.
func Login(c flamego.Context, s session.Session, allow *config.AllowList, t template.Template, data template.Data) {
	data["HeaderOnly"] = true

	if err := c.Request().ParseForm(); err != nil {
		logDenied(c, s, "login rejected", "malformed_form", "error", err)
		t.HTML(http.StatusOK, "login")
		return
	}

	userID := strings.TrimSpace(c.Request().Form.Get("user_id"))
	passcode := c.Request().Form.Get("passcode")

	if !allow.Verify(userID, passcode) {
		logDenied(c, s, "login rejected", "invalid_credentials", "attempted_user_id", userID)
		t.HTML(http.StatusOK, "login")
		return
	}

	if err := s.RegenerateID(c.ResponseWriter(), c.Request().Request); err != nil {
		logger.Error("Failed to regenerate session ID", "error", err)
		t.HTML(http.StatusOK, "login")
		return
	}

	s.Set(sessionKeyAuthenticated, true)
	s.Set(sessionKeyUserID, userID)

	requestLogger.Info("login", requestFields(c, s)...)

	c.Redirect("/", http.StatusSeeOther)
}

// Logout handles logout request
func Logout(s session.Session, c flamego.Context) {
	s.Delete(sessionKeyAuthenticated)
	s.Delete(sessionKeyUserID)
	SetInfoFlash(s, "Signed out")
	c.Redirect("/login", http.StatusSeeOther)
}

// RequireAuth is a middleware that checks if user is authenticated
func RequireAuth(s session.Session, c flamego.Context) {
	if authenticated, _ := sessionAuthInfo(s); !authenticated {
		logDenied(c, s, "access denied", "unauthenticated", "redirect", "/login")
		c.Redirect("/login", http.StatusSeeOther)
		return
	}
	c.Next()
}

// RequireAPIAuth rejects unauthenticated API calls with an empty 401.
func RequireAPIAuth(s session.Session, c flamego.Context) {
	if authenticated, _ := sessionAuthInfo(s); !authenticated {
		logDenied(c, s, "access denied", "unauthenticated", "status", http.StatusUnauthorized)
		c.ResponseWriter().WriteHeader(http.StatusUnauthorized)
		return
	}
	c.Next()
}
