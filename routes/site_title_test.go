// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
)

func injectedData(t *testing.T, handlers ...flamego.Handler) template.Data {
	t.Helper()

	var captured template.Data

	f := flamego.New()
	f.Use(func(c flamego.Context) {
		c.Map(template.Data{})
		c.Next()
	})
	for _, h := range handlers {
		f.Use(h)
	}
	f.Get("/", func(data template.Data) {
		captured = data
	})

	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if captured == nil {
		t.Fatal("expected handler to run")
	}
	return captured
}

func TestSiteTitleInjectorUsesConfiguredValue(t *testing.T) {
	t.Parallel()

	data := injectedData(t, SiteTitleInjector("  IVF Clinic  "))

	if title, _ := data["PageTitle"].(string); title != "IVF Clinic" {
		t.Fatalf("expected configured site title, got %q", title)
	}
	if title, _ := data["SiteTitle"].(string); title != "IVF Clinic" {
		t.Fatalf("expected configured site title, got %q", title)
	}
}

func TestSiteTitleInjectorFallsBackToDefault(t *testing.T) {
	t.Parallel()

	data := injectedData(t, SiteTitleInjector("   "))

	if title, _ := data["PageTitle"].(string); title != defaultSiteTitle {
		t.Fatalf("expected default site title %q, got %q", defaultSiteTitle, title)
	}
}

func TestFlashInjectorExposesMessage(t *testing.T) {
	t.Parallel()

	withFlash := func(flash session.Flash) flamego.Handler {
		return func(c flamego.Context) {
			c.MapTo(flash, (*session.Flash)(nil))
			c.Next()
		}
	}

	data := injectedData(t, withFlash(FlashMessage{Type: FlashInfo, Message: "Signed out"}), FlashInjector())

	msg, ok := data["Flash"].(FlashMessage)
	if !ok || msg.Message != "Signed out" || msg.Type != FlashInfo {
		t.Fatalf("expected flash message in template data, got %#v", data["Flash"])
	}

	data = injectedData(t, withFlash("plain string"), FlashInjector())
	if _, ok := data["Flash"]; ok {
		t.Fatalf("expected foreign flash values to be ignored, got %#v", data["Flash"])
	}
}

func TestNoCacheHeaders(t *testing.T) {
	t.Parallel()

	f := flamego.New()
	f.Use(NoCacheHeaders())
	f.Post("/predict", func(c flamego.Context) {
		c.ResponseWriter().WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/predict", nil))

	if got := rec.Header().Get("Cache-Control"); got != "no-store, max-age=0" {
		t.Fatalf("expected no-store cache control, got %q", got)
	}
	if got := rec.Header().Get("X-Robots-Tag"); got == "" {
		t.Fatal("expected X-Robots-Tag header")
	}
}
