// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"golang.org/x/net/html"

	"github.com/humaidq/gnprotocol/config"
	"github.com/humaidq/gnprotocol/models"
	"github.com/humaidq/gnprotocol/reference"
	"github.com/humaidq/gnprotocol/templates"
)

type testSession struct {
	id    string
	data  map[interface{}]interface{}
	flash interface{}
}

func newTestSession() *testSession {
	return &testSession{
		id:   "test-session",
		data: make(map[interface{}]interface{}),
	}
}

func newAuthenticatedSession(userID string) *testSession {
	s := newTestSession()
	s.Set(sessionKeyAuthenticated, true)
	s.Set(sessionKeyUserID, userID)
	return s
}

func (s *testSession) ID() string {
	return s.id
}

func (s *testSession) RegenerateID(http.ResponseWriter, *http.Request) error {
	s.id = "regenerated-session"
	return nil
}

func (s *testSession) Get(key interface{}) interface{} {
	return s.data[key]
}

func (s *testSession) Set(key, val interface{}) {
	s.data[key] = val
}

func (s *testSession) SetFlash(val interface{}) {
	s.flash = val
}

func (s *testSession) Delete(key interface{}) {
	delete(s.data, key)
}

func (s *testSession) Flush() {
	s.data = make(map[interface{}]interface{})
}

func (s *testSession) Encode() ([]byte, error) {
	return nil, nil
}

func (s *testSession) HasChanged() bool {
	return true
}

type testCSRF struct {
	token string
}

func (c testCSRF) Token() string {
	return c.token
}

func (c testCSRF) ValidToken(string) bool {
	return true
}

func (c testCSRF) Error(http.ResponseWriter) {}

func (c testCSRF) Validate(flamego.Context) {}

const testStatistics = `{
	"基础E2": {"n": 812, "min": 10, "p25": 50, "p50": 80, "p75": 120, "max": 200},
	"血E2_1": {"p25": 120, "p50": 210, "p75": 340},
	"血E2_2": {"p25": 400, "p75": 900}
}`

func constantBundle(name string, value float64) *models.Bundle {
	return &models.Bundle{
		Name:     name,
		Kind:     models.KindLinearRegressor,
		Features: []string{"age", "e2_1"},
		Predictor: models.PredictorFunc(func(context.Context, []float64) (float64, error) {
			return value, nil
		}),
	}
}

func newTestArtifacts(t *testing.T) *models.Artifacts {
	t.Helper()

	stats, err := reference.Parse(strings.NewReader(testStatistics))
	if err != nil {
		t.Fatalf("failed to parse statistics: %v", err)
	}

	return &models.Artifacts{
		Models: map[models.Task]*models.Bundle{
			models.TaskStartDose:  constantBundle("start", 150),
			models.TaskTotalDose:  constantBundle("total", 2250),
			models.TaskDrug:       constantBundle("drug", 1),
			models.TaskProtocol:   constantBundle("protocol", 0),
			models.TaskTriggerDay: constantBundle("trigger", 10.5),
			models.TaskTotalDays:  constantBundle("days", 9.26),
		},
		DrugEncoder:     &models.LabelEncoder{Classes: []string{"Gonal-f", "Puregon"}},
		ProtocolEncoder: &models.LabelEncoder{Classes: []string{"antagonist", "long agonist"}},
		Statistics:      stats,
	}
}

func newTestAllowList(t *testing.T) *config.AllowList {
	t.Helper()

	allow, err := config.NewAllowList([]config.Credential{
		{ID: "0001", Passcode: "123456"},
	})
	if err != nil {
		t.Fatalf("failed to build allow-list: %v", err)
	}
	return allow
}

// newTestApp wires the routes the way the start command does, with a fixed
// session and CSRF token.
func newTestApp(t *testing.T, s session.Session, a *models.Artifacts) *flamego.Flame {
	t.Helper()

	fs, err := template.EmbedFS(templates.Templates, ".", []string{".html"})
	if err != nil {
		t.Fatalf("failed to load templates: %v", err)
	}

	f := flamego.New()
	f.Use(func(c flamego.Context) {
		c.MapTo(s, (*session.Session)(nil))
		c.MapTo(testCSRF{token: "csrf-123"}, (*csrf.CSRF)(nil))
		c.Next()
	})
	f.Use(template.Templater(template.Options{FileSystem: fs}))
	f.Use(CSRFInjector())
	f.Use(UserContextInjector())
	f.Use(SiteTitleInjector(""))
	f.Map(a)
	f.Map(newTestAllowList(t))

	f.Get("/healthz", Healthz)
	f.Get("/login", LoginForm)
	f.Post("/login", Login)

	f.Group("", func() {
		f.Get("/", PredictionForm)
		f.Post("/predict", Predict)
		f.Get("/logout", Logout)
	}, RequireAuth)

	f.Group("/api", func() {
		f.Post("/predict", PredictAPI)
	}, RequireAPIAuth)

	return f
}

func performFormPOST(t *testing.T, f *flamego.Flame, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	return rec
}

func performGET(t *testing.T, f *flamego.Flame, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	return rec
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, wantLocation string) {
	t.Helper()

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	if got := rec.Header().Get("Location"); got != wantLocation {
		t.Fatalf("expected redirect %q, got %q", wantLocation, got)
	}
}

func assertFlash(t *testing.T, s *testSession, wantType FlashType, wantMessage string) {
	t.Helper()

	msg, ok := s.flash.(FlashMessage)
	if !ok {
		t.Fatalf("expected flash message, got %T", s.flash)
	}

	if msg.Type != wantType || msg.Message != wantMessage {
		t.Fatalf("unexpected flash message: %#v", msg)
	}
}

func nodeText(n *html.Node) string {
	var sb strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return strings.Join(strings.Fields(sb.String()), " ")
}

func nodeAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// findElements returns every element with the given tag whose class list
// contains class (any class when class is empty).
func findElements(t *testing.T, body, tag, class string) []*html.Node {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to parse html: %v", err)
	}

	var found []*html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			if class == "" || containsClass(nodeAttr(n, "class"), class) {
				found = append(found, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return found
}

func containsClass(attr, class string) bool {
	for _, c := range strings.Fields(attr) {
		if c == class {
			return true
		}
	}
	return false
}

func elementTexts(nodes []*html.Node) []string {
	texts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		texts = append(texts, nodeText(n))
	}
	return texts
}
