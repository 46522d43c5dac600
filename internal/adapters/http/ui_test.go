package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"trainerweb/internal/adapters/http/middleware"
)

func TestUI_LoginPageRendersForm(t *testing.T) {
	e := newTestEnv(t)
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`action="/login"`, `name="gorilla.csrf.Token"`, `<option value="Anna Beispiel">`} {
		if !strings.Contains(body, want) {
			t.Errorf("login page missing %q", want)
		}
	}
	if strings.Contains(body, "Olga Alt") {
		t.Error("inactive trainer offered on login page")
	}
}

func TestUI_LoginPostWithoutTokenIsRejected(t *testing.T) {
	e := newTestEnv(t)
	form := url.Values{"identifier": {"t-anna"}, "pin": {"1234"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if strings.Contains(rec.Header().Get("Set-Cookie"), middleware.SessionCookieName) {
		t.Error("session cookie set despite missing CSRF token")
	}
}

func TestUI_PagesRedirectWithoutSession(t *testing.T) {
	e := newTestEnv(t)
	for _, path := range []string{"/", "/training/tr-next"} {
		rec := httptest.NewRecorder()
		e.srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
			t.Errorf("%s: %d -> %q, want 303 -> /login", path, rec.Code, rec.Header().Get("Location"))
		}
	}
}

func TestUI_HomeWithCookieSession(t *testing.T) {
	e := newTestEnv(t)
	token := e.login(t, "t-anna", "1234")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Hallo Anna Beispiel", `href="/training/tr-next"`, "Noch 2 Trainer"} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}
}

func TestUI_TrainingPageRendersPlanMarkdown(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(t, "t-admin", "9999")
	_, out := e.call(t, http.MethodPost, "/api/admin/trainings/tr-next/plan", admin, map[string]any{
		"titel":  "Aufwärmen",
		"inhalt": "**Laufen**\n<script>alert(1)</script>",
	})
	assertOK(t, out)

	req := httptest.NewRequest(http.MethodGet, "/training/tr-next", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: admin})
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "<strong>Laufen</strong>") {
		t.Errorf("markdown not rendered:\n%s", body)
	}
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("raw HTML from plan content was not escaped")
	}
}

func TestUI_UnknownTrainingShowsError(t *testing.T) {
	e := newTestEnv(t)
	token := e.login(t, "t-anna", "1234")
	req := httptest.NewRequest(http.MethodGet, "/training/fehlt", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Training nicht gefunden.") {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestUI_LogoutEndsSession(t *testing.T) {
	e := newTestEnv(t)
	token := e.login(t, "t-anna", "1234")
	withCookie := func() *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
		return r
	}
	if s, ok := e.srv.cookieSession(withCookie()); !ok || s.TrainerID != "t-anna" {
		t.Fatalf("cookie session = %+v, %v", s, ok)
	}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	e.srv.handleLogoutForm(rec, req)

	if rec.Header().Get("Location") != "/login" {
		t.Errorf("Location = %q", rec.Header().Get("Location"))
	}
	if _, ok := e.srv.cookieSession(withCookie()); ok {
		t.Error("session still valid after logout")
	}
}
