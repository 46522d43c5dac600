package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"trainerweb/internal/adapters/http/middleware"
	"trainerweb/internal/application/orchestrators"
	"trainerweb/internal/application/projections"
	"trainerweb/internal/domain/apperror"
	"trainerweb/internal/domain/session"
	"trainerweb/internal/domain/trainer"
)

//go:embed templates/*.html
var templatesFS embed.FS

// mdRenderer renders training plans. Raw HTML in the input is escaped
// because WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// registerUI mounts the HTML pages. Forms post with a gorilla/csrf token
// and the session travels in the trainerweb_session cookie.
func (s *Server) registerUI(r chi.Router) {
	r.Get("/login", s.handleLoginPage)
	r.With(middleware.RateLimit(s.loginLimiter, denyLoginPage)).Post("/login", s.handleLoginForm)
	r.Post("/logout", s.handleLogoutForm)

	r.Group(func(r chi.Router) {
		r.Use(s.requireCookieSession)
		r.Get("/", s.handleHomePage)
		r.Get("/training/{id}", s.handleTrainingPage)
		r.Post("/training/{id}/enroll", s.handleEnrollForm)
		r.Post("/einteilung/{id}/withdraw", s.handleWithdrawForm)
		r.Post("/einteilung/{id}/checkin", s.handleCheckInForm)
		r.Post("/einteilung/{id}/cancel", s.handleCancelForm)
	})
}

// requireCookieSession redirects to /login when the cookie is missing or stale.
func (s *Server) requireCookieSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.cookieSession(r)
		if !ok {
			middleware.ClearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(middleware.WithSession(r.Context(), sess)))
	})
}

func (s *Server) cookieSession(r *http.Request) (session.Session, bool) {
	c, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || c.Value == "" {
		return session.Session{}, false
	}
	sess, err := orchestrators.ExecuteResolveSession(r.Context(), c.Value, s.sessionDeps())
	if err != nil {
		return session.Session{}, false
	}
	return sess, true
}

// page is the data every template receives.
type page struct {
	User    *projections.UserView
	Flash   string
	Error   string
	CSRF    template.HTML
	Content any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, status int, content any) {
	p := page{
		Flash:   r.URL.Query().Get("msg"),
		Error:   r.URL.Query().Get("err"),
		CSRF:    csrf.TemplateField(r),
		Content: content,
	}
	if sess, ok := middleware.SessionFrom(r.Context()); ok {
		u := projections.NewUserView(sess)
		p.User = &u
	}
	if e, ok := content.(uiError); ok {
		p.Error = string(e)
		p.Content = nil
	}

	tpl, err := template.New("layout.html").Funcs(template.FuncMap{
		"markdown": renderMarkdown,
	}).ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
	if err != nil {
		slog.Error("template_parse_failed", "template", name, "error", err)
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, p); err != nil {
		slog.Error("template_render_failed", "template", name, "error", err)
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// uiError is rendered in place of page content.
type uiError string

// userMessage maps err to the text shown on a page.
func userMessage(r *http.Request, err error) string {
	if e, ok := apperror.As(err); ok {
		return e.Message
	}
	slog.Error("internal_error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	return msgInternal
}

// loginContent feeds login.html.
type loginContent struct {
	Names      []string
	Identifier string
	Candidates []trainer.Candidate
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.cookieSession(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	names, err := projections.QueryGetActiveTrainerNames(r.Context(), s.stores.Trainers)
	if err != nil {
		s.render(w, r, "login.html", http.StatusOK, uiError(userMessage(r, err)))
		return
	}
	s.render(w, r, "login.html", http.StatusOK, loginContent{Names: names})
}

// handleLoginForm handles POST /login. An ambiguous name re-renders the form
// with the candidates to pick from by trainer id.
func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Ungültiges Formular.", http.StatusBadRequest)
		return
	}
	identifier := strings.TrimSpace(r.FormValue("identifier"))
	res, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Identifier: identifier,
		Pin:        strings.TrimSpace(r.FormValue("pin")),
	}, s.loginDeps())
	if err != nil {
		content := loginContent{Identifier: identifier}
		content.Names, _ = projections.QueryGetActiveTrainerNames(r.Context(), s.stores.Trainers)
		var amb *trainer.AmbiguousError
		if errors.As(err, &amb) {
			content.Candidates = amb.Candidates
		}
		r = withQuery(r, "err", userMessage(r, err))
		s.render(w, r, "login.html", http.StatusOK, content)
		return
	}
	middleware.SetSessionCookie(w, res.Token, s.ttl)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func denyLoginPage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login?err="+url.QueryEscape("Zu viele Anmeldeversuche. Bitte kurz warten."), http.StatusSeeOther)
}

func (s *Server) handleLogoutForm(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := orchestrators.ExecuteLogout(r.Context(), c.Value, s.sessionDeps()); err != nil {
			slog.Warn("logout_failed", "error", err)
		}
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleHomePage(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryGetBootstrap(r.Context(), projections.GetBootstrapQuery{
		Session: currentSession(r),
		Now:     s.clock(),
	}, s.bootstrapDeps())
	if err != nil {
		s.render(w, r, "home.html", http.StatusOK, uiError(userMessage(r, err)))
		return
	}
	s.render(w, r, "home.html", http.StatusOK, res)
}

func (s *Server) handleTrainingPage(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryGetTrainingDetail(r.Context(), projections.GetTrainingDetailQuery{
		TrainingID: chi.URLParam(r, "id"),
		TrainerID:  currentSession(r).TrainerID,
	}, s.trainingDetailDeps())
	if err != nil {
		s.render(w, r, "training.html", http.StatusNotFound, uiError(userMessage(r, err)))
		return
	}
	s.render(w, r, "training.html", http.StatusOK, res)
}

func (s *Server) handleEnrollForm(w http.ResponseWriter, r *http.Request) {
	trainingID := chi.URLParam(r, "id")
	_, err := orchestrators.ExecuteEnroll(r.Context(), orchestrators.EnrollInput{
		Session:    currentSession(r),
		TrainingID: trainingID,
	}, s.enrollmentDeps())
	s.redirectAfter(w, r, trainingPath(trainingID), err, "Eingetragen.")
}

func (s *Server) handleWithdrawForm(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteWithdraw(r.Context(), orchestrators.AssignmentActionInput{
		Session:      currentSession(r),
		AssignmentID: chi.URLParam(r, "id"),
	}, s.enrollmentDeps())
	s.redirectAfter(w, r, backPath(r), err, "Ausgetragen.")
}

func (s *Server) handleCheckInForm(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteCheckIn(r.Context(), orchestrators.AssignmentActionInput{
		Session:      currentSession(r),
		AssignmentID: chi.URLParam(r, "id"),
	}, s.enrollmentDeps())
	s.redirectAfter(w, r, backPath(r), err, "Eingecheckt.")
}

func (s *Server) handleCancelForm(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteCancelAssignment(r.Context(), orchestrators.CancelAssignmentInput{
		Session:      currentSession(r),
		AssignmentID: chi.URLParam(r, "id"),
		Reason:       r.FormValue("grund"),
	}, s.enrollmentDeps())
	s.redirectAfter(w, r, backPath(r), err, "Abgemeldet.")
}

// redirectAfter implements post/redirect/get with the outcome in the query.
func (s *Server) redirectAfter(w http.ResponseWriter, r *http.Request, target string, err error, ok string) {
	q := url.Values{}
	if err != nil {
		q.Set("err", userMessage(r, err))
	} else {
		q.Set("msg", ok)
	}
	http.Redirect(w, r, target+"?"+q.Encode(), http.StatusSeeOther)
}

func trainingPath(id string) string {
	return "/training/" + url.PathEscape(id)
}

// backPath returns the training page named by the training_id form field,
// or the start page.
func backPath(r *http.Request) string {
	if id := strings.TrimSpace(r.FormValue("training_id")); id != "" {
		return trainingPath(id)
	}
	return "/"
}

func withQuery(r *http.Request, key, value string) *http.Request {
	u := *r.URL
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	r2 := r.Clone(r.Context())
	r2.URL = &u
	return r2
}
