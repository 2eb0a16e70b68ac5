package server

import (
	"html/template"
	"net/http"

	"github.com/desertthunder/vidtube/internal/guard"
	"github.com/desertthunder/vidtube/internal/i18n"
)

var templates = template.Must(template.New("").Parse(`
{{define "header"}}<!DOCTYPE html>
<html lang="{{.Lang}}">
<head><meta charset="utf-8"><title>{{.Msg "app_title"}}</title></head>
<body>
<nav>
  <a href="/">{{.Msg "nav_home"}}</a>
  <a href="/trending">{{.Msg "nav_trending"}}</a>
  <a href="/search">{{.Msg "nav_search"}}</a>
  {{if .SignedIn}}<form method="post" action="/auth/logout"><button>{{.Msg "nav_logout"}}</button></form>
  {{else}}<a href="/auth/login">{{.Msg "nav_login"}}</a>{{end}}
</nav>
<p class="status">{{.Status}}</p>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<main>{{end}}

{{define "footer"}}</main>
</body>
</html>{{end}}

{{define "page"}}{{template "header" .}}
<p>{{.Body}}</p>
{{template "footer" .}}{{end}}

{{define "login"}}{{template "header" .}}
<form method="post" action="/auth/login">
  <input type="hidden" name="next" value="{{.Next}}">
  <input type="email" name="email" required>
  <input type="password" name="password" required>
  <button>{{.Msg "nav_login"}}</button>
</form>
<a href="/auth/register">{{.Msg "help_sign_in"}}</a>
{{if .OAuth}}<a href="/auth/login?provider=oauth">OAuth</a>{{end}}
{{template "footer" .}}{{end}}

{{define "register"}}{{template "header" .}}
<form method="post" action="/auth/register">
  <input type="text" name="name">
  <input type="email" name="email" required>
  <input type="password" name="password" minlength="8" required>
  <button>{{.Msg "help_sign_in"}}</button>
</form>
{{template "footer" .}}{{end}}

{{define "verify"}}{{template "header" .}}
<form method="post" action="/auth/verify-age">
  <input type="date" name="date_of_birth" required>
  <button>{{.Msg "nav_verify_age"}}</button>
</form>
{{template "footer" .}}{{end}}
`))

// view is the data every template renders from.
type view struct {
	tr       *i18n.Translator
	Lang     string
	SignedIn bool
	Status   string
	Error    string
	Body     string
	Next     string
	OAuth    bool
}

// Msg returns the localized message for id.
func (v view) Msg(id string) string {
	if v.tr == nil {
		return id
	}
	return v.tr.T(id, nil)
}

func newView(r *http.Request) view {
	ctx := r.Context()
	v := view{tr: TranslatorFrom(ctx), Lang: i18n.DefaultLanguage.String()}
	if v.tr != nil {
		v.Lang = v.tr.Language().String()
	}

	session := SessionFrom(ctx)
	v.SignedIn = session.SignedIn

	switch profile := ProfileFrom(ctx); {
	case !session.SignedIn:
		v.Status = v.Msg("status_signed_out")
	case profile != nil && !profile.AgeVerified:
		v.Status = v.Msg("status_needs_verification")
	case v.tr != nil:
		v.Status = v.tr.T("status_signed_in", map[string]any{"UID": session.UID})
	}
	return v
}

func (v view) reason(r guard.Reason) string {
	if v.tr == nil {
		return r.String()
	}
	return v.tr.Reason(r)
}

func render(w http.ResponseWriter, status int, name string, v view) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = templates.ExecuteTemplate(w, name, v)
}

// PageHandler renders every content route not claimed by another handler.
type PageHandler struct{}

// NewPageHandler creates a PageHandler.
func NewPageHandler() *PageHandler { return &PageHandler{} }

// Routes returns the catch-all pattern. Register it with [BasicRouter.Handle] to limit it to GET and HEAD.
func (h *PageHandler) Routes() []string { return []string{"/"} }

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v := newView(r)
	if v.tr != nil {
		v.Body = v.tr.T("page_body", map[string]any{"Path": r.URL.Path})
	} else {
		v.Body = r.URL.Path
	}
	render(w, http.StatusOK, "page", v)
}
