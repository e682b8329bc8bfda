package templates

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	rosteri18n "github.com/louisbranch/roster/internal/services/roster/i18n"
)

const (
	// RosterTarget is the element htmx swaps after every roster action.
	RosterTarget = "#roster"
	// RosterPath serves the roster fragment.
	RosterPath = "/roster"

	htmxScriptURL = "https://unpkg.com/htmx.org@2.0.4"
	pollInterval  = "every 1s"

	// HTMXConfig swaps the roster fragments sent with rejected actions
	// (400, 404, 409) so their notice is shown; other errors stay unswapped.
	HTMXConfig = `{"responseHandling":[` +
		`{"code":"204","swap":false},` +
		`{"code":"[23]..","swap":true},` +
		`{"code":"^(400|404|409)$","swap":true},` +
		`{"code":"[45]..","swap":false,"error":true},` +
		`{"code":"...","swap":true}]}`
)

// Page renders the full roster document.
func Page(page PageContext, view RosterView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{}
		h.raw(`<!DOCTYPE html><html`)
		h.attr("lang", page.Lang)
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(T(page.Loc, "roster.title"))
		h.raw(`</title><meta name="htmx-config"`)
		h.attr("content", HTMXConfig)
		h.raw(`>`)
		if view.Loading {
			h.raw(`<noscript><meta http-equiv="refresh" content="2"></noscript>`)
		}
		h.raw(`<script`)
		h.attr("src", htmxScriptURL)
		h.raw(` crossorigin="anonymous"></script><style>`)
		h.raw(stylesheet)
		h.raw(`</style></head><body><header class="roster-header"><h1>`)
		h.text(T(page.Loc, "roster.heading"))
		h.raw(`</h1>`)
		writeLanguageNav(h, page)
		h.raw(`</header><main id="main">`)
		writeRoster(h, page, view)
		h.raw(`</main></body></html>`)
		return h.flush(w)
	})
}

// Roster renders the swappable roster fragment.
func Roster(page PageContext, view RosterView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{}
		writeRoster(h, page, view)
		return h.flush(w)
	})
}

func writeRoster(h *htmlWriter, page PageContext, view RosterView) {
	h.raw(`<section id="roster"`)
	h.attr("data-revision", strconv.FormatUint(view.Revision, 10))
	if view.Loading {
		h.attr("hx-get", RosterPath)
		h.attr("hx-trigger", pollInterval)
		h.attr("hx-swap", "outerHTML")
		h.raw(` aria-busy="true">`)
		h.raw(`<div class="loading-state" role="status"><span class="loading loading-ring loading-md" aria-hidden="true"></span><span>`)
		h.text(T(page.Loc, "roster.loading"))
		h.raw(`</span></div></section>`)
		return
	}
	h.raw(`>`)

	if view.Notice != "" {
		h.raw(`<div class="alert alert-warning" role="status">`)
		h.text(view.Notice)
		h.raw(`</div>`)
	}
	if view.Error != "" {
		h.raw(`<div class="alert alert-error" role="alert"><span>`)
		h.text(view.Error)
		h.raw(`</span>`)
		if view.LoadFailed {
			writeActionForm(h, "/reload", T(page.Loc, "error.retry"), "btn btn-sm")
		}
		writeActionForm(h, "/error/dismiss", T(page.Loc, "error.dismiss"), "btn btn-sm btn-ghost")
		h.raw(`</div>`)
	}
	if view.LoadFailed {
		h.raw(`</section>`)
		return
	}

	writeActionForm(h, "/users/new", T(page.Loc, "roster.add_new"), "btn btn-primary")
	if view.Form != nil {
		writeUserForm(h, page, *view.Form)
	}

	h.raw(`<div class="users-list">`)
	if len(view.Users) == 0 {
		h.raw(`<p class="empty">`)
		h.text(T(page.Loc, "roster.empty"))
		h.raw(`</p>`)
	}
	for _, user := range view.Users {
		writeUserCard(h, page, user)
	}
	h.raw(`</div></section>`)
}

func writeUserCard(h *htmlWriter, page PageContext, user UserCard) {
	department := user.Department
	if department == "" {
		department = T(page.Loc, "roster.not_available")
	}
	h.raw(`<article class="user-card"`)
	h.attr("data-user-id", user.ID)
	h.raw(`><h3>`)
	h.text(user.Name)
	h.raw(`</h3><p>`)
	h.text(T(page.Loc, "roster.email", user.Email))
	h.raw(`</p><p>`)
	h.text(T(page.Loc, "roster.department", department))
	h.raw(`</p><div class="card-actions">`)
	path := UserPath(user.ID)
	writeActionForm(h, path+"/edit", T(page.Loc, "roster.edit"), "btn btn-sm")
	writeActionForm(h, path+"/delete", T(page.Loc, "roster.delete"), "btn btn-sm btn-error")
	h.raw(`</div></article>`)
}

func writeUserForm(h *htmlWriter, page PageContext, form FormView) {
	h.raw(`<form class="user-form" method="post"`)
	h.attr("action", form.Action)
	h.attr("hx-post", form.Action)
	h.attr("hx-target", RosterTarget)
	h.attr("hx-swap", "outerHTML")
	h.raw(`>`)
	writeInput(h, "name", form.Name, T(page.Loc, "form.name"))
	writeInput(h, "email", form.Email, T(page.Loc, "form.email"))
	writeInput(h, "department", form.Department, T(page.Loc, "form.department"))

	submit := T(page.Loc, "form.add")
	if form.Editing {
		submit = T(page.Loc, "form.update")
	}
	h.raw(`<button type="submit" class="btn btn-primary">`)
	h.text(submit)
	h.raw(`</button><button type="submit" class="btn btn-ghost" formaction="/form/cancel" hx-post="/form/cancel">`)
	h.text(T(page.Loc, "form.cancel"))
	h.raw(`</button></form>`)
}

func writeInput(h *htmlWriter, name, value, placeholder string) {
	h.raw(`<input type="text" class="input"`)
	h.attr("name", name)
	h.attr("value", value)
	h.attr("placeholder", placeholder)
	h.attr("aria-label", placeholder)
	h.raw(`>`)
}

// writeActionForm renders a single-button form that posts to action and
// swaps the roster in place.
func writeActionForm(h *htmlWriter, action, label, class string) {
	h.raw(`<form method="post" class="inline"`)
	h.attr("action", action)
	h.attr("hx-post", action)
	h.attr("hx-target", RosterTarget)
	h.attr("hx-swap", "outerHTML")
	h.raw(`><button type="submit"`)
	h.attr("class", class)
	h.raw(`>`)
	h.text(label)
	h.raw(`</button></form>`)
}

func writeLanguageNav(h *htmlWriter, page PageContext) {
	h.raw(`<nav class="language-nav"`)
	h.attr("aria-label", T(page.Loc, "roster.language"))
	h.raw(`>`)
	for _, tag := range rosteri18n.Supported() {
		code := tag.String()
		h.raw(`<a`)
		h.attr("href", "/?"+rosteri18n.LangParam+"="+code)
		h.attr("hreflang", code)
		if code == page.Lang {
			h.raw(` aria-current="true"`)
		}
		h.raw(`>`)
		h.text(T(page.Loc, "language."+code))
		h.raw(`</a>`)
	}
	h.raw(`</nav>`)
}

type htmlWriter struct {
	b strings.Builder
}

func (h *htmlWriter) raw(s string) {
	h.b.WriteString(s)
}

func (h *htmlWriter) text(s string) {
	h.b.WriteString(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.b.WriteString(" ")
	h.b.WriteString(name)
	h.b.WriteString(`="`)
	h.b.WriteString(templ.EscapeString(value))
	h.b.WriteString(`"`)
}

func (h *htmlWriter) flush(w io.Writer) error {
	_, err := io.WriteString(w, h.b.String())
	return err
}

const stylesheet = `
body{font-family:system-ui,sans-serif;margin:0 auto;max-width:48rem;padding:1rem}
.roster-header{display:flex;justify-content:space-between;align-items:center}
.language-nav a{margin-left:.5rem}
.language-nav a[aria-current]{font-weight:bold}
form.inline{display:inline}
.alert{padding:.75rem;border-radius:.5rem;margin:1rem 0}
.alert-error{background:#fde2e2}
.alert-warning{background:#fff4d6}
.user-form{display:grid;gap:.5rem;margin:1rem 0}
.users-list{display:grid;gap:1rem;margin-top:1rem}
.user-card{border:1px solid #ddd;border-radius:.5rem;padding:1rem}
.loading-state{padding:2rem;text-align:center}
`
