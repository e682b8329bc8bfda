package roster

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	apperrors "github.com/louisbranch/roster/internal/platform/errors"
	"github.com/louisbranch/roster/internal/services/roster/controller"
	"github.com/louisbranch/roster/internal/services/roster/directory"
	rosteri18n "github.com/louisbranch/roster/internal/services/roster/i18n"
	"github.com/louisbranch/roster/internal/services/roster/templates"
	"github.com/louisbranch/roster/internal/services/shared/htmx"
	"golang.org/x/text/message"
)

// HandlerConfig defines the inputs for the roster HTTP handler.
type HandlerConfig struct {
	Directory  directory.Directory
	IDPolicy   controller.IDPolicy
	SessionTTL time.Duration
}

// Handler serves the roster page and its actions.
type Handler struct {
	sessions *sessionStore
	router   *mux.Router
}

// NewHandler builds the roster HTTP handler.
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.Directory == nil {
		return nil, errors.New("directory is required")
	}
	dir, opts := cfg.Directory, controller.Options{IDPolicy: cfg.IDPolicy}
	h := &Handler{
		sessions: newSessionStore(cfg.SessionTTL, func() *controller.Controller {
			return controller.New(dir, opts)
		}),
	}
	h.router = h.routes()
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/", h.handlePage).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc(templates.RosterPath, h.handleRoster).Methods(http.MethodGet)

	post := r.Methods(http.MethodPost).Subrouter()
	post.Use(requireSameOrigin)
	post.HandleFunc("/users", h.handleCreate)
	post.HandleFunc("/users/new", h.handleOpenCreate)
	post.HandleFunc("/users/{id}/edit", h.handleBeginEdit)
	post.HandleFunc("/users/{id}/delete", h.handleDelete)
	post.HandleFunc("/users/{id}", h.handleUpdate)
	post.HandleFunc("/form/cancel", h.handleCancel)
	post.HandleFunc("/error/dismiss", h.handleDismissError)
	post.HandleFunc("/reload", h.handleReload)
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.render(w, r, sess, http.StatusOK, "")
}

func (h *Handler) handleRoster(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	loc, lang := localizer(w, r)
	page := templates.PageContext{Lang: lang, Loc: loc}
	view := templates.NewRosterView(loc, sess.surface.Snapshot())
	htmx.Render(w, r, htmx.Page{Fragment: templates.Roster(page, view)})
}

func (h *Handler) handleOpenCreate(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.controller.OpenCreate()
	h.respond(w, r, sess, nil)
}

func (h *Handler) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	err := sess.controller.BeginEdit(userID(r))
	h.respond(w, r, sess, err)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.controller.Cancel()
	h.respond(w, r, sess, nil)
}

func (h *Handler) handleDismissError(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	sess.controller.DismissError()
	h.respond(w, r, sess, nil)
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	err := sess.controller.Reload(sess.context(r.Context()))
	h.respond(w, r, sess, err)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	err := sess.controller.SubmitCreate(sess.context(r.Context()), draftFromForm(r))
	h.respond(w, r, sess, err)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	ctrl := sess.controller
	// The form posts to the target it was opened for; a stale form must not
	// overwrite a different user.
	if target := ctrl.Snapshot().EditTarget; target == nil || target.ID != userID(r) {
		h.respond(w, r, sess, apperrors.New(apperrors.CodeNoEditTarget, controller.MsgNoEditTarget))
		return
	}
	err := ctrl.SubmitUpdate(sess.context(r.Context()), draftFromForm(r))
	h.respond(w, r, sess, err)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	err := sess.controller.DeleteUser(sess.context(r.Context()), userID(r))
	h.respond(w, r, sess, err)
}

// respond finishes a roster action. Directory failures are already part of
// the roster state and render like success; rejected actions carry a
// one-off notice and their mapped status.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, sess *session, err error) {
	status := apperrors.HTTPStatus(err)
	notice := ""
	if err != nil && status != http.StatusOK {
		loc, _ := localizer(w, r)
		var domainErr *apperrors.Error
		if errors.As(err, &domainErr) {
			notice = templates.ErrorMessage(loc, domainErr.Code, domainErr.Message)
		} else {
			notice = err.Error()
		}
	}
	if status == http.StatusOK && !htmx.IsHTMXRequest(r) {
		htmx.Redirect(w, r, "/")
		return
	}
	h.render(w, r, sess, status, notice)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, sess *session, status int, notice string) {
	loc, lang := localizer(w, r)
	page := templates.PageContext{Lang: lang, Loc: loc}
	view := templates.NewRosterView(loc, sess.surface.Snapshot())
	view.Notice = notice
	htmx.Render(w, r, htmx.Page{
		Fragment: templates.Roster(page, view),
		Full:     templates.Page(page, view),
		Title:    templates.T(loc, "roster.title"),
		Status:   status,
	})
}

// session returns the visitor's roster, starting a new one when the cookie is
// missing or expired.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *session {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if sess, ok := h.sessions.Get(cookie.Value); ok {
			return sess
		}
	}
	sess := h.sessions.Create(r.Context())
	http.SetCookie(w, h.sessions.cookie(sess.id))
	return sess
}

func localizer(w http.ResponseWriter, r *http.Request) (*message.Printer, string) {
	tag, persist := rosteri18n.ResolveTag(r)
	if persist {
		rosteri18n.SetLanguageCookie(w, tag)
	}
	return rosteri18n.Printer(tag), tag.String()
}

func userID(r *http.Request) directory.UserID {
	return directory.UserID(mux.Vars(r)["id"])
}

func draftFromForm(r *http.Request) controller.Draft {
	return controller.Draft{
		Name:       strings.TrimSpace(r.PostFormValue("name")),
		Email:      strings.TrimSpace(r.PostFormValue("email")),
		Department: strings.TrimSpace(r.PostFormValue("department")),
	}
}

// requireSameOrigin rejects state-changing requests whose Origin or Referer
// names another host.
func requireSameOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		source := strings.TrimSpace(r.Header.Get("Origin"))
		if source == "" {
			source = strings.TrimSpace(r.Referer())
		}
		if !sameOrigin(source, r) {
			loc, _ := localizer(w, r)
			http.Error(w, loc.Sprintf("error.csrf_invalid"), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sameOrigin(rawURL string, r *http.Request) bool {
	if rawURL == "" || rawURL == "null" || r == nil {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	if !strings.EqualFold(parsed.Host, r.Host) {
		return false
	}
	if parsed.Scheme != "" {
		return strings.EqualFold(parsed.Scheme, requestScheme(r))
	}
	return true
}

func requestScheme(r *http.Request) string {
	if proto := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		return strings.ToLower(strings.Split(proto, ",")[0])
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
