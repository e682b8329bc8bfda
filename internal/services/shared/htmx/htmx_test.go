package htmx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type testComponent struct {
	body string
}

func (c testComponent) Render(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, c.body)
	return err
}

func htmxRequest(method, target string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	r.Header.Set(RequestHeaderKey, "true")
	return r
}

func TestIsHTMXRequest(t *testing.T) {
	t.Run("missing_request_is_not_htmx", func(t *testing.T) {
		t.Parallel()
		if got := IsHTMXRequest(nil); got {
			t.Fatalf("IsHTMXRequest(nil) = true, want false")
		}
	})

	t.Run("plain_request_is_not_htmx", func(t *testing.T) {
		t.Parallel()
		if got := IsHTMXRequest(httptest.NewRequest(http.MethodGet, "/", nil)); got {
			t.Fatalf("IsHTMXRequest(plain) = true, want false")
		}
	})

	t.Run("true_request_is_htmx", func(t *testing.T) {
		t.Parallel()
		if got := IsHTMXRequest(htmxRequest(http.MethodGet, "/")); !got {
			t.Fatalf("IsHTMXRequest(request) = false, want true")
		}
	})
}

func TestTitleTag(t *testing.T) {
	t.Parallel()
	if got, want := TitleTag(`Users <Admin>`), "<title>Users &lt;Admin&gt;</title>"; got != want {
		t.Fatalf("TitleTag(...) = %q, want %q", got, want)
	}
	if got := TitleTag("  "); got != "" {
		t.Fatalf("TitleTag(blank) = %q, want empty", got)
	}
}

func TestRenderPlainRequestUsesFull(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	Render(w, httptest.NewRequest(http.MethodGet, "/", nil), Page{
		Fragment: testComponent{body: "<section>fragment</section>"},
		Full:     testComponent{body: "<html><body>full</body></html>"},
		Title:    "Users",
	})
	if got := w.Body.String(); got != "<html><body>full</body></html>" {
		t.Fatalf("body = %q, want full page", got)
	}
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestRenderHTMXUsesFragmentWithTitle(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	Render(w, htmxRequest(http.MethodPost, "/users"), Page{
		Fragment: testComponent{body: "<section>fragment</section>"},
		Full:     testComponent{body: "<html><main>ignored</main></html>"},
		Title:    "Users",
		Status:   http.StatusConflict,
	})
	if got, want := w.Body.String(), "<title>Users</title><section>fragment</section>"; got != want {
		t.Fatalf("body = %q, want %q", got, want)
	}
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestRenderHTMXExtractsMainFromFull(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	Render(w, htmxRequest(http.MethodGet, "/"), Page{
		Full: testComponent{body: `<html><head><title>Users</title></head><body><main id="main"><section>inner</section></main></body></html>`},
	})
	if got := w.Body.String(); got != "<section>inner</section>" {
		t.Fatalf("body = %q, want main content", got)
	}
}

func TestRenderHTMXKeepsExistingTitle(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	Render(w, htmxRequest(http.MethodGet, "/"), Page{
		Fragment: testComponent{body: "<title>Already Set</title><section>fragment</section>"},
		Title:    "Injected",
	})
	if got := w.Body.String(); strings.Contains(got, "Injected") {
		t.Fatalf("expected existing title preserved, got %q", got)
	}
}

func TestRenderWithoutComponents(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	Render(w, httptest.NewRequest(http.MethodGet, "/", nil), Page{Status: http.StatusNoContent})
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("got %d %q, want empty 204", w.Code, w.Body.String())
	}
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	t.Run("plain_post_gets_see_other", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		Redirect(w, httptest.NewRequest(http.MethodPost, "/users", nil), "/")
		if w.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", w.Code)
		}
		if got := w.Header().Get("Location"); got != "/" {
			t.Fatalf("Location = %q, want /", got)
		}
	})

	t.Run("htmx_gets_redirect_header", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		Redirect(w, htmxRequest(http.MethodPost, "/users"), "/")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if got := w.Header().Get(RedirectHeaderKey); got != "/" {
			t.Fatalf("%s = %q, want /", RedirectHeaderKey, got)
		}
	})
}

func TestCopyHeadersUsesSingleValueSemanticsForNonSetCookie(t *testing.T) {
	t.Parallel()
	dst := http.Header{}
	src := http.Header{}
	src.Add("Content-Type", "text/plain")
	src.Add("Content-Type", "text/html; charset=utf-8")
	src.Add("Set-Cookie", "id=1")
	src.Add("Set-Cookie", "token=abc")

	copyHeaders(dst, src)

	if got := dst.Values("Content-Type"); len(got) != 1 || got[0] != "text/html; charset=utf-8" {
		t.Fatalf("Content-Type = %v, want single html value", got)
	}
	if got := dst.Values("Set-Cookie"); len(got) != 2 {
		t.Fatalf("expected two Set-Cookie values, got %v", got)
	}
}
