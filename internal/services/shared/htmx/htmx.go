// Package htmx renders templ components for full page loads and htmx swaps.
package htmx

import (
	"bytes"
	"html"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

const (
	// RequestHeaderKey is the header htmx sets on the requests it issues.
	RequestHeaderKey = "HX-Request"
	// RedirectHeaderKey asks htmx to perform a client-side navigation.
	RedirectHeaderKey = "HX-Redirect"
)

// Page pairs the fragment swapped in by htmx with the full document served
// to plain browser requests.
type Page struct {
	Fragment templ.Component
	Full     templ.Component
	// Title is prepended to htmx fragments that carry no <title>.
	Title string
	// Status defaults to 200.
	Status int
}

// responseBuffer captures a rendering so its status and headers can be
// adjusted before anything reaches the client.
type responseBuffer struct {
	header      http.Header
	statusCode  int
	body        bytes.Buffer
	headerWrote bool
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{
		header:     make(http.Header),
		statusCode: http.StatusOK,
	}
}

func (w *responseBuffer) Header() http.Header {
	return w.header
}

func (w *responseBuffer) WriteHeader(status int) {
	if w.headerWrote {
		return
	}
	w.headerWrote = true
	w.statusCode = status
}

func (w *responseBuffer) Write(body []byte) (int, error) {
	return w.body.Write(body)
}

// IsHTMXRequest reports whether the request was initiated by htmx.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(RequestHeaderKey), "true")
}

// TitleTag formats an escaped <title> element.
func TitleTag(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return "<title>" + html.EscapeString(title) + "</title>"
}

// Render writes the fragment for htmx requests and the full document
// otherwise. A missing half falls back to the other; for htmx requests served
// from Full only the <main> content is sent.
func Render(w http.ResponseWriter, r *http.Request, page Page) {
	status := page.Status
	if status == 0 {
		status = http.StatusOK
	}

	if !IsHTMXRequest(r) {
		full := page.Full
		if full == nil {
			full = page.Fragment
		}
		if full == nil {
			w.WriteHeader(status)
			return
		}
		templ.Handler(full, templ.WithStatus(status)).ServeHTTP(w, r)
		return
	}

	target, fromFull := page.Fragment, false
	if target == nil {
		target, fromFull = page.Full, true
	}
	if target == nil {
		w.WriteHeader(status)
		return
	}

	capture := newResponseBuffer()
	templ.Handler(target, templ.WithStatus(status)).ServeHTTP(capture, r)

	body := capture.body.Bytes()
	if fromFull {
		if mainContent, ok := extractMainContent(body); ok {
			body = mainContent
		}
	}
	body = prependTitle(body, TitleTag(page.Title))

	copyHeaders(w.Header(), capture.Header())
	w.WriteHeader(capture.statusCode)
	_, _ = w.Write(body)
}

// Redirect sends the client to location after a mutating request: htmx gets
// an HX-Redirect header, plain browsers a 303 See Other.
func Redirect(w http.ResponseWriter, r *http.Request, location string) {
	if IsHTMXRequest(r) {
		w.Header().Set(RedirectHeaderKey, location)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func prependTitle(body []byte, title string) []byte {
	if title == "" || bytes.Contains(bytes.ToLower(body), []byte("<title")) {
		return body
	}
	return append([]byte(title), body...)
}

func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		if strings.EqualFold(key, "Set-Cookie") {
			for _, value := range values {
				dst.Add(key, value)
			}
			continue
		}
		for _, value := range values {
			dst.Set(key, value)
		}
	}
}

func extractMainContent(body []byte) ([]byte, bool) {
	start := bytes.Index(body, []byte("<main"))
	if start < 0 {
		return nil, false
	}
	openClose := bytes.IndexByte(body[start:], '>')
	if openClose < 0 {
		return nil, false
	}
	contentStart := start + openClose + 1
	end := bytes.Index(body[contentStart:], []byte("</main>"))
	if end < 0 {
		return nil, false
	}
	return body[contentStart : contentStart+end], true
}
