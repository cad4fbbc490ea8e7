// internal/app/store/selections/visitor.go
package selections

import (
	"net/http"

	"github.com/google/uuid"
)

// DefaultVisitorCookie names the cookie that carries the visitor ID for the
// server-side backends.
const DefaultVisitorCookie = "tp_visitor"

const visitorMaxAge = 365 * 24 * 60 * 60

// visitorCookie issues and reads the opaque visitor ID used to key
// server-side documents.
type visitorCookie struct {
	name   string
	domain string
	secure bool
}

func newVisitorCookie(name, domain string, secure bool) visitorCookie {
	if name == "" {
		name = DefaultVisitorCookie
	}
	return visitorCookie{name: name, domain: domain, secure: secure}
}

// read returns the visitor ID from the request, or "" when absent or not a
// well-formed UUID.
func (v visitorCookie) read(r *http.Request) string {
	c, err := r.Cookie(v.name)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

// issue mints a new visitor ID and sets it on w.
func (v visitorCookie) issue(w http.ResponseWriter) string {
	id := uuid.NewString()
	sameSite := http.SameSiteLaxMode
	if v.secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     v.name,
		Value:    id,
		Path:     "/",
		Domain:   v.domain,
		MaxAge:   visitorMaxAge,
		Secure:   v.secure,
		HttpOnly: true,
		SameSite: sameSite,
	})
	return id
}

// boundVisitor lazily resolves the visitor ID for one request. Reads never
// mint an ID; the first write does.
type boundVisitor struct {
	cookie visitorCookie
	w      http.ResponseWriter
	id     string
}

func bindVisitor(c visitorCookie, w http.ResponseWriter, r *http.Request) *boundVisitor {
	return &boundVisitor{cookie: c, w: w, id: c.read(r)}
}

func (b *boundVisitor) ensure() string {
	if b.id == "" {
		b.id = b.cookie.issue(b.w)
	}
	return b.id
}
