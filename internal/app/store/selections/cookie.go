// internal/app/store/selections/cookie.go
package selections

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// DefaultSessionName is the cookie name used when none is configured.
const DefaultSessionName = "trainingplanner-session"

// CookieBackend keeps both documents inside a signed session cookie, so the
// selections live with the browser the way local storage would.
type CookieBackend struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewCookieBackend builds the cookie backend.
//
// In production (secure=true) cookies are Secure + SameSite=None. In local
// dev over http://localhost, secure=false keeps them usable with SameSite=Lax.
// An empty key is only accepted outside production; a random per-process key
// is generated in that case, so selections do not survive a restart.
func NewCookieBackend(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*CookieBackend, error) {
	logger = orNop(logger)
	if name == "" {
		name = DefaultSessionName
	}

	var hashKey []byte
	switch {
	case sessionKey == "" && secure:
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	case sessionKey == "":
		hashKey = securecookie.GenerateRandomKey(32)
		if hashKey == nil {
			return nil, errors.New("could not generate a session key")
		}
		logger.Warn("no session key configured; using a random key for this process")
	default:
		if len(sessionKey) < 32 {
			logger.Warn("session key is short; 32+ chars recommended",
				zap.Int("length", len(sessionKey)))
		}
		hashKey = []byte(sessionKey)
	}

	store := sessions.NewCookieStore(hashKey)
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   visitorMaxAge,
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	return &CookieBackend{store: store, name: name, log: logger}, nil
}

// Name implements Backend.
func (b *CookieBackend) Name() string { return "cookie" }

// Bind implements Backend.
func (b *CookieBackend) Bind(w http.ResponseWriter, r *http.Request) Store {
	return &cookieStore{b: b, w: w, r: r}
}

type cookieStore struct {
	b *CookieBackend
	w http.ResponseWriter
	r *http.Request
}

func (s *cookieStore) session() *sessions.Session {
	sess, err := s.b.store.Get(s.r, s.b.name)
	if err != nil {
		// A cookie signed with a rotated key or tampered with decodes as a
		// fresh session.
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			s.b.log.Debug("discarding undecodable selection cookie", zap.Error(err))
		} else {
			s.b.log.Warn("selection cookie read failed", zap.Error(err))
		}
	}
	return sess
}

func (s *cookieStore) Get(key string) ([]byte, bool, error) {
	v, ok := s.session().Values[key]
	if !ok {
		return nil, false, nil
	}
	str, ok := v.(string)
	if !ok {
		return nil, false, nil
	}
	return []byte(str), true, nil
}

func (s *cookieStore) Set(key string, raw []byte) error {
	sess := s.session()
	sess.Values[key] = string(raw)
	// The session carries every value written so far in this request, so
	// only the newest Set-Cookie is sent.
	dropSetCookie(s.w.Header(), s.b.name)
	if err := sess.Save(s.r, s.w); err != nil {
		return fmt.Errorf("save selection cookie: %w", err)
	}
	return nil
}

// dropSetCookie removes Set-Cookie headers already queued for the named cookie.
func dropSetCookie(h http.Header, name string) {
	prefix := name + "="
	var kept []string
	for _, v := range h.Values("Set-Cookie") {
		if !strings.HasPrefix(v, prefix) {
			kept = append(kept, v)
		}
	}
	h.Del("Set-Cookie")
	for _, v := range kept {
		h.Add("Set-Cookie", v)
	}
}
