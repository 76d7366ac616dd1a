package httpserver

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// sessionCookies issues and verifies the session cookie. The cookie value is
// an HS256 JWT whose "sid" claim keys the session store.
type sessionCookies struct {
	name   string
	secret []byte
	ttl    time.Duration
	secure bool
}

func newSessionCookies(name, secret string, ttl time.Duration, secure bool) *sessionCookies {
	if name == "" {
		name = "binword_session"
	}
	if secret == "" {
		secret = "dev_secret_change_me"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &sessionCookies{name: name, secret: []byte(secret), ttl: ttl, secure: secure}
}

// sessionID returns the verified session id carried by r, if any.
func (c *sessionCookies) sessionID(r *http.Request) (string, bool) {
	tok := c.bearerOrCookie(r)
	if tok == "" {
		return "", false
	}
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", false
	}
	sid, _ := claims["sid"].(string)
	return sid, sid != ""
}

// ensure returns the request's session id, issuing a new cookie when the
// request carries none (or an invalid one).
func (c *sessionCookies) ensure(w http.ResponseWriter, r *http.Request) (string, error) {
	if sid, ok := c.sessionID(r); ok {
		return sid, nil
	}
	sid := uuid.NewString()
	if err := c.issue(w, sid); err != nil {
		return "", err
	}
	return sid, nil
}

// issue signs sid and sets the cookie. The token is also echoed in the
// X-Session-Token header for clients that cannot keep cookies.
func (c *sessionCookies) issue(w http.ResponseWriter, sid string) error {
	now := time.Now()
	exp := now.Add(c.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"iat": now.Unix(),
		"exp": exp.Unix(),
	})
	ss, err := t.SignedString(c.secret)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    ss,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: c.sameSite(),
		Expires:  exp,
	})
	w.Header().Set("X-Session-Token", ss)
	return nil
}

// clear deletes the session cookie.
func (c *sessionCookies) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: c.sameSite(),
		MaxAge:   -1,
	})
}

func (c *sessionCookies) sameSite() http.SameSite {
	if c.secure {
		return http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return http.SameSiteLaxMode
}

// bearerOrCookie extracts a token from the Authorization header or the cookie.
func (c *sessionCookies) bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if ck, err := r.Cookie(c.name); err == nil {
		return ck.Value
	}
	return ""
}

// keyedMutex serializes work per key. Entries are dropped once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refLock)}
}

// Lock blocks until key is free and returns its unlock func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
