package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	pz "github.com/weberc2/httpeasy"
	"github.com/weberc2/passwordreset/pkg/types"
)

const (
	CookieName        = "Reset-Session"
	DefaultSessionTTL = 30 * time.Minute
)

// SessionCookies issues and validates the signed cookie that carries a
// browser's reset session ID. The cookie only names the session; its
// contents live in the session store.
type SessionCookies struct {
	SigningKey []byte
	TTL        time.Duration
	Domain     string

	// Insecure drops the `Secure` attribute so the cookie works over plain
	// HTTP (local development only).
	Insecure bool

	TimeFunc func() time.Time
}

// Session returns the session ID carried by the request's cookie. A missing,
// forged or expired cookie is an error; callers start a fresh session.
func (sc *SessionCookies) Session(r pz.Request) (types.SessionID, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", fmt.Errorf("reading session cookie: %w", err)
	}

	var claims jwt.StandardClaims
	if _, err := jwt.ParseWithClaims(
		cookie.Value,
		&claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf(
					"unexpected signing method: %v",
					t.Header["alg"],
				)
			}
			return sc.SigningKey, nil
		},
	); err != nil {
		return "", fmt.Errorf("validating session cookie: %w", err)
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("validating session cookie: subject: %w", err)
	}
	return types.SessionID(claims.Subject), nil
}

func (sc *SessionCookies) NewSession() types.SessionID {
	return types.SessionID(uuid.NewString())
}

// Cookie signs a cookie for `id` that expires after the TTL.
func (sc *SessionCookies) Cookie(id types.SessionID) (*http.Cookie, error) {
	now := sc.now()
	expires := now.Add(sc.ttl())
	token, err := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		jwt.StandardClaims{
			Subject:   string(id),
			IssuedAt:  now.Unix(),
			ExpiresAt: expires.Unix(),
		},
	).SignedString(sc.SigningKey)
	if err != nil {
		return nil, fmt.Errorf("signing session cookie: %w", err)
	}
	cookie := sc.cookie(token)
	cookie.Expires = expires
	return cookie, nil
}

// Expired returns a cookie that makes the browser drop the session cookie.
func (sc *SessionCookies) Expired() *http.Cookie {
	cookie := sc.cookie("")
	cookie.MaxAge = -1
	return cookie
}

func (sc *SessionCookies) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name: CookieName,
		// without this it will use the route's path (specifically the dirname
		// of the route's path)
		Path:     "/",
		Domain:   sc.Domain,
		Value:    value,
		Secure:   !sc.Insecure,
		HttpOnly: true,

		// Lax so the cookie survives following the emailed link back to the
		// site.
		SameSite: http.SameSiteLaxMode,
	}
}

func (sc *SessionCookies) ttl() time.Duration {
	if sc.TTL > 0 {
		return sc.TTL
	}
	return DefaultSessionTTL
}

func (sc *SessionCookies) now() time.Time {
	if sc.TimeFunc != nil {
		return sc.TimeFunc()
	}
	return time.Now()
}
