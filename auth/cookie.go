package auth

import (
	"net/http"
	"strings"
)

const CookieName = "token"

// CookiePolicy decides the cookie attributes. Production or HTTPS requests
// get Secure + SameSite=None so the cross-site frontend can send the cookie.
type CookiePolicy struct {
	Production bool
}

func (p CookiePolicy) secure(r *http.Request) bool {
	if p.Production || r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func (p CookiePolicy) cookie(r *http.Request, value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if p.secure(r) {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

// SetSession writes the session cookie for token.
func (p CookiePolicy) SetSession(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, p.cookie(r, token, int(TokenTTL.Seconds())))
}

// ClearSession expires the session cookie using the same attributes it was set with.
func (p CookiePolicy) ClearSession(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, p.cookie(r, "", -1))
}

// TokenFromRequest reads the session cookie, falling back to a bearer header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
