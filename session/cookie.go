package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// CookieName is the session cookie set on login.
const CookieName = "sid"

// SignCookie returns the cookie value "<id>.<signature>", where the signature
// is an HMAC-SHA256 of the id keyed by the session secret. The shape follows
// the express-session cookie the frontend already knows.
func SignCookie(secret, id string) string {
	return id + "." + sign(secret, id)
}

// ParseCookie validates a signed cookie value and returns the session id.
// Tampered or malformed values yield ok=false.
func ParseCookie(secret, value string) (id string, ok bool) {
	id, sig, found := strings.Cut(value, ".")
	if !found || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(sign(secret, id))) {
		return "", false
	}
	return id, true
}

func sign(secret, id string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
