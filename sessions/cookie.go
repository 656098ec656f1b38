package sessions

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// CookieCodec writes and reads the session id cookie. The cookie value is
// "id.signature" where the signature is an HMAC-SHA256 over the id, keyed by
// a key derived from the configured session secret. Only the opaque id
// crosses the wire; tampered or truncated cookies read as absent.
type CookieCodec struct {
	name string
	key  []byte
}

func NewCookieCodec(name, secret string) *CookieCodec {
	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("contacts-session-cookie"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		panic("session cookie key derivation failed: " + err.Error())
	}
	return &CookieCodec{name: name, key: key}
}

func (c *CookieCodec) sign(id string) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Write sets the session cookie for the given id.
func (c *CookieCodec) Write(w http.ResponseWriter, r *http.Request, id string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    id + "." + c.sign(id),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// Read returns the session id from the request cookie, verifying the
// signature. A missing or invalid cookie returns ok=false.
func (c *CookieCodec) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	id, sig, found := strings.Cut(cookie.Value, ".")
	if !found || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(c.sign(id))) {
		return "", false
	}
	return id, true
}

// Clear expires the session cookie.
func (c *CookieCodec) Clear(w http.ResponseWriter, r *http.Request) {
	c.Write(w, r, "", -1)
}
