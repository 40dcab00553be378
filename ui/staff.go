package ui

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/dbknowledge/dbchat/backend"
	"github.com/dbknowledge/dbchat/ui/service"
)

// tokenParam is the query parameter carrying a BackOffice session token.
const tokenParam = "sessionId"

// staffCookieMaxAge is the lifetime of the staff cookie in seconds.
const staffCookieMaxAge = 12 * 60 * 60

// staffSigner signs and verifies staff cookie values.
type staffSigner struct {
	key []byte
}

// sign returns "<base64 staff id>.<base64 mac>".
func (s staffSigner) sign(staffID string) string {
	id := base64.RawURLEncoding.EncodeToString([]byte(staffID))
	return id + "." + base64.RawURLEncoding.EncodeToString(s.mac(id))
}

// verify returns the staff id of a value produced by sign.
func (s staffSigner) verify(value string) (string, error) {
	id, sig, ok := strings.Cut(value, ".")
	if !ok {
		return "", ErrBadCookie
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(got, s.mac(id)) {
		return "", ErrBadCookie
	}
	staffID, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil || len(staffID) == 0 {
		return "", ErrBadCookie
	}
	return string(staffID), nil
}

func (s staffSigner) mac(data string) []byte {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(data))
	return h.Sum(nil)
}

// staffMiddleware puts the acting staff id on the request context.
//
// A BackOffice token in the sessionId query parameter is exchanged for a
// staff id, stored in a signed cookie, and removed from the URL by a
// redirect. Otherwise the cookie is used, then the configured default.
// Static assets are served without a staff id.
func staffMiddleware(next http.Handler, svc *service.Service, cfg *Config) http.Handler {
	signer := staffSigner{key: cfg.CookieSecret}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/static/") {
			next.ServeHTTP(w, r)
			return
		}

		if token := r.URL.Query().Get(tokenParam); token != "" {
			staffID, err := svc.ResolveStaff(r.Context(), token)
			if err != nil {
				if cfg.Logger != nil {
					cfg.Logger.Warn("staff token rejected", "error", err.Error(), "path", r.URL.Path)
				}
				http.Error(w, "Your session is invalid or has expired. Please reopen the chat from the BackOffice.", http.StatusUnauthorized)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cfg.CookieName,
				Value:    signer.sign(staffID),
				Path:     cookiePath(cfg.BasePath),
				MaxAge:   staffCookieMaxAge,
				HttpOnly: true,
				Secure:   cfg.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})

			q := r.URL.Query()
			q.Del(tokenParam)
			target := cfg.BasePath + r.URL.Path
			if encoded := q.Encode(); encoded != "" {
				target += "?" + encoded
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		staffID := cfg.DefaultStaffID
		if cookie, err := r.Cookie(cfg.CookieName); err == nil {
			if id, err := signer.verify(cookie.Value); err == nil {
				staffID = id
			} else if cfg.Logger != nil {
				cfg.Logger.Warn("staff cookie rejected", "path", r.URL.Path)
			}
		}

		if staffID != "" {
			r = r.WithContext(backend.WithStaffID(r.Context(), staffID))
		}
		next.ServeHTTP(w, r)
	})
}

func cookiePath(basePath string) string {
	if basePath == "" {
		return "/"
	}
	return basePath
}
