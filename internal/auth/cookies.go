package auth

import (
	"net/http"
	"time"
)

// AccessTokenCookie is the cookie carrying the access token after login.
const AccessTokenCookie = "access_token"

// SetAccessTokenCookie sets the access token in an httpOnly, secure,
// strict-same-site cookie whose expiry mirrors the token's own exp claim.
func SetAccessTokenCookie(w http.ResponseWriter, accessToken string, expiresAt time.Time) {
	cookie := &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
	http.SetCookie(w, cookie)
}

// ClearAccessTokenCookie clears the access token cookie.
func ClearAccessTokenCookie(w http.ResponseWriter) {
	cookie := &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
	http.SetCookie(w, cookie)
}

// GetAccessTokenCookie retrieves the access token from cookies.
func GetAccessTokenCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(AccessTokenCookie)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
