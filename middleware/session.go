package middleware

import (
	"context"
	"net/http"

	"kindbites-api/utils"
)

// Key type for context
type contextKey string

const SessionContextKey = contextKey("cartSession")

const sessionCookie = "cart_session"

// SessionMiddleware attaches a cart-session id to every request. A valid
// signed cookie keeps its cart id; an absent or tampered cookie gets a
// fresh session (and with it an empty cart) rather than an error.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var cartID string

		if cookie, err := r.Cookie(sessionCookie); err == nil {
			if id, err := utils.ParseSessionToken(cookie.Value); err == nil {
				cartID = id
			}
		}

		if cartID == "" {
			token, id, err := utils.NewSessionToken()
			if err != nil {
				http.Error(w, "Failed to start session", http.StatusInternalServerError)
				return
			}
			cartID = id
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, cartID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the cart-session id attached by SessionMiddleware,
// or "" when the middleware did not run.
func SessionID(r *http.Request) string {
	id, _ := r.Context().Value(SessionContextKey).(string)
	return id
}
