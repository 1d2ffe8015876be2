package httpapi

import (
	"net/http"
)

// SessionCookie names the cookie carrying the visitor's session id.
const SessionCookie = "visiond_session"

func sessionFromRequest(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// ensureSession resolves the caller's session through svc, setting the cookie
// when a new one was created.
func ensureSession(w http.ResponseWriter, r *http.Request, svc Service) string {
	cur := sessionFromRequest(r)
	id := svc.EnsureSession(cur)
	if id != cur {
		setSessionCookie(w, id)
	}
	return id
}

func setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
