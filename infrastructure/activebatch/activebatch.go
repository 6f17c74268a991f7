package activebatch

import "net/http"

// CookieName stores the id of the batch the operator is currently working on,
// so the aliases and results screens can skip the "latest batch" lookup.
const CookieName = "prodmetas_active_batch"

// Get returns the remembered batch id, or "" when none is set.
func Get(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// Set remembers the batch id across page navigations. No expiry, matching a
// plain key-value slot.
func Set(w http.ResponseWriter, batchID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    batchID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear forgets the remembered batch id.
func Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
