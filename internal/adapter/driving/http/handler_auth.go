package httphandler

import (
	"encoding/json"
	"net/http"
)

// SignUp creates a new account from email/password credentials.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Please enter both email and password")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Please enter both email and password")
		return
	}

	user, err := h.authSvc.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		status, msg := mapError(err)
		writeError(w, status, msg)
		return
	}

	h.logger.Info("signup completed", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, MessageResponse{
		Message: "Account created! Please check your email for verification link.",
	})
}

// SignIn checks credentials and sets the session cookie.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Please enter both email and password")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Please enter both email and password")
		return
	}

	session, user, err := h.authSvc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		status, msg := mapError(err)
		writeError(w, status, msg)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

// SignOut deletes the login session and clears the cookie. A missing cookie
// is not an error.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		if err := h.authSvc.SignOut(r.Context(), cookie.Value); err != nil {
			h.logger.Error("sign out failed", "error", err)
			writeError(w, http.StatusInternalServerError, genericErrorMessage)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Signed out"})
}

// ResetPassword records a password reset request. The response is the same
// whether or not the account exists.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Please enter a valid email address")
		return
	}

	if err := h.authSvc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		status, msg := mapError(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: "If an account exists for that address, a reset link has been sent.",
	})
}

// Me returns the signed-in account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	writeJSON(w, http.StatusOK, toUserResponse(*user))
}
