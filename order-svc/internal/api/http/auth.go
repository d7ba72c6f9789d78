package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"bistro-backend/order-svc/internal/domain"

	"github.com/gorilla/mux"
)

const tokenCookie = "token"

func (h *Handler) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/api/auth/register", h.register).Methods("POST")
	r.HandleFunc("/api/auth/login", h.login).Methods("POST")
	r.HandleFunc("/api/auth/admin/login", h.adminLogin).Methods("POST")
	r.HandleFunc("/api/auth/logout", h.logout).Methods("POST")
	r.HandleFunc("/api/auth/profile", requireUser(h.profile)).Methods("GET")
}

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	user, err := h.Auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "User registered successfully", "user", user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	session, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.startSession(w, session, "Login successful")
}

func (h *Handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	session, err := h.Auth.AdminLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.startSession(w, session, "Admin login successful")
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", time.Unix(0, 0), -1))
	writeOK(w, http.StatusOK, "Logout successful", "", nil)
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.Auth.Profile(r.Context(), callerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Profile fetched", "user", user)
}

// startSession sets the HTTP-only cookie browsers use and also returns the
// token for clients that send it as a bearer header.
func (h *Handler) startSession(w http.ResponseWriter, session *domain.Session, message string) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	http.SetCookie(w, h.sessionCookie(session.Token, session.ExpiresAt, maxAge))
	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": message,
		"user":    session.User,
		"role":    session.User.Role(),
		"token":   session.Token,
	})
}

func (h *Handler) sessionCookie(value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     tokenCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}
