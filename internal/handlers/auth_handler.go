package handlers

import (
	"net/http"

	"rental-backend/internal/auth"
	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

type AuthHandler struct {
	Service      *services.UserService
	CookieSecure bool
}

func NewAuthHandler(s *services.UserService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		Service:      s,
		CookieSecure: cookieSecure,
	}
}

// Login handles user authentication and sets the session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.Error(w, r, err)
		return
	}

	user, token, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		utils.Error(w, r, err)
		return
	}

	auth.SetSessionCookie(w, token, h.Service.JWTManager.TTL(), h.CookieSecure)
	utils.SuccessMessage(w, http.StatusOK, "Login successful", user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.CookieSecure)
	utils.SuccessMessage(w, http.StatusOK, "Logged out", nil)
}

// Me returns the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	c, err := callerFrom(r)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	user, err := h.Service.GetUser(r.Context(), c.ID)
	if err != nil {
		utils.Error(w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, user)
}
