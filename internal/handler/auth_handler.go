package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kadankyi1/amforex/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/login", h.Login)
}

func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/verify-passcode", h.VerifyPasscode)
	r.Post("/resend-passcode", h.ResendPasscode)
	r.Post("/logout", h.Logout)
	r.Post("/change-password", h.ChangePassword)
}

// Login is the first factor. The success body is flat: the names and token
// sit beside the status rather than under data, matching the original
// contract.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, struct {
		Status         string `json:"status"`
		AdminFirstname string `json:"admin_firstname"`
		AdminSurname   string `json:"admin_surname"`
		AccessToken    string `json:"access_token"`
	}{
		Status:         statusSuccess,
		AdminFirstname: result.Firstname,
		AdminSurname:   result.Surname,
		AccessToken:    result.AccessToken,
	})
}

func (h *AuthHandler) VerifyPasscode(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req struct {
		Passcode string `json:"passcode"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.authService.VerifyPasscode(r.Context(), p, req.Passcode); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Verification successful", nil)
}

func (h *AuthHandler) ResendPasscode(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	if err := h.authService.ResendPasscode(r.Context(), p); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Passcode re-sent successfully", nil)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	if err := h.authService.Logout(r.Context(), p); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req service.ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.authService.ChangePassword(r.Context(), p, req); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Password changed successfully.", nil)
}
