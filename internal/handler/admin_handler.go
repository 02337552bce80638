package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kadankyi1/amforex/internal/service"
)

type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/register", h.Register)
}

func (h *AdminHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Route("/admins", func(r chi.Router) {
		r.Post("/add", h.Add)
		r.Post("/all", h.List)
		r.Post("/one", h.GetOne)
		r.Post("/update", h.Edit)
	})
}

func (h *AdminHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.AdminRegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.adminService.Register(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, "Operation successful", struct {
		Admin       interface{} `json:"admin"`
		AccessToken string      `json:"access_token"`
	}{result.Admin, result.AccessToken})
}

func (h *AdminHandler) Add(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req service.AdminAddRequest
	if !decodeBody(w, r, &req) {
		return
	}

	admin, err := h.adminService.Add(r.Context(), p, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, "Operation successful", admin)
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req struct {
		Page int `json:"page"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	admins, err := h.adminService.List(r.Context(), p, req.Page)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Operation successful", admins)
}

func (h *AdminHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req struct {
		AdminID int64 `json:"admin_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	admin, err := h.adminService.GetOne(r.Context(), p, req.AdminID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Operation successful", admin)
}

func (h *AdminHandler) Edit(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req service.AdminEditRequest
	if !decodeBody(w, r, &req) {
		return
	}

	admin, err := h.adminService.Edit(r.Context(), p, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Operation successful", admin)
}
