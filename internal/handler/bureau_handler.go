package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kadankyi1/amforex/internal/service"
)

type BureauHandler struct {
	bureauService *service.BureauService
}

func NewBureauHandler(bureauService *service.BureauService) *BureauHandler {
	return &BureauHandler{bureauService: bureauService}
}

func (h *BureauHandler) RegisterRoutes(r chi.Router) {
	r.Route("/bureaus", func(r chi.Router) {
		r.Post("/add", h.Add)
		r.Post("/all", h.List)
		r.Post("/one", h.GetOne)
		r.Post("/search", h.Search)
	})
}

func (h *BureauHandler) Add(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req service.BureauAddRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.bureauService.Add(r.Context(), p, req)
	if err != nil {
		respondError(w, err)
		return
	}

	data := struct {
		Bureau interface{} `json:"bureau"`
		Branch interface{} `json:"branch"`
		Worker interface{} `json:"worker"`
	}{result.Bureau, result.Branch, result.Worker}

	if result.BureauUpdated {
		respondSuccess(w, http.StatusOK, "Bureau updated successfully", data)
		return
	}
	respondSuccess(w, http.StatusCreated, "Bureau added successfully", data)
}

func (h *BureauHandler) List(w http.ResponseWriter, r *http.Request) {
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

	bureaus, err := h.bureauService.List(r.Context(), p, req.Page)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Operation successful", bureaus)
}

func (h *BureauHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req struct {
		BureauID int64 `json:"bureau_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	bureau, err := h.bureauService.GetOne(r.Context(), p, req.BureauID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Operation successful", bureau)
}

func (h *BureauHandler) Search(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req struct {
		Keyword string `json:"keyword"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	bureaus, err := h.bureauService.Search(r.Context(), p, req.Keyword)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Operation successful", bureaus)
}
