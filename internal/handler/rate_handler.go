package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kadankyi1/amforex/internal/service"
)

type RateHandler struct {
	rateService *service.RateService
}

func NewRateHandler(rateService *service.RateService) *RateHandler {
	return &RateHandler{rateService: rateService}
}

func (h *RateHandler) RegisterRoutes(r chi.Router) {
	r.Route("/rates", func(r chi.Router) {
		r.Post("/add", h.Add)
		r.Post("/all", h.List)
		r.Post("/one", h.GetOne)
		r.Post("/search", h.Search)
	})
}

func (h *RateHandler) Add(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req service.RateAddRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.rateService.Add(r.Context(), p, req)
	if err != nil {
		respondError(w, err)
		return
	}

	if result.Updated {
		respondSuccess(w, http.StatusOK, "Rate updated successfully", result.Rate)
		return
	}
	respondSuccess(w, http.StatusCreated, "Rate added successfully", result.Rate)
}

func (h *RateHandler) List(w http.ResponseWriter, r *http.Request) {
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

	rates, err := h.rateService.List(r.Context(), p, req.Page)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Operation successful", rates)
}

func (h *RateHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req struct {
		RateID int64 `json:"rate_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	rate, err := h.rateService.GetOne(r.Context(), p, req.RateID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Operation successful", rate)
}

func (h *RateHandler) Search(w http.ResponseWriter, r *http.Request) {
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

	rates, err := h.rateService.Search(r.Context(), p, req.Keyword)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Operation successful", rates)
}
