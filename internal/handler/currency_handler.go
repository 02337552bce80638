package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kadankyi1/amforex/internal/service"
)

type CurrencyHandler struct {
	currencyService *service.CurrencyService
}

func NewCurrencyHandler(currencyService *service.CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{currencyService: currencyService}
}

func (h *CurrencyHandler) RegisterRoutes(r chi.Router) {
	r.Route("/currencies", func(r chi.Router) {
		r.Post("/add", h.Add)
		r.Post("/all", h.List)
		r.Post("/one", h.GetOne)
		r.Post("/search", h.Search)
		r.Post("/update", h.Edit)
	})
}

func (h *CurrencyHandler) Add(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req service.CurrencyAddRequest
	if !decodeBody(w, r, &req) {
		return
	}

	currency, err := h.currencyService.Add(r.Context(), p, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, "Currency added successfully", currency)
}

func (h *CurrencyHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	currencies, err := h.currencyService.List(r.Context(), p)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Operation successful", currencies)
}

func (h *CurrencyHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req struct {
		CurrencyID int64 `json:"currency_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	currency, err := h.currencyService.GetOne(r.Context(), p, req.CurrencyID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Operation successful", currency)
}

func (h *CurrencyHandler) Search(w http.ResponseWriter, r *http.Request) {
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

	currencies, err := h.currencyService.Search(r.Context(), p, req.Keyword)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Operation successful", currencies)
}

func (h *CurrencyHandler) Edit(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req service.CurrencyEditRequest
	if !decodeBody(w, r, &req) {
		return
	}

	currency, err := h.currencyService.Edit(r.Context(), p, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "Currency updated successfully", currency)
}
