package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kadankyi1/amforex/internal/auth"
	"github.com/kadankyi1/amforex/internal/service"
	"github.com/kadankyi1/amforex/internal/util"
)

// Response is the uniform API envelope. Status is "success" or "fail" and
// Message always carries the human-readable outcome.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

const (
	statusSuccess = "success"
	statusFail    = "fail"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		util.Error("failed to encode response", util.ErrorField(err))
	}
}

func respondSuccess(w http.ResponseWriter, code int, message string, data interface{}) {
	respondWithJSON(w, code, Response{Status: statusSuccess, Message: message, Data: data})
}

func respondFail(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, Response{Status: statusFail, Message: message})
}

// respondError maps service errors onto HTTP status codes. Anything not in
// the taxonomy is logged and reported generically; storage errors never
// escape raw.
func respondError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		respondFail(w, http.StatusUnprocessableEntity, ve.Msg)
		return
	}

	code := getStatusCode(err)
	if code == http.StatusInternalServerError {
		util.Error("request failed", util.ErrorField(err))
		respondFail(w, code, "Something went wrong. Please try again.")
		return
	}
	respondFail(w, code, err.Error())
}

func getStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrPasscodeVerification),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrAccountRestricted),
		errors.Is(err, service.ErrPermissionDenied),
		errors.Is(err, service.ErrIncorrectPIN),
		errors.Is(err, service.ErrIncorrectPassword):
		return http.StatusForbidden
	case errors.Is(err, service.ErrCurrencyExists),
		errors.Is(err, service.ErrPhoneTaken),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrCurrencyNotFound),
		errors.Is(err, service.ErrCurrencyMissing),
		errors.Is(err, service.ErrAdminNotFound),
		errors.Is(err, service.ErrBureauNotFound),
		errors.Is(err, service.ErrRateNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrPasscodeResend):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// principalFrom extracts the authenticated principal; the auth middleware
// guarantees it on protected routes.
func principalFrom(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		respondFail(w, http.StatusUnauthorized, service.ErrPermissionDenied.Error())
		return nil, false
	}
	return p, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondFail(w, http.StatusBadRequest, "Malformed request body")
		return false
	}
	return true
}
