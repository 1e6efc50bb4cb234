package handlers

import (
	"errors"
	"net/http"
	"time"

	"skillsmatrix/config"
	service "skillsmatrix/services"
	"skillsmatrix/utils"

	"go.uber.org/zap"
)

// Settings are the boundary knobs shared by every handler.
type Settings struct {
	DefaultNamespace   string
	RequestTimeout     time.Duration
	BulkRequestTimeout time.Duration
}

func SettingsFromConfig(cfg config.Config) Settings {
	return Settings{
		DefaultNamespace:   cfg.DefaultNamespace,
		RequestTimeout:     cfg.RequestTimeout,
		BulkRequestTimeout: cfg.BulkRequestTimeout,
	}
}

// namespace resolves ?prefix= against the default so that every layer below
// sees the same key.
func (s Settings) namespace(r *http.Request) string {
	if p := r.URL.Query().Get("prefix"); p != "" {
		return p
	}
	return s.DefaultNamespace
}

// writeServiceError maps service errors to status codes. Unclassified errors
// never leak their text to the caller.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	var ve *service.ValidationError
	var nf *service.NotFoundError

	switch {
	case errors.As(err, &ve):
		if len(ve.Fields) > 0 {
			utils.HandleValidationResponse(w, http.StatusBadRequest, ve.Fields)
			return
		}
		utils.HandleMessageResponse(w, ve.Message, http.StatusBadRequest)
	case errors.As(err, &nf):
		utils.HandleMessageResponse(w, nf.Error(), http.StatusNotFound)
	default:
		log.Error(op+" failed",
			zap.String("request_id", w.Header().Get(utils.RequestIDHeader)),
			zap.Error(err))
		utils.HandleMessageResponse(w, service.ErrUnknown.Error(), http.StatusInternalServerError)
	}
}

// requireEmail reads ?email= and rejects the request when it is missing or
// malformed.
func requireEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := r.URL.Query().Get("email")
	if email == "" {
		utils.HandleValidationResponse(w, http.StatusBadRequest, map[string]string{"email": "required"})
		return "", false
	}
	if !utils.ValidateEmail(email) {
		utils.HandleValidationResponse(w, http.StatusBadRequest, map[string]string{"email": "email"})
		return "", false
	}
	return email, true
}
