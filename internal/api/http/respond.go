package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mind-engage/mindengage-cloze/internal/cloze"
	"github.com/mind-engage/mindengage-cloze/internal/exercise"
	"github.com/mind-engage/mindengage-cloze/internal/logger"
	"github.com/mind-engage/mindengage-cloze/internal/session"
	"github.com/mind-engage/mindengage-cloze/internal/storage"
	"github.com/mind-engage/mindengage-cloze/internal/validate"
)

type errorBody struct {
	Error  string            `json:"error"`
	Offset *int              `json:"offset,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes; anything unknown is a 500
// and gets logged.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	var (
		fe  *validate.FieldsError
		mce *cloze.MalformedClozeError
	)
	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Fields: fe.Fields})
	case errors.As(err, &mce):
		off := mce.Offset
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Offset: &off})
	case errors.Is(err, cloze.ErrInvalidBlankDefinition),
		errors.Is(err, storage.ErrInvalidKey):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, exercise.ErrNotFound),
		errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, cloze.ErrUnknownBlank),
		errors.Is(err, cloze.ErrUnknownHighlight),
		errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, session.ErrSessionExpired):
		writeJSON(w, http.StatusGone, errorBody{Error: err.Error()})
	case errors.Is(err, session.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
	default:
		log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return false
	}
	return true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
