package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"quill/models"
)

const maxBodyBytes = 1 << 20

type M map[string]any

// RespondWithJSON sends data with the given status code.
func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// RespondWithError sends {"message": msg}.
func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, M{"message": msg})
}

func RespondWithValidation(w http.ResponseWriter, verr *models.ValidationError) {
	RespondWithJSON(w, http.StatusBadRequest, M{
		"message": "Validation failed",
		"errors":  verr.Fields,
	})
}

// DecodeJSON reads a single JSON object from the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
