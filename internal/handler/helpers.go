package handler

import (
	"encoding/json"
	"log"
	"net/http"
)

func writeJSON(logger *log.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Printf("Error encoding response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(logger *log.Logger, w http.ResponseWriter, status int, message string) {
	writeJSON(logger, w, status, errorResponse{Error: message})
}

type messageResponse struct {
	Message string `json:"message"`
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
