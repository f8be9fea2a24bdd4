// internal/handler/info_handler.go
package handler

import (
	"encoding/json"
	"net/http"
)

const apiMessage = "SEM Planner API is running!"

// InfoHandler answers GET / so the frontend can check the API is up.
type InfoHandler struct {
	Version string
}

func NewInfoHandler(version string) *InfoHandler {
	return &InfoHandler{Version: version}
}

func (h *InfoHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": apiMessage,
		"version": h.Version,
	})
}
