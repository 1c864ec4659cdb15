package alert

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type alertRequest struct {
	PatientName string `json:"patient_name"`
	Condition   string `json:"condition"`
}

// RaiseAlert validates the request and dispatches an emergency notification.
// Both fields are required; validation failures never reach the notifier.
func (h *Handler) RaiseAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.PatientName) == "" {
		http.Error(w, "patient_name is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Condition) == "" {
		http.Error(w, "condition is required", http.StatusBadRequest)
		return
	}

	// Delivery failures are soft: the alert is acknowledged to the caller
	// and the failure is logged by the service.
	h.svc.Raise(r.Context(), req.PatientName, req.Condition)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "sent"})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/emergency-alert", h.RaiseAlert)
}
