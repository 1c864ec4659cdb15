package reminder

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	scheduler *Scheduler
}

func NewHandler(scheduler *Scheduler) *Handler {
	return &Handler{scheduler: scheduler}
}

type scheduleRequest struct {
	Phone        string `json:"phone"`
	MedicineName string `json:"medicine_name"`
	ReminderTime string `json:"reminder_time"`
}

type scheduleResponse struct {
	Status       string `json:"status"`
	Phone        string `json:"phone"`
	MedicineName string `json:"medicine_name"`
	ReminderTime string `json:"reminder_time"`
}

// ScheduleReminder registers (or replaces) a daily medicine reminder.
func (h *Handler) ScheduleReminder(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	job, err := NewJob(req.Phone, req.MedicineName, req.ReminderTime)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			http.Error(w, vErr.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.scheduler.Upsert(r.Context(), job); err != nil {
		http.Error(w, "Failed to schedule reminder", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scheduleResponse{
		Status:       "scheduled",
		Phone:        job.Phone,
		MedicineName: job.Medicine,
		ReminderTime: job.FireTime,
	})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/medicine-reminder", h.ScheduleReminder)
}
