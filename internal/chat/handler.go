package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"neuronest-backend/internal/agent"
	"neuronest-backend/internal/reminder"
)

type Handler struct {
	svc      *Service
	registry *agent.Registry
}

func NewHandler(svc *Service, registry *agent.Registry) *Handler {
	return &Handler{svc: svc, registry: registry}
}

type chatRequest struct {
	Message   string `json:"message"`
	Agent     string `json:"agent"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// HandleChat runs one conversational turn. The agent defaults to the Welcome
// Agent and a session id is generated when the client does not supply one.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Agent == "" {
		req.Agent = agent.WelcomeAgent
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	response, _, err := h.svc.Chat(r.Context(), req.SessionID, req.Agent, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chatResponse{Response: response, SessionID: req.SessionID})
}

type registerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Age     int    `json:"age"`
	Service string `json:"service"`
}

type registerResponse struct {
	Response string `json:"response"`
	Agent    string `json:"agent"`
}

// HandleRegister routes a registration message and reports the resulting
// agent for subsequent turns.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	response, nextAgent, err := h.svc.Register(r.Context(), req.Name, req.Phone, req.Age, req.Service)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(registerResponse{Response: response, Agent: nextAgent})
}

type queryRequest struct {
	Agent   string `json:"agent"`
	Message string `json:"message"`
}

// HandleQuery runs a stateless single-shot request against a named agent.
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	response, err := h.svc.Query(r.Context(), req.Agent, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"response": response})
}

// HandleListAgents enumerates the configured agent profiles.
func (h *Handler) HandleListAgents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"agents": h.registry.Names()})
}

// HandleListServices enumerates the services offered by the Welcome Agent.
func (h *Handler) HandleListServices(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"services": agent.Services})
}

// writeServiceError maps service errors onto the HTTP error taxonomy:
// unknown agent -> 404, malformed fields -> 400, upstream/internal -> 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var vErr *reminder.ValidationError
	switch {
	case errors.Is(err, agent.ErrNotFound):
		http.Error(w, "Agent not found", http.StatusNotFound)
	case errors.As(err, &vErr):
		http.Error(w, vErr.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Error processing request: "+err.Error(), http.StatusInternalServerError)
	}
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/chat", h.HandleChat)
	r.Post("/register", h.HandleRegister)
	r.Post("/query", h.HandleQuery)
	r.Get("/agents", h.HandleListAgents)
	r.Get("/services", h.HandleListServices)
}
