package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"neuronest-backend/internal/agent"
	"neuronest-backend/internal/memory"
	"neuronest-backend/internal/platform/whatsapp"
	"neuronest-backend/internal/reminder"
)

// ReminderScheduler registers daily reminder jobs decoded from model output.
type ReminderScheduler interface {
	Upsert(ctx context.Context, j reminder.Job) error
}

// AlertRaiser dispatches emergency alerts decoded from model output.
type AlertRaiser interface {
	Raise(ctx context.Context, patientName, condition string) whatsapp.Result
}

// Service routes user messages to agent profiles, maintains the per-session
// conversation buffer, and executes structured actions found in model output.
type Service struct {
	registry  *agent.Registry
	llm       agent.LLMClient
	memory    *memory.Store
	reminders ReminderScheduler
	alerts    AlertRaiser
	logger    *slog.Logger
}

func NewService(
	registry *agent.Registry,
	llm agent.LLMClient,
	mem *memory.Store,
	reminders ReminderScheduler,
	alerts AlertRaiser,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		registry:  registry,
		llm:       llm,
		memory:    mem,
		reminders: reminders,
		alerts:    alerts,
		logger:    logger,
	}
}

// Chat runs one conversational turn against the named agent. It returns the
// user-facing response and the agent that should handle subsequent turns in
// this session (the invoked agent unless a handoff keyword matched).
//
// The user turn is appended to session memory before the model call, so a
// failing model still leaves the turn available for the next request.
func (s *Service) Chat(ctx context.Context, sessionID, agentName, message string) (response, nextAgent string, err error) {
	profile, ok := s.registry.Get(agentName)
	if !ok {
		return "", "", fmt.Errorf("%w: %s", agent.ErrNotFound, agentName)
	}

	s.memory.Append(sessionID, memory.Turn{Role: memory.RoleUser, Text: message})
	prompt := s.memory.Context(sessionID) + "\nassistant:"

	output, err := s.llm.Complete(ctx, profile.Instructions, prompt)
	if err != nil {
		return "", "", fmt.Errorf("run agent %q: %w", agentName, err)
	}
	s.memory.Append(sessionID, memory.Turn{Role: memory.RoleAssistant, Text: output})

	nextAgent = profile.Name
	if target, matched := profile.NextAgent(s.memory.Context(sessionID)); matched {
		nextAgent = target
		s.logger.Info("agent handoff", "session", sessionID, "from", profile.Name, "to", target)
	}

	response, err = s.applyAction(ctx, output)
	if err != nil {
		return "", "", err
	}
	return response, nextAgent, nil
}

// applyAction executes a structured action found in model output and returns
// a human-readable confirmation; free text passes through unchanged.
func (s *Service) applyAction(ctx context.Context, output string) (string, error) {
	action := agent.DecodeAction(output)
	switch action.Kind {
	case agent.ActionScheduleReminder:
		job, err := reminder.NewJob(action.Phone, action.MedicineName, action.ReminderTime)
		if err != nil {
			return "", err
		}
		if err := s.reminders.Upsert(ctx, job); err != nil {
			return "", fmt.Errorf("schedule reminder: %w", err)
		}
		return fmt.Sprintf("Reminder set for %s at %s via WhatsApp to %s.",
			job.Medicine, job.FireTime, job.Phone), nil

	case agent.ActionEmergencyAlert:
		s.alerts.Raise(ctx, action.PatientName, action.Condition)
		return fmt.Sprintf("Emergency alert sent to the emergency department for %s with condition: %s.",
			action.PatientName, action.Condition), nil

	default:
		return output, nil
	}
}

// Register routes a registration request through the Registration Agent and
// reports which agent should take over the session.
func (s *Service) Register(ctx context.Context, name, phone string, age int, service string) (response, nextAgent string, err error) {
	message := fmt.Sprintf("Name: %s\nPhone: %s\nAge: %d\nRequested service: %s", name, phone, age, service)
	return s.Chat(ctx, uuid.NewString(), agent.RegistrationAgent, message)
}

// Query runs a stateless, single-shot request against the named agent.
func (s *Service) Query(ctx context.Context, agentName, message string) (string, error) {
	profile, ok := s.registry.Get(agentName)
	if !ok {
		return "", fmt.Errorf("%w: %s", agent.ErrNotFound, agentName)
	}
	output, err := s.llm.Complete(ctx, profile.Instructions, message)
	if err != nil {
		return "", fmt.Errorf("run agent %q: %w", agentName, err)
	}
	return output, nil
}
