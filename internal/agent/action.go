package agent

import (
	"encoding/json"
	"strings"
)

// ActionKind tags the decoded variant of a model response.
type ActionKind string

const (
	ActionText             ActionKind = "text"
	ActionScheduleReminder ActionKind = "schedule_reminder"
	ActionEmergencyAlert   ActionKind = "emergency_alert"
)

// Action is the tagged-variant form of a model response: either free text
// aimed at the user, or a structured request for a side effect.
type Action struct {
	Kind ActionKind

	// ActionScheduleReminder fields.
	Phone        string
	MedicineName string
	ReminderTime string

	// ActionEmergencyAlert fields.
	PatientName string
	Condition   string

	// ActionText payload.
	Text string
}

type actionPayload struct {
	Action       string `json:"action"`
	Phone        string `json:"phone"`
	MedicineName string `json:"medicine_name"`
	ReminderTime string `json:"reminder_time"`
	PatientName  string `json:"patient_name"`
	Condition    string `json:"condition"`
}

// DecodeAction decodes model output defensively: any output that is not a
// well-formed action payload falls back to free text.
func DecodeAction(output string) Action {
	var payload actionPayload
	if err := json.Unmarshal([]byte(stripFence(output)), &payload); err != nil {
		return Action{Kind: ActionText, Text: output}
	}

	switch ActionKind(payload.Action) {
	case ActionScheduleReminder:
		return Action{
			Kind:         ActionScheduleReminder,
			Phone:        payload.Phone,
			MedicineName: payload.MedicineName,
			ReminderTime: payload.ReminderTime,
		}
	case ActionEmergencyAlert:
		name := payload.PatientName
		if name == "" {
			name = "Unknown"
		}
		condition := payload.Condition
		if condition == "" {
			condition = "unspecified"
		}
		return Action{Kind: ActionEmergencyAlert, PatientName: name, Condition: condition}
	default:
		return Action{Kind: ActionText, Text: output}
	}
}

// stripFence removes a surrounding markdown code fence, which some models wrap
// around JSON output.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
