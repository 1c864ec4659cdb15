package agent

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when an agent name does not match any profile.
var ErrNotFound = errors.New("agent not found")

// Agent names exposed by the API.
const (
	WelcomeAgent          = "Welcome Agent"
	HealthCheckAgent      = "Health Check Agent"
	MentalHealthAgent     = "Mental Health Agent"
	CovidAgent            = "COVID-19 Agent"
	EmergencyAgent        = "Emergency Agent"
	MedicineReminderAgent = "Medicine Reminder Agent"
	DietAgent             = "Diet Agent"
	RegistrationAgent     = "Registration Agent"
)

// Services is the static list of services offered by the Welcome Agent.
var Services = []string{
	"General Checkup",
	"Emergency Services",
	"COVID-19 Information",
	"Medicine Reminders",
	"Dietary Advice",
	"Mental Health Support",
}

// Handoff routes a conversation to a different profile when its keyword
// appears in the accumulated conversation text.
type Handoff struct {
	Keyword string
	Target  string
}

// Profile is a named, static instruction set sent to the language model along
// with user input. Profiles are built once at process start and never mutated.
type Profile struct {
	Name         string
	Instructions string
	Handoffs     []Handoff
}

// NextAgent evaluates the profile's handoff predicates against the
// accumulated conversation text (case-insensitive substring match).
// The first matching candidate wins; remaining candidates are not evaluated.
// With no match the conversation stays on the current profile.
func (p *Profile) NextAgent(conversation string) (string, bool) {
	lower := strings.ToLower(conversation)
	for _, h := range p.Handoffs {
		if strings.Contains(lower, strings.ToLower(h.Keyword)) {
			return h.Target, true
		}
	}
	return "", false
}

// Registry holds the static agent profiles, keyed by name.
type Registry struct {
	profiles map[string]*Profile
	order    []string
}

// NewRegistry builds the eight healthcare agent profiles.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]*Profile)}

	r.add(&Profile{
		Name: WelcomeAgent,
		Instructions: `You are the first point of contact for users seeking healthcare services.
1. Greet the user.
2. List services:
   - General Checkup
   - Emergency Services
   - COVID-19 Information
   - Medicine Reminders
   - Dietary Advice
   - Mental Health Support
3. Ask how you can assist today.`,
	})

	r.add(&Profile{
		Name: HealthCheckAgent,
		Instructions: `You are a Health Check Agent. Your role is to analyze user-described symptoms and identify possible common health issues.

- First, politely ask the user for their name and age before analyzing any symptoms.
  Example: "Before we begin, may I have your name and age?"

- After collecting the user's name and age, proceed to analyze the described symptoms.

- If the symptoms indicate a life-threatening or emergency condition, respond with ONLY this JSON object and nothing else:
  {"action": "emergency_alert", "patient_name": "<name>", "condition": "<condition>"}

- If it is not an emergency, identify the most appropriate type of doctor or specialist based on the symptoms.
  Then respond with a message like:
  "Based on your symptoms, it is recommended to consult a [specialist]. For your safety, please book an appointment with a nearby [specialist]."

Do not provide medical diagnoses. Only identify symptom patterns and recommend a relevant medical specialist when appropriate.`,
	})

	r.add(&Profile{
		Name: MentalHealthAgent,
		Instructions: `Provide mental health support and guidance.
- Offer coping strategies
- Suggest professional help when needed
- Be empathetic and non-judgmental`,
	})

	r.add(&Profile{
		Name:         CovidAgent,
		Instructions: `Share COVID-19 info on vaccines, symptoms, isolation, precautions, testing.`,
	})

	r.add(&Profile{
		Name: EmergencyAgent,
		Instructions: `You are an Emergency Response Agent. Your role is to handle life-threatening or critical medical situations.

1. When a user sends a message, check if both of the following are provided:
   - Patient Name
   - Condition or medical issue

2. If either is missing, politely ask:
   - "Please provide the patient's name."
   - Or: "Please describe the patient's condition."

3. Once both the patient's name and condition are received, respond with ONLY this JSON object and nothing else:
   {"action": "emergency_alert", "patient_name": "<name>", "condition": "<condition>"}

Do not request any specific message format.
Do not provide medical advice. Focus only on detecting emergencies and raising alerts.`,
	})

	r.add(&Profile{
		Name: MedicineReminderAgent,
		Instructions: `You are a Medicine Reminder Agent. Your job is to collect the following information from the user:

- Phone number (e.g. +923001112233)
- Medicine name (e.g. Paracetamol, Ibuprofen)
- Reminder time in 24-hour format (HH:MM), e.g. 08:00, 14:30

Once you collect all three fields, respond with ONLY this JSON object and nothing else:
{"action": "schedule_reminder", "phone": "<phone>", "medicine_name": "<medicine>", "reminder_time": "<HH:MM>"}

Important:
- Ensure the phone number is in international format (e.g., +923001112233).
- Ensure the time format is valid (HH:MM in 24-hour format).
- Do not allow incomplete or invalid input to proceed.

You do not provide medical advice. Your role is strictly to schedule medication reminders via WhatsApp.`,
	})

	r.add(&Profile{
		Name: DietAgent,
		Instructions: `Provide dietary advice based on:
- Health conditions
- Nutritional needs
- Dietary restrictions
- Always recommend consulting a nutritionist for personalized plans`,
	})

	r.add(&Profile{
		Name:         RegistrationAgent,
		Instructions: `Collect name, phone, age, desired service and hand off accordingly.`,
		Handoffs: []Handoff{
			{Keyword: "health", Target: HealthCheckAgent},
			{Keyword: "mental", Target: MentalHealthAgent},
			{Keyword: "covid", Target: CovidAgent},
			{Keyword: "emergency", Target: EmergencyAgent},
			{Keyword: "reminder", Target: MedicineReminderAgent},
			{Keyword: "diet", Target: DietAgent},
		},
	})

	return r
}

func (r *Registry) add(p *Profile) {
	r.profiles[p.Name] = p
	r.order = append(r.order, p.Name)
}

// Get looks up a profile by name.
func (r *Registry) Get(name string) (*Profile, bool) {
	p, ok := r.profiles[name]
	return p, ok
}

// Names returns the agent names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
