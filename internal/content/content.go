// Package content holds the static copy rendered by the guide, home and
// nurse contact screens.
package content

import "time"

// GuideStep is one numbered instruction on the test guide screen.
type GuideStep struct {
	Number      int
	Title       string
	Description string
	Icon        string
	Ready       bool
}

// GuideSteps returns the pre-test checklist.
func GuideSteps() []GuideStep {
	return []GuideStep{
		{Number: 1, Title: "Prepare Device", Description: "Switch on device and wait for green light", Icon: "power", Ready: true},
		{Number: 2, Title: "Take Deep Breath", Description: "Fill your lungs completely with air", Icon: "wind"},
		{Number: 3, Title: "Breathe Into Device", Description: "Breathe into the device steadily for 6-8 seconds", Icon: "clock"},
	}
}

// Contact form options.
var (
	ContactMethods = []string{"Phone Call", "Text Message", "Email", "Video Call"}
	UrgencyLevels  = []string{"Low Priority", "Medium Priority", "High Priority"}
	ContactReasons = []string{"Test Results", "Symptoms", "Medication", "General Question", "Emergency"}
)

// DefaultUrgency is preselected on the contact form.
const DefaultUrgency = "Medium Priority"

// HistoryEntry is one past exchange with the nurse.
type HistoryEntry struct {
	Kind     string
	Urgency  string
	At       time.Time
	Tag      string
	Message  string
	Response string
}

// Answered reports whether the nurse has replied.
func (h HistoryEntry) Answered() bool {
	return h.Response != ""
}

// ContactHistory returns the canned conversation log, newest first.
func ContactHistory() []HistoryEntry {
	at := time.Date(2025, time.July, 3, 14, 2, 0, 0, time.Local)
	return []HistoryEntry{
		{
			Kind:    "Text",
			Urgency: "medium",
			At:      at,
			Tag:     "Test Results",
			Message: "Hi Sarah, I had some questions about my latest test results. My score was 65 yesterday " +
				"which is lower than usual. Should I be concerned?",
			Response: "Thank you for reaching out! A score of 65 is still in the 'good' range, but I understand " +
				"your concern about the drop. Let's schedule a call to discuss your symptoms and review your " +
				"medication routine. The humid weather lately can affect readings.",
		},
		{
			Kind:    "Call",
			Urgency: "medium",
			At:      at,
			Tag:     "Symptoms",
			Message: "Requesting a call to discuss my breathing exercises and medication timing. I've been " +
				"having some morning shortness of breath.",
			Response: "I'll call you this afternoon at 2 PM. In the meantime, try taking your bronchodilator " +
				"30 minutes before your morning activities. Keep track of when the symptoms occur so we can " +
				"discuss patterns.",
		},
		{
			Kind:    "Email",
			Urgency: "low",
			At:      at,
			Tag:     "General Question",
			Message: "I want to share that I had an excellent day with a score of 85! I've been following the " +
				"new breathing routine you taught me.",
		},
	}
}

// EmergencySymptoms are the "Call 911 if you have" bullets.
var EmergencySymptoms = []string{
	"Severe trouble breathing",
	"Chest pain or pressure",
	"Confusion or dizziness",
	"Blue lips or fingernails",
	"Coughing up blood",
}

// EmergencyNotice heads the emergency panel.
const EmergencyNotice = "If you're experiencing severe breathing difficulties, chest pain, or other " +
	"emergency symptoms, call 911 immediately."

// NurseContactReasons are the "When to Contact Your Nurse" bullets.
var NurseContactReasons = []string{
	"Questions about your test results",
	"Changes in symptoms or breathing",
	"Medication questions or side effects",
	"Concerns about your condition",
	"Need for care plan adjustments",
}

// RecentSession is the summary card on the home screen.
type RecentSession struct {
	When        string
	Length      string
	Score       int
	Improvement string
	Trend       string
}

// LastSession returns the home screen's recent session card.
func LastSession() RecentSession {
	return RecentSession{
		When:        "Today, 2:30 PM",
		Length:      "8 minutes",
		Score:       87,
		Improvement: "+5",
		Trend:       "+8% up",
	}
}

// Disclaimer is the footer shown on most screens.
const Disclaimer = "Medical device for healthcare professionals and patients. Always consult your healthcare provider."

// Result screen copy.
const (
	SuccessHeadline  = "Your breathing analysis is ready"
	SuccessFootnote  = "Results saved to your health profile"
	SuccessFootnote2 = "Share with your healthcare provider if needed"

	FailureHeadline = "We couldn't complete your breathing analysis this time"
	FailureTitle    = "This happens sometimes"
	FailureBody     = "Breathing tests can be affected by many factors. Take a moment to relax and we'll help you try again."
	FailureFootnote = "Don't worry - failed tests are completely normal"
	FailureAdvice   = "Contact your healthcare provider if you continue having difficulty"

	CalmingMessage = "Take deep, slow breaths while we work"
)
