// Package triage contains the pure text-analysis core: the keyword
// classifier that grades a message into a triage category, and the
// department resolver that maps symptom phrases onto hospital departments.
package triage

import "strings"

// Category is the triage grade of an inbound message.
type Category int

const (
	// CategoryNone means no triage keyword matched.
	CategoryNone Category = iota
	// CategoryGP marks symptoms suitable for a routine GP appointment.
	CategoryGP
	// CategoryUrgent marks symptoms needing same-day urgent care.
	CategoryUrgent
	// CategoryEmergency marks symptoms requiring an immediate emergency
	// response. Emergency pre-empts every other rule.
	CategoryEmergency
)

func (c Category) String() string {
	switch c {
	case CategoryEmergency:
		return "emergency"
	case CategoryUrgent:
		return "urgent"
	case CategoryGP:
		return "gp"
	default:
		return "none"
	}
}

// emergencyKeywords are checked before everything else.
var emergencyKeywords = []string{
	"can't breathe", "cant breathe", "cannot breathe", "difficulty breathing",
	"chest pain", "heart attack", "stroke", "unconscious",
	"severe bleeding", "seizure", "choking",
}

var urgentKeywords = []string{
	"severe pain", "high fever", "persistent vomiting", "deep cut",
	"broken bone", "severe headache", "severe burn",
	"blood in stool", "blood in urine",
}

var gpKeywords = []string{
	"fever", "headache", "cough", "stomach pain", "sore throat",
	"ear pain", "back pain", "joint pain", "fatigue", "dizziness",
	"nausea", "rash",
}

// Classify grades a message by case-insensitive substring match,
// highest-priority category first.
func Classify(message string) Category {
	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, emergencyKeywords):
		return CategoryEmergency
	case containsAny(lower, urgentKeywords):
		return CategoryUrgent
	case containsAny(lower, gpKeywords):
		return CategoryGP
	default:
		return CategoryNone
	}
}

// IsEmergency reports whether the message contains an emergency keyword.
func IsEmergency(message string) bool {
	return containsAny(strings.ToLower(message), emergencyKeywords)
}

// IsUrgent reports whether the message contains an urgent-care keyword.
// Used by the symptom assessments to pick the severity recommendation.
func IsUrgent(message string) bool {
	return containsAny(strings.ToLower(message), urgentKeywords)
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
