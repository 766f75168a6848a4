package triage

import (
	"math/rand"
	"strings"
)

// DefaultDepartment is assigned when no symptom rule matches.
const DefaultDepartment = "General Medicine"

// Departments in menu order.
var Departments = []string{
	"Cardiology",
	"Neurology",
	"General Medicine",
	"Orthopedics",
	"Pediatrics",
	"Emergency",
}

// doctorRoster holds the two-doctor roster per department.
var doctorRoster = map[string][]string{
	"Cardiology":       {"Dr. Sarah Johnson", "Dr. Robert Williams"},
	"Neurology":        {"Dr. Michael Chen", "Dr. Lisa Anderson"},
	"General Medicine": {"Dr. Emily Rodriguez", "Dr. David Martinez"},
	"Orthopedics":      {"Dr. James Wilson", "Dr. Patricia Brown"},
	"Pediatrics":       {"Dr. Maria Garcia", "Dr. Christopher Lee"},
	"Emergency":        {"Dr. Thomas Anderson", "Dr. Jennifer Taylor"},
}

// fallbackRoster backs departments missing from the roster table.
var fallbackRoster = []string{"Dr. Emily Rodriguez"}

// symptomRule maps a symptom phrase onto a department. Rules are ordered;
// the first match wins.
type symptomRule struct {
	keyword    string
	department string
}

var symptomRules = []symptomRule{
	{"chest pain", "Cardiology"},
	{"heart", "Cardiology"},
	{"palpitations", "Cardiology"},
	{"cardiovascular", "Cardiology"},
	{"headache", "Neurology"},
	{"migraine", "Neurology"},
	{"dizziness", "Neurology"},
	{"seizure", "Neurology"},
	{"stroke", "Neurology"},
	{"brain", "Neurology"},
	{"numbness", "Neurology"},
	{"bone", "Orthopedics"},
	{"joint", "Orthopedics"},
	{"fracture", "Orthopedics"},
	{"sprain", "Orthopedics"},
	{"knee pain", "Orthopedics"},
	{"back pain", "Orthopedics"},
	{"arthritis", "Orthopedics"},
	{"child", "Pediatrics"},
	{"baby", "Pediatrics"},
	{"infant", "Pediatrics"},
	{"pediatric", "Pediatrics"},
	{"severe bleeding", "Emergency"},
	{"unconscious", "Emergency"},
	{"can't breathe", "Emergency"},
	{"difficulty breathing", "Emergency"},
	{"severe allergic reaction", "Emergency"},
	{"choking", "Emergency"},
}

// AutoAssignDepartment maps symptom wording onto a department using the
// ordered rule table. Returns false when no rule matches.
func AutoAssignDepartment(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, rule := range symptomRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.department, true
		}
	}
	return "", false
}

// ResolveDepartment maps free symptom text onto a department using the
// ordered rule table. Unmatched text resolves to General Medicine.
func ResolveDepartment(message string) string {
	if department, ok := AutoAssignDepartment(message); ok {
		return department
	}
	return DefaultDepartment
}

// MatchDepartmentName recognizes a department by name in user text, ordered
// as the department menu presents them. Returns false when nothing matches.
func MatchDepartmentName(text string) (string, bool) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "cardiology"):
		return "Cardiology", true
	case strings.Contains(lower, "neurology"):
		return "Neurology", true
	case strings.Contains(lower, "general medicine"), strings.Contains(lower, "general"):
		return "General Medicine", true
	case strings.Contains(lower, "orthopedic"):
		return "Orthopedics", true
	case strings.Contains(lower, "pediatric"):
		return "Pediatrics", true
	case strings.Contains(lower, "emergency"):
		return "Emergency", true
	default:
		return "", false
	}
}

// DoctorsFor returns the roster for a department.
func DoctorsFor(department string) []string {
	if doctors, ok := doctorRoster[department]; ok {
		return doctors
	}
	return fallbackRoster
}

// PickDoctor assigns a uniformly random doctor from the department roster.
func PickDoctor(department string) string {
	doctors := DoctorsFor(department)
	return doctors[rand.Intn(len(doctors))]
}
