package question

import (
	"errors"
	"fmt"
	"strings"
)

// The five fixed subjects, in display order.
const (
	SubjectPhysics   = "Physics"
	SubjectChemistry = "Chemistry"
	SubjectBotany    = "Botany"
	SubjectZoology   = "Zoology"
	SubjectMAT       = "Mental Agility Test"
)

// Subjects lists every valid subject in display order.
var Subjects = []string{
	SubjectPhysics,
	SubjectChemistry,
	SubjectBotany,
	SubjectZoology,
	SubjectMAT,
}

// Targets caps how many questions a single session draws per subject.
var Targets = map[string]int{
	SubjectPhysics:   50,
	SubjectChemistry: 50,
	SubjectBotany:    40,
	SubjectZoology:   40,
	SubjectMAT:       20,
}

// OptionCount is the fixed number of options per question.
const OptionCount = 4

// Difficulty labels are free text; Medium is the default for imports.
const DifficultyMedium = "Medium"

var ErrNotFound = errors.New("question not found")

// ValidationError reports a malformed question field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Question is a catalog entry. Answer and Explanation are server-side
// only until a quiz is scored.
type Question struct {
	ID          int      `json:"id"`
	Subject     string   `json:"subject"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty"`
	Explanation string   `json:"explanation"`
}

// Validate checks the invariants: known subject, exactly four non-empty
// options, answer present among the options.
func (q Question) Validate() error {
	if !IsSubject(q.Subject) {
		return &ValidationError{Field: "subject", Message: "unknown subject"}
	}
	if strings.TrimSpace(q.Question) == "" {
		return &ValidationError{Field: "question", Message: "question text is required"}
	}
	if len(q.Options) != OptionCount {
		return &ValidationError{Field: "options", Message: fmt.Sprintf("exactly %d options are required", OptionCount)}
	}
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return &ValidationError{Field: "options", Message: "options must be non-empty"}
		}
	}
	if q.Answer == "" {
		return &ValidationError{Field: "answer", Message: "answer is required"}
	}
	found := false
	for _, opt := range q.Options {
		if opt == q.Answer {
			found = true
			break
		}
	}
	if !found {
		return &ValidationError{Field: "answer", Message: "answer must be one of the options"}
	}
	return nil
}

// IsSubject reports whether s names one of the fixed subjects.
func IsSubject(s string) bool {
	for _, known := range Subjects {
		if s == known {
			return true
		}
	}
	return false
}

// CanonicalSubject maps a case-insensitive subject name to its display
// form, or "" when unknown.
func CanonicalSubject(s string) string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	for _, known := range Subjects {
		if strings.ToLower(known) == lowered {
			return known
		}
	}
	return ""
}

// NormalizeText collapses runs of whitespace, for duplicate detection.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
