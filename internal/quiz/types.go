package quiz

import (
	"errors"
	"strings"
	"time"

	"github.com/prepdesk/prepdesk/internal/question"
)

var (
	ErrUnknownSubject  = errors.New("unknown subject")
	ErrSessionNotFound = errors.New("session not found")
)

// SecondsPerQuestion sets the advisory quiz duration.
const SecondsPerQuestion = 60

// FullTestLabel is the display name of the composite quiz.
const FullTestLabel = "Full Test"

// Session is the ephemeral record of a started, not-yet-scored attempt.
// It lives only in the registry; QuestionIDs fix the presentation order.
type Session struct {
	ID          string
	Owner       string
	Subject     string
	QuestionIDs []int
	CreatedAt   time.Time
	Duration    time.Duration
	ExpiresAt   time.Time
}

// SessionView is the public, answer-free result of starting a quiz.
type SessionView struct {
	SessionID       string `json:"session_id"`
	Subject         string `json:"subject"`
	TotalQuestions  int    `json:"total_questions"`
	DurationSeconds int    `json:"duration_seconds"`
}

// QuestionView is a question as shown during a quiz. It deliberately
// has no answer or explanation field.
type QuestionView struct {
	ID       int      `json:"id"`
	Subject  string   `json:"subject"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// AnswerDetail reveals the outcome for one question after scoring.
type AnswerDetail struct {
	ID            int      `json:"id"`
	Subject       string   `json:"subject"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	UserAnswer    string   `json:"user_answer"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	IsCorrect     bool     `json:"is_correct"`
}

// Result is the scored outcome of a consumed session.
type Result struct {
	Username   string         `json:"username"`
	Subject    string         `json:"subject"`
	Score      int            `json:"score"`
	Total      int            `json:"total"`
	Percentage float64        `json:"percentage"`
	Remark     string         `json:"remark"`
	Details    []AnswerDetail `json:"details"`
}

// Remark bands, inclusive at the lower bound.
const (
	RemarkExcellent = "Excellent"
	RemarkGood      = "Good"
	RemarkTryAgain  = "Try Again"
)

// Remark maps a percentage to its qualitative band.
func Remark(percentage float64) string {
	switch {
	case percentage >= 85:
		return RemarkExcellent
	case percentage >= 60:
		return RemarkGood
	default:
		return RemarkTryAgain
	}
}

// ResolveSubject maps a request key to (display label, composite flag).
// "full", "all", "full test" and "full-test" select the composite quiz;
// subject names match case-insensitively. Unknown keys return
// ErrUnknownSubject.
func ResolveSubject(key string) (label string, full bool, err error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "full", "all", "full test", "full-test":
		return FullTestLabel, true, nil
	}
	if subj := question.CanonicalSubject(key); subj != "" {
		return subj, false, nil
	}
	return "", false, ErrUnknownSubject
}
