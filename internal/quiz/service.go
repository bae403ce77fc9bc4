package quiz

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prepdesk/prepdesk/internal/score"
)

// Recorder receives completed attempts. *score.Ledger satisfies it.
type Recorder interface {
	Append(rec score.Record) error
}

// Service ties the sampler, session registry, scorer and score ledger
// together behind the operations the HTTP layer exposes.
type Service struct {
	sampler  *Sampler
	catalog  Catalog
	registry *Registry
	ledger   Recorder
	logger   zerolog.Logger
}

// NewService wires the quiz core.
func NewService(catalog Catalog, registry *Registry, ledger Recorder, logger zerolog.Logger) *Service {
	return &Service{
		sampler:  NewSampler(catalog),
		catalog:  catalog,
		registry: registry,
		ledger:   ledger,
		logger:   logger.With().Str("component", "quiz").Logger(),
	}
}

// Start samples a quiz for the subject key and registers a session for
// owner. An empty selection yields a zero-question view and no session:
// "no content available" is not a failure. Unknown subject keys return
// ErrUnknownSubject.
func (s *Service) Start(subjectKey, owner string) (SessionView, error) {
	label, full, err := ResolveSubject(subjectKey)
	if err != nil {
		return SessionView{}, err
	}

	selected, err := s.sampler.Select(label, full)
	if err != nil {
		return SessionView{}, err
	}
	if len(selected) == 0 {
		return SessionView{Subject: label}, nil
	}

	ids := make([]int, len(selected))
	for i, q := range selected {
		ids[i] = q.ID
	}

	sess := &Session{
		ID:          uuid.NewString(),
		Owner:       owner,
		Subject:     label,
		QuestionIDs: ids,
		CreatedAt:   time.Now(),
		Duration:    time.Duration(len(ids)*SecondsPerQuestion) * time.Second,
	}
	s.registry.Put(sess)
	quizzesStarted.WithLabelValues(label).Inc()

	s.logger.Info().
		Str("session_id", sess.ID).
		Str("subject", label).
		Str("owner", owner).
		Int("questions", len(ids)).
		Msg("session started")

	return SessionView{
		SessionID:       sess.ID,
		Subject:         label,
		TotalQuestions:  len(ids),
		DurationSeconds: int(sess.Duration / time.Second),
	}, nil
}

// Questions returns the answer-free views for a live session, in the
// session's stored order. Question ids deleted from the catalog since
// the quiz started are silently dropped.
func (s *Service) Questions(sessionID string) ([]QuestionView, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	byID, err := s.catalog.ByID()
	if err != nil {
		return nil, err
	}
	views := make([]QuestionView, 0, len(sess.QuestionIDs))
	for _, id := range sess.QuestionIDs {
		q, ok := byID[id]
		if !ok {
			continue
		}
		views = append(views, QuestionView{
			ID:       q.ID,
			Subject:  q.Subject,
			Question: q.Question,
			Options:  q.Options,
		})
	}
	return views, nil
}

// Submit consumes the session, scores the submitted answers against the
// catalog and appends the attempt to the ledger. Scoring and leaderboard
// update are one operation from the caller's point of view. A session
// can be submitted exactly once.
func (s *Service) Submit(sessionID string, answers map[int]string) (Result, error) {
	sess, err := s.registry.Consume(sessionID)
	if err != nil {
		return Result{}, err
	}

	byID, err := s.catalog.ByID()
	if err != nil {
		return Result{}, err
	}

	details := make([]AnswerDetail, 0, len(sess.QuestionIDs))
	correct := 0
	total := 0
	for _, id := range sess.QuestionIDs {
		q, ok := byID[id]
		if !ok {
			// Deleted after quiz start; does not count toward total.
			continue
		}
		total++
		userAnswer := answers[id]
		isCorrect := userAnswer == q.Answer
		if isCorrect {
			correct++
		}
		details = append(details, AnswerDetail{
			ID:            q.ID,
			Subject:       q.Subject,
			Question:      q.Question,
			Options:       q.Options,
			UserAnswer:    userAnswer,
			CorrectAnswer: q.Answer,
			Explanation:   q.Explanation,
			IsCorrect:     isCorrect,
		})
	}

	percentage := 0.0
	if total > 0 {
		percentage = round2(float64(correct) / float64(total) * 100)
	}

	result := Result{
		Username:   sess.Owner,
		Subject:    sess.Subject,
		Score:      correct,
		Total:      total,
		Percentage: percentage,
		Remark:     Remark(percentage),
		Details:    details,
	}

	if err := s.ledger.Append(score.Record{
		Username:   sess.Owner,
		Subject:    sess.Subject,
		Score:      correct,
		Total:      total,
		Percentage: percentage,
		Date:       time.Now().Format(score.DateLayout),
	}); err != nil {
		return Result{}, err
	}
	quizzesSubmitted.WithLabelValues(sess.Subject).Inc()

	s.logger.Info().
		Str("session_id", sessionID).
		Str("owner", sess.Owner).
		Int("score", correct).
		Int("total", total).
		Float64("percentage", percentage).
		Msg("session scored")

	return result, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
