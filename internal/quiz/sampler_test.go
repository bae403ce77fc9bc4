package quiz

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdesk/prepdesk/internal/question"
)

// fakeCatalog is an in-memory Catalog for tests.
type fakeCatalog struct {
	questions []question.Question
}

func (f *fakeCatalog) List(subject string) ([]question.Question, error) {
	if subject == "" {
		return f.questions, nil
	}
	var out []question.Question
	for _, q := range f.questions {
		if q.Subject == subject {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ByID() (map[int]question.Question, error) {
	byID := make(map[int]question.Question, len(f.questions))
	for _, q := range f.questions {
		byID[q.ID] = q
	}
	return byID, nil
}

func (f *fakeCatalog) remove(id int) {
	kept := f.questions[:0]
	for _, q := range f.questions {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	f.questions = kept
}

// makeQuestions generates n questions for a subject with ids following
// the previous entries in the catalog.
func makeQuestions(cat *fakeCatalog, subject string, n int) {
	next := len(cat.questions) + 1
	for i := 0; i < n; i++ {
		id := next + i
		cat.questions = append(cat.questions, question.Question{
			ID:       id,
			Subject:  subject,
			Question: fmt.Sprintf("%s question %d", subject, id),
			Options:  []string{"opt1", "opt2", "opt3", "opt4"},
			Answer:   "opt2",
		})
	}
}

func TestSelectSamplesUpToTarget(t *testing.T) {
	cat := &fakeCatalog{}
	makeQuestions(cat, question.SubjectPhysics, 80)

	sampler := NewSampler(cat)
	selected, err := sampler.Select(question.SubjectPhysics, false)
	require.NoError(t, err)
	require.Len(t, selected, question.Targets[question.SubjectPhysics])

	seen := make(map[int]bool)
	for _, q := range selected {
		assert.Equal(t, question.SubjectPhysics, q.Subject)
		assert.False(t, seen[q.ID], "question %d sampled twice", q.ID)
		seen[q.ID] = true
	}
}

func TestSelectReturnsAllWhenBelowTarget(t *testing.T) {
	cat := &fakeCatalog{}
	makeQuestions(cat, question.SubjectBotany, 3)

	sampler := NewSampler(cat)
	selected, err := sampler.Select(question.SubjectBotany, false)
	require.NoError(t, err)
	require.Len(t, selected, 3)

	// Undersized pools come back in store order.
	for i, q := range selected {
		assert.Equal(t, i+1, q.ID)
	}
}

func TestSelectFullRespectsPerSubjectCaps(t *testing.T) {
	cat := &fakeCatalog{}
	makeQuestions(cat, question.SubjectPhysics, 70) // capped at 50
	makeQuestions(cat, question.SubjectBotany, 10)  // below its 40 target
	makeQuestions(cat, question.SubjectMAT, 25)     // capped at 20

	sampler := NewSampler(cat)
	selected, err := sampler.Select(FullTestLabel, true)
	require.NoError(t, err)
	require.Len(t, selected, 50+10+20)

	counts := make(map[string]int)
	seen := make(map[int]bool)
	for _, q := range selected {
		counts[q.Subject]++
		assert.False(t, seen[q.ID])
		seen[q.ID] = true
	}
	assert.Equal(t, 50, counts[question.SubjectPhysics])
	assert.Equal(t, 10, counts[question.SubjectBotany])
	assert.Equal(t, 20, counts[question.SubjectMAT])
}

func TestSelectFullShufflesAcrossSubjects(t *testing.T) {
	cat := &fakeCatalog{}
	makeQuestions(cat, question.SubjectPhysics, 50)
	makeQuestions(cat, question.SubjectBotany, 30)

	sampler := NewSampler(cat)
	selected, err := sampler.Select(FullTestLabel, true)
	require.NoError(t, err)
	require.Len(t, selected, 80)

	// A grouped order would put all physics first. The odds of the
	// shuffle reproducing that are negligible.
	botanyInFirstHalf := 0
	for _, q := range selected[:40] {
		if q.Subject == question.SubjectBotany {
			botanyInFirstHalf++
		}
	}
	assert.Greater(t, botanyInFirstHalf, 0, "combined order is grouped by subject")
}

func TestSelectEmptySubject(t *testing.T) {
	sampler := NewSampler(&fakeCatalog{})
	selected, err := sampler.Select(question.SubjectZoology, false)
	require.NoError(t, err)
	assert.Empty(t, selected)
}

func TestResolveSubject(t *testing.T) {
	for _, key := range []string{"full", "Full Test", "full-test", "ALL"} {
		label, full, err := ResolveSubject(key)
		require.NoError(t, err, key)
		assert.True(t, full, key)
		assert.Equal(t, FullTestLabel, label, key)
	}

	label, full, err := ResolveSubject("physics")
	require.NoError(t, err)
	assert.False(t, full)
	assert.Equal(t, question.SubjectPhysics, label)

	_, _, err = ResolveSubject("History")
	assert.ErrorIs(t, err, ErrUnknownSubject)
}
