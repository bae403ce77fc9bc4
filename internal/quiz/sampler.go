package quiz

import (
	"math/rand/v2"

	"github.com/prepdesk/prepdesk/internal/question"
)

// Catalog is the read-only question access the quiz core consumes.
// *question.Store satisfies it.
type Catalog interface {
	List(subject string) ([]question.Question, error)
	ByID() (map[int]question.Question, error)
}

// Sampler draws bounded random question sets from the catalog.
type Sampler struct {
	catalog Catalog
}

// NewSampler returns a sampler over the given catalog.
func NewSampler(catalog Catalog) *Sampler {
	return &Sampler{catalog: catalog}
}

// Select picks the questions for one session. For a single subject the
// result is min(target, available) questions sampled without
// replacement; when fewer exist than the target they are returned in
// store order. The composite quiz samples each subject against its own
// target and shuffles the combined sequence, so every subject keeps its
// proportional share while the presentation order is randomized.
func (s *Sampler) Select(label string, full bool) ([]question.Question, error) {
	if !full {
		available, err := s.catalog.List(label)
		if err != nil {
			return nil, err
		}
		return sampleSubject(available, question.Targets[label]), nil
	}

	all, err := s.catalog.List("")
	if err != nil {
		return nil, err
	}
	bySubject := make(map[string][]question.Question)
	for _, q := range all {
		bySubject[q.Subject] = append(bySubject[q.Subject], q)
	}

	var combined []question.Question
	for _, subj := range question.Subjects {
		combined = append(combined, sampleSubject(bySubject[subj], question.Targets[subj])...)
	}
	rand.Shuffle(len(combined), func(i, j int) {
		combined[i], combined[j] = combined[j], combined[i]
	})
	return combined, nil
}

// sampleSubject draws target questions without replacement, or returns
// the whole pool in its original order when it is not larger than the
// target.
func sampleSubject(pool []question.Question, target int) []question.Question {
	if target <= 0 || len(pool) <= target {
		return pool
	}
	picked := make([]question.Question, 0, target)
	for _, idx := range rand.Perm(len(pool))[:target] {
		picked = append(picked, pool[idx])
	}
	return picked
}
