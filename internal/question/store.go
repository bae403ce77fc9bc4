package question

import (
	"sync"

	"github.com/prepdesk/prepdesk/internal/storage"
)

const fileName = "questions.json"

// Store provides catalog access backed by a JSON collection file. The
// quiz core only reads; mutations happen through the admin endpoints.
type Store struct {
	files *storage.Store

	mu sync.Mutex // serializes load-modify-save on mutations
}

// NewStore returns a Store reading and writing questions.json.
func NewStore(files *storage.Store) *Store {
	return &Store{files: files}
}

func (s *Store) load() ([]Question, error) {
	var all []Question
	if err := s.files.Load(fileName, &all); err != nil {
		return nil, err
	}
	return all, nil
}

// List returns all questions, or only those of the given subject when
// subject is non-empty.
func (s *Store) List(subject string) ([]Question, error) {
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	if subject == "" {
		return all, nil
	}
	filtered := make([]Question, 0, len(all))
	for _, q := range all {
		if q.Subject == subject {
			filtered = append(filtered, q)
		}
	}
	return filtered, nil
}

// GetByID returns the question with the given id, or ErrNotFound.
func (s *Store) GetByID(id int) (Question, error) {
	all, err := s.load()
	if err != nil {
		return Question{}, err
	}
	for _, q := range all {
		if q.ID == id {
			return q, nil
		}
	}
	return Question{}, ErrNotFound
}

// ByID returns the whole catalog as an id-keyed map for batch lookups.
func (s *Store) ByID() (map[int]Question, error) {
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	byID := make(map[int]Question, len(all))
	for _, q := range all {
		byID[q.ID] = q
	}
	return byID, nil
}

// NextID returns max existing id + 1, or 1 for an empty catalog.
func (s *Store) NextID() (int, error) {
	all, err := s.load()
	if err != nil {
		return 0, err
	}
	maxID := 0
	for _, q := range all {
		if q.ID > maxID {
			maxID = q.ID
		}
	}
	return maxID + 1, nil
}

// Add validates q, assigns it the next id and persists the catalog.
func (s *Store) Add(q Question) (Question, error) {
	if err := q.Validate(); err != nil {
		return Question{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return Question{}, err
	}
	maxID := 0
	for _, existing := range all {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	q.ID = maxID + 1
	all = append(all, q)
	if err := s.files.Save(fileName, all); err != nil {
		return Question{}, err
	}
	return q, nil
}

// Update applies non-zero fields of patch to the stored question.
// Options and Answer are revalidated against the patched state.
type Update struct {
	Subject     *string
	Question    *string
	Options     []string
	Answer      *string
	Difficulty  *string
	Explanation *string
}

// Apply merges the update into the stored question with the given id.
func (s *Store) Apply(id int, patch Update) (Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return Question{}, err
	}
	for i, q := range all {
		if q.ID != id {
			continue
		}
		if patch.Subject != nil {
			q.Subject = *patch.Subject
		}
		if patch.Question != nil {
			q.Question = *patch.Question
		}
		if patch.Options != nil {
			q.Options = patch.Options
		}
		if patch.Answer != nil {
			q.Answer = *patch.Answer
		}
		if patch.Difficulty != nil {
			q.Difficulty = *patch.Difficulty
		}
		if patch.Explanation != nil {
			q.Explanation = *patch.Explanation
		}
		if err := q.Validate(); err != nil {
			return Question{}, err
		}
		all[i] = q
		if err := s.files.Save(fileName, all); err != nil {
			return Question{}, err
		}
		return q, nil
	}
	return Question{}, ErrNotFound
}

// Delete removes the question with the given id.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	kept := make([]Question, 0, len(all))
	for _, q := range all {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	if len(kept) == len(all) {
		return ErrNotFound
	}
	return s.files.Save(fileName, kept)
}

func (s *Store) replaceAll(all []Question) error {
	return s.files.Save(fileName, all)
}
