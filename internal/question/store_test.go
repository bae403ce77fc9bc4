package question

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdesk/prepdesk/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	files, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return NewStore(files)
}

func sampleQuestion(subject, text string) Question {
	return Question{
		Subject:     subject,
		Question:    text,
		Options:     []string{"A", "B", "C", "D"},
		Answer:      "B",
		Difficulty:  DifficultyMedium,
		Explanation: "because",
	}
}

func TestNextIDEmptyCatalog(t *testing.T) {
	store := newTestStore(t)
	id, err := store.NextID()
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Add(sampleQuestion(SubjectPhysics, "q1"))
	require.NoError(t, err)
	second, err := store.Add(sampleQuestion(SubjectChemistry, "q2"))
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)

	id, err := store.NextID()
	require.NoError(t, err)
	assert.Equal(t, 3, id)
}

func TestAddValidation(t *testing.T) {
	store := newTestStore(t)

	q := sampleQuestion("Astrology", "q")
	_, err := store.Add(q)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "subject", verr.Field)

	q = sampleQuestion(SubjectPhysics, "q")
	q.Options = []string{"A", "B", "C"}
	_, err = store.Add(q)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "options", verr.Field)

	q = sampleQuestion(SubjectPhysics, "q")
	q.Answer = "E"
	_, err = store.Add(q)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "answer", verr.Field)
}

func TestListFiltersBySubject(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Add(sampleQuestion(SubjectPhysics, "p1"))
	require.NoError(t, err)
	_, err = store.Add(sampleQuestion(SubjectBotany, "b1"))
	require.NoError(t, err)
	_, err = store.Add(sampleQuestion(SubjectPhysics, "p2"))
	require.NoError(t, err)

	physics, err := store.List(SubjectPhysics)
	require.NoError(t, err)
	require.Len(t, physics, 2)
	for _, q := range physics {
		assert.Equal(t, SubjectPhysics, q.Subject)
	}

	all, err := store.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestApplyPartialUpdate(t *testing.T) {
	store := newTestStore(t)
	created, err := store.Add(sampleQuestion(SubjectZoology, "original"))
	require.NoError(t, err)

	newText := "updated"
	newAnswer := "C"
	updated, err := store.Apply(created.ID, Update{Question: &newText, Answer: &newAnswer})
	require.NoError(t, err)
	assert.Equal(t, "updated", updated.Question)
	assert.Equal(t, "C", updated.Answer)
	assert.Equal(t, SubjectZoology, updated.Subject)

	// Answer must still belong to the options.
	bad := "nope"
	_, err = store.Apply(created.ID, Update{Answer: &bad})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "answer", verr.Field)

	_, err = store.Apply(999, Update{Question: &newText})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	created, err := store.Add(sampleQuestion(SubjectMAT, "q"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(created.ID))
	assert.ErrorIs(t, store.Delete(created.ID), ErrNotFound)

	_, err = store.GetByID(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentAddsLoseNothing(t *testing.T) {
	store := newTestStore(t)

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Add(sampleQuestion(SubjectPhysics, fmt.Sprintf("q%d", i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := store.List("")
	require.NoError(t, err)
	require.Len(t, all, writers)

	ids := make(map[int]struct{}, writers)
	for _, q := range all {
		ids[q.ID] = struct{}{}
	}
	assert.Len(t, ids, writers)
}

func TestCanonicalSubject(t *testing.T) {
	assert.Equal(t, SubjectPhysics, CanonicalSubject("physics"))
	assert.Equal(t, SubjectMAT, CanonicalSubject("  mental agility test "))
	assert.Equal(t, "", CanonicalSubject("history"))
}
