package score

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdesk/prepdesk/internal/storage"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	files, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return NewLedger(files, nil)
}

func TestAppendKeepsRankingSorted(t *testing.T) {
	ledger := newTestLedger(t)

	percentages := []float64{40, 92.5, 10, 100, 66.67, 85}
	for i, p := range percentages {
		require.NoError(t, ledger.Append(Record{
			Username:   fmt.Sprintf("user%d", i),
			Subject:    "Physics",
			Score:      int(p / 2),
			Total:      50,
			Percentage: p,
		}))
	}

	top, err := ledger.Top(10)
	require.NoError(t, err)
	require.Len(t, top, 6)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Percentage, top[i].Percentage)
	}
	assert.Equal(t, 100.0, top[0].Percentage)
	assert.Equal(t, 10.0, top[5].Percentage)
}

func TestAppendBreaksTiesByScore(t *testing.T) {
	ledger := newTestLedger(t)

	// Same percentage, different absolute scores.
	require.NoError(t, ledger.Append(Record{Username: "small", Score: 5, Total: 10, Percentage: 50}))
	require.NoError(t, ledger.Append(Record{Username: "big", Score: 50, Total: 100, Percentage: 50}))

	top, err := ledger.Top(2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "big", top[0].Username)
	assert.Equal(t, "small", top[1].Username)
}

func TestAppendStableOnFullTies(t *testing.T) {
	ledger := newTestLedger(t)

	// Identical sort keys keep insertion order.
	require.NoError(t, ledger.Append(Record{Username: "first", Score: 5, Total: 10, Percentage: 50}))
	require.NoError(t, ledger.Append(Record{Username: "second", Score: 5, Total: 10, Percentage: 50}))

	top, err := ledger.Top(2)
	require.NoError(t, err)
	assert.Equal(t, "first", top[0].Username)
	assert.Equal(t, "second", top[1].Username)
}

func TestTopLimits(t *testing.T) {
	ledger := newTestLedger(t)
	for i := 0; i < 15; i++ {
		require.NoError(t, ledger.Append(Record{
			Username:   fmt.Sprintf("user%d", i),
			Score:      i,
			Total:      15,
			Percentage: float64(i) * 100 / 15,
		}))
	}

	top, err := ledger.Top(10)
	require.NoError(t, err)
	assert.Len(t, top, 10)
	assert.Equal(t, "user14", top[0].Username)

	all, err := ledger.Top(100)
	require.NoError(t, err)
	assert.Len(t, all, 15)

	none, err := ledger.Top(0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

type captureFeed struct {
	last []Record
}

func (c *captureFeed) BroadcastTop(top []Record) { c.last = top }

func TestAppendNotifiesFeed(t *testing.T) {
	files, err := storage.New(t.TempDir())
	require.NoError(t, err)
	feed := &captureFeed{}
	ledger := NewLedger(files, feed)

	require.NoError(t, ledger.Append(Record{Username: "alice", Score: 1, Total: 1, Percentage: 100}))
	require.Len(t, feed.last, 1)
	assert.Equal(t, "alice", feed.last[0].Username)

	for i := 0; i < 12; i++ {
		require.NoError(t, ledger.Append(Record{Username: "bob", Score: 1, Total: 2, Percentage: 50}))
	}
	// The broadcast never exceeds the top ten.
	assert.Len(t, feed.last, 10)
}
