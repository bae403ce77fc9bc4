package score

import (
	"sort"
	"sync"

	"github.com/prepdesk/prepdesk/internal/storage"
)

const fileName = "scores.json"

// Record is one completed attempt in the persistent ledger.
type Record struct {
	Username   string  `json:"username"`
	Subject    string  `json:"subject"`
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Date       string  `json:"date"`
}

// DateLayout formats Record.Date.
const DateLayout = "2006-01-02 15:04:05"

// Broadcaster pushes the freshly ranked top entries to live listeners.
type Broadcaster interface {
	BroadcastTop(top []Record)
}

// Ledger keeps the rank-ordered attempt history. Every append re-sorts
// the whole collection by (percentage desc, score desc) and persists it
// atomically, so reads never sort.
type Ledger struct {
	files *storage.Store
	feed  Broadcaster

	mu sync.Mutex // serializes read-modify-write cycles
}

// NewLedger returns a ledger over scores.json. feed may be nil.
func NewLedger(files *storage.Store, feed Broadcaster) *Ledger {
	return &Ledger{files: files, feed: feed}
}

// Append adds rec, re-sorts the full collection and persists it. The
// sort is stable, so records tied on both keys keep their relative
// order. Live listeners receive the new top ten.
func (l *Ledger) Append(rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var all []Record
	if err := l.files.Load(fileName, &all); err != nil {
		return err
	}
	all = append(all, rec)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Percentage != all[j].Percentage {
			return all[i].Percentage > all[j].Percentage
		}
		return all[i].Score > all[j].Score
	})
	if err := l.files.Save(fileName, all); err != nil {
		return err
	}

	if l.feed != nil {
		n := 10
		if len(all) < n {
			n = len(all)
		}
		top := make([]Record, n)
		copy(top, all[:n])
		l.feed.BroadcastTop(top)
	}
	return nil
}

// Top returns the first n records of the persisted order.
func (l *Ledger) Top(n int) ([]Record, error) {
	var all []Record
	if err := l.files.Load(fileName, &all); err != nil {
		return nil, err
	}
	if n > len(all) {
		n = len(all)
	}
	if n < 0 {
		n = 0
	}
	return all[:n], nil
}
