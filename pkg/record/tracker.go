package record

import "strings"

// Tracker is the single duplicate store shared by every processor. It
// keys people by lowercased "rank|name" and remembers the date of each
// action taken on them, so a person can legitimately appear twice in
// one order (removed at the origin, enrolled at the destination) but
// never twice with the same action on the same date.
type Tracker struct {
	seen map[string]map[Action]string
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]map[Action]string)}
}

func personKey(rank, name string) string {
	return strings.ToLower(strings.TrimSpace(rank) + "|" + strings.TrimSpace(name))
}

// Seen reports whether recording (rank, name, action, date) would be a
// duplicate. With AnyAction it is a plain membership test: true when the
// person was recorded at all. With a concrete action it is true only
// when the same action was already recorded for the same date.
func (t *Tracker) Seen(rank, name string, action Action, date string) bool {
	actions, ok := t.seen[personKey(rank, name)]
	if !ok {
		return false
	}
	if action == AnyAction {
		return len(actions) > 0
	}
	prev, ok := actions[action]
	return ok && prev == date
}

// Add records the person and action. With AnyAction only membership is
// recorded.
func (t *Tracker) Add(rank, name string, action Action, date string) {
	key := personKey(rank, name)
	if t.seen[key] == nil {
		t.seen[key] = make(map[Action]string)
	}
	t.seen[key][action] = date
}

// Len returns the number of tracked people.
func (t *Tracker) Len() int {
	return len(t.seen)
}
