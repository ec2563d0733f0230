package store

import "sync"

// Pair is one stored exchange: the user's message and the assistant's reply.
type Pair struct {
	UserMessage string `json:"user_message"`
	AiResponse  string `json:"ai_response"`
}

// ContextWindow is the in-memory replay buffer for one chat session: the
// most recent pairs, oldest first, capped at Capacity. It saves a DB round
// trip on every relay for warm sessions. The cache hands the same pointer to
// every caller, so overlapping relays on one session go through the mutex.
type ContextWindow struct {
	SessionID string
	UserID    string
	Capacity  int

	mu    sync.Mutex
	pairs []Pair
}

func NewContextWindow(sessionID, userID string, capacity int) *ContextWindow {
	return &ContextWindow{
		SessionID: sessionID,
		UserID:    userID,
		Capacity:  capacity,
		pairs:     make([]Pair, 0, capacity),
	}
}

// Append adds the newest pair, evicting the oldest when full.
func (w *ContextWindow) Append(p Pair) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pairs = append(w.pairs, p)
	if w.Capacity > 0 && len(w.pairs) > w.Capacity {
		w.pairs = w.pairs[len(w.pairs)-w.Capacity:]
	}
}

// Snapshot returns a copy of the stored pairs, oldest first. Callers iterate
// the copy so a concurrent Append never shifts the slice under them.
func (w *ContextWindow) Snapshot() []Pair {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]Pair, len(w.pairs))
	copy(out, w.pairs)
	return out
}

// Len reports how many pairs the window currently holds.
func (w *ContextWindow) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pairs)
}
