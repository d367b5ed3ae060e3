package bot

import "sync"

// PendingInputs remembers which users were asked to type something.
// The next message of such a user answers the prompt instead of being
// treated as a submission.
type PendingInputs struct {
	mu      sync.Mutex
	waiting map[int64]string
}

func NewPendingInputs() *PendingInputs {
	return &PendingInputs{waiting: make(map[int64]string)}
}

// Expect records that userID owes an answer of the given kind.
func (p *PendingInputs) Expect(userID int64, kind string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waiting[userID] = kind
}

// Take returns and forgets the pending kind.
func (p *PendingInputs) Take(userID int64) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	kind, ok := p.waiting[userID]
	delete(p.waiting, userID)
	return kind, ok
}

// Cancel drops a pending prompt, if any.
func (p *PendingInputs) Cancel(userID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.waiting, userID)
}
