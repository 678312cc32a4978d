package session

import (
	"sync"

	"github.com/google/uuid"
)

// EventSignedOut tells subscribed clients their session is gone and they
// must return to the login route.
const EventSignedOut = "signed_out"

// Event is pushed to subscribers when the session state of an account
// changes.
type Event struct {
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	AccountID uuid.UUID `json:"account_id"`
}

// Notifier is an in-process publish/subscribe channel for session change
// events. Subscriptions are explicit capabilities with a cancel func so a
// torn-down consumer never receives (and never leaks) a stale delivery.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[uuid.UUID]map[int]chan Event
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[uuid.UUID]map[int]chan Event)}
}

// Subscribe registers for events concerning accountID. The returned cancel
// func detaches the subscription and closes the channel; it is safe to call
// more than once.
func (n *Notifier) Subscribe(accountID uuid.UUID) (<-chan Event, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID

	ch := make(chan Event, 4)
	if n.subs[accountID] == nil {
		n.subs[accountID] = make(map[int]chan Event)
	}
	n.subs[accountID][id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()

		if subs, ok := n.subs[accountID]; ok {
			if c, ok := subs[id]; ok {
				delete(subs, id)
				close(c)
			}
			if len(subs) == 0 {
				delete(n.subs, accountID)
			}
		}
	}

	return ch, cancel
}

// Publish delivers the event to every live subscriber of the account.
// Delivery is non-blocking: a subscriber that stopped draining its channel
// loses events rather than stalling logout.
func (n *Notifier) Publish(event Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs[event.AccountID] {
		select {
		case ch <- event:
		default:
		}
	}
}
