package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscriber(t *testing.T) {
	notifier := NewNotifier()
	accountID := uuid.New()

	events, cancel := notifier.Subscribe(accountID)
	defer cancel()

	notifier.Publish(Event{Type: EventSignedOut, SessionID: "s1", AccountID: accountID})

	select {
	case ev := <-events:
		assert.Equal(t, EventSignedOut, ev.Type)
		assert.Equal(t, "s1", ev.SessionID)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestPublishSkipsOtherAccounts(t *testing.T) {
	notifier := NewNotifier()

	events, cancel := notifier.Subscribe(uuid.New())
	defer cancel()

	notifier.Publish(Event{Type: EventSignedOut, AccountID: uuid.New()})

	select {
	case ev := <-events:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelClosesChannelAndIsIdempotent(t *testing.T) {
	notifier := NewNotifier()
	accountID := uuid.New()

	events, cancel := notifier.Subscribe(accountID)
	cancel()
	cancel()

	_, open := <-events
	require.False(t, open)

	// Publishing after cancel must not panic on the closed channel.
	notifier.Publish(Event{Type: EventSignedOut, AccountID: accountID})
}

func TestAllSubscribersOfAccountReceive(t *testing.T) {
	notifier := NewNotifier()
	accountID := uuid.New()

	first, cancelFirst := notifier.Subscribe(accountID)
	defer cancelFirst()
	second, cancelSecond := notifier.Subscribe(accountID)
	defer cancelSecond()

	notifier.Publish(Event{Type: EventSignedOut, AccountID: accountID})

	for _, events := range []<-chan Event{first, second} {
		select {
		case ev := <-events:
			assert.Equal(t, EventSignedOut, ev.Type)
		case <-time.After(time.Second):
			t.Fatal("event was not delivered to every subscriber")
		}
	}
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	notifier := NewNotifier()
	accountID := uuid.New()

	_, cancel := notifier.Subscribe(accountID)
	defer cancel()

	done := make(chan struct{})
	go func() {
		// More events than the channel buffers; extras are dropped.
		for i := 0; i < 32; i++ {
			notifier.Publish(Event{Type: EventSignedOut, AccountID: accountID})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a stalled subscriber")
	}
}
