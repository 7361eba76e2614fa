package hub

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rolebrief/backend/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func event(sessionID, eventType string) models.ChangeEvent {
	return models.NewChangeEvent(sessionID, eventType, nil, models.StatusSummary{})
}

func TestPublishReachesSessionSubscribersOnly(t *testing.T) {
	h := New(4)
	defer h.Close()

	a := h.Subscribe("session-a")
	b := h.Subscribe("session-b")

	h.Publish(event("session-a", models.EventCompany))

	select {
	case ev := <-a.C:
		assert.Equal(t, models.EventCompany, ev.Type)
		assert.Equal(t, "session-a", ev.SessionID)
	case <-time.After(time.Second):
		t.Fatal("subscriber on session-a did not receive the event")
	}

	select {
	case ev := <-b.C:
		t.Fatalf("subscriber on session-b received foreign event %s", ev.Type)
	default:
	}
}

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	h := New(4)
	defer h.Close()

	first := h.Subscribe("s1")
	second := h.Subscribe("s1")
	require.Equal(t, 2, h.SubscriberCount("s1"))

	h.Publish(event("s1", models.EventTraitCreated))

	for _, sub := range []*Subscription{first, second} {
		select {
		case ev := <-sub.C:
			assert.Equal(t, models.EventTraitCreated, ev.Type)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed the broadcast")
		}
	}
}

func TestSlowSubscriberIsDroppedOthersSurvive(t *testing.T) {
	h := New(1)
	defer h.Close()

	slow := h.Subscribe("s1")
	healthy := h.Subscribe("s1")

	// First publish fills the slow subscriber's buffer.
	h.Publish(event("s1", models.EventCompany))
	<-healthy.C

	// Second publish finds the buffer full and drops the slow subscriber.
	h.Publish(event("s1", models.EventRequirements))

	assert.Equal(t, 1, h.SubscriberCount("s1"))

	select {
	case ev := <-healthy.C:
		assert.Equal(t, models.EventRequirements, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("healthy subscriber lost an event when a peer was dropped")
	}

	// The dropped channel still drains its buffered event, then closes.
	<-slow.C
	_, open := <-slow.C
	assert.False(t, open, "dropped subscriber channel must be closed")
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := New(4)
	defer h.Close()

	sub := h.Subscribe("s1")
	h.Unsubscribe("s1", sub.ID)

	_, open := <-sub.C
	assert.False(t, open)
	assert.Equal(t, 0, h.SubscriberCount("s1"))

	// Unknown IDs are ignored.
	h.Unsubscribe("s1", "missing")
	h.Unsubscribe("missing", sub.ID)
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	h := New(4)
	defer h.Close()

	h.Publish(event("nobody-home", models.EventCompany))
}

func TestLateSubscriberMissesEarlierEvents(t *testing.T) {
	h := New(4)
	defer h.Close()

	h.Publish(event("s1", models.EventCompany))

	late := h.Subscribe("s1")
	select {
	case ev := <-late.C:
		t.Fatalf("late subscriber received replayed event %s", ev.Type)
	default:
	}
}

func TestConcurrentSubscribeAndPublish(t *testing.T) {
	h := New(64)
	defer h.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := h.Subscribe("s1")
			h.Unsubscribe("s1", sub.ID)
		}()
		go func() {
			defer wg.Done()
			h.Publish(event("s1", models.EventCompany))
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, h.SubscriberCount("s1"))
}

func TestCloseDropsEverySubscriber(t *testing.T) {
	h := New(4)

	a := h.Subscribe("s1")
	b := h.Subscribe("s2")
	h.Close()

	_, openA := <-a.C
	_, openB := <-b.C
	assert.False(t, openA)
	assert.False(t, openB)

	// Closed hub rejects publishes and hands out closed channels.
	h.Publish(event("s1", models.EventCompany))
	late := h.Subscribe("s1")
	_, open := <-late.C
	assert.False(t, open)
}
