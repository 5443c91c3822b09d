package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSubscribePublishDelivers(t *testing.T) {
	h := NewHub()
	id := uuid.New()
	ch := h.Subscribe(id)
	defer h.Unsubscribe(id, ch)

	h.Publish(id, Event{SolveID: id.String(), VehicleRank: 3, VehiclesDone: 1, VehiclesTotal: 5, UnassignedCount: 2})

	select {
	case evt := <-ch:
		if evt.VehicleRank != 3 || evt.VehiclesTotal != 5 {
			t.Fatalf("unexpected event: %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for published event")
	}
}

func TestPublishToUnknownSolveIsNoop(t *testing.T) {
	h := NewHub()
	// No subscribers registered; must not panic or block.
	h.Publish(uuid.New(), Event{})
}

func TestPublishDropsWhenSubscriberFull(t *testing.T) {
	h := NewHub()
	id := uuid.New()
	ch := h.Subscribe(id)
	defer h.Unsubscribe(id, ch)

	// Fill the channel's buffer (16) past capacity; extra publishes must
	// not block since Publish uses a non-blocking send.
	for i := 0; i < 32; i++ {
		h.Publish(id, Event{VehicleRank: i})
	}
}

func TestReporterBridgesToPublish(t *testing.T) {
	h := NewHub()
	id := uuid.New()
	ch := h.Subscribe(id)
	defer h.Unsubscribe(id, ch)

	reporter := h.Reporter(id)
	reporter(2, 3, 4, 1)

	select {
	case evt := <-ch:
		if evt.VehicleRank != 2 || evt.VehiclesDone != 3 || evt.VehiclesTotal != 4 || evt.UnassignedCount != 1 {
			t.Fatalf("unexpected event from reporter: %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reporter event")
	}
}

func TestUnsubscribeRemovesSubscriber(t *testing.T) {
	h := NewHub()
	id := uuid.New()
	ch := h.Subscribe(id)
	h.Unsubscribe(id, ch)

	// Channel must be closed after Unsubscribe.
	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after Unsubscribe")
	}
}
