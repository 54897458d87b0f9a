package events

import "testing"

func TestBusFanOut(t *testing.T) {
	b := NewBus()
	_, ch1 := b.Subscribe(4)
	_, ch2 := b.Subscribe(4)

	b.Publish(ConnectionStateChanged{From: StateDisconnected, To: StateOpening})

	for _, ch := range []<-chan any{ch1, ch2} {
		select {
		case ev := <-ch:
			sc, ok := ev.(ConnectionStateChanged)
			if !ok || sc.To != StateOpening {
				t.Errorf("unexpected event: %+v", ev)
			}
		default:
			t.Error("expected buffered event, channel empty")
		}
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	b := NewBus()
	id, ch := b.Subscribe(1)
	b.Unsubscribe(id)

	if _, ok := <-ch; ok {
		t.Error("expected closed channel after unsubscribe")
	}
}

func TestBusDropsOnFullBuffer(t *testing.T) {
	b := NewBus()
	_, ch := b.Subscribe(1)

	b.Publish(1)
	b.Publish(2) // dropped, buffer full

	if v := <-ch; v != 1 {
		t.Errorf("got %v, want 1", v)
	}
	select {
	case v := <-ch:
		t.Errorf("expected no second event, got %v", v)
	default:
	}
}
