package eventbus

import "testing"

type event struct {
	ID   string
	Year int
}

func TestTypedBus_PublishSubscribe(t *testing.T) {
	bus := NewTyped[event]()
	a := bus.Subscribe()
	b := bus.Subscribe()
	if n := bus.Publish(event{ID: "1", Year: 2030}); n != 2 {
		t.Fatalf("expected 2 deliveries, got %d", n)
	}
	if v := <-a; v.Year != 2030 {
		t.Fatalf("unexpected event %+v", v)
	}
	if v := <-b; v.ID != "1" {
		t.Fatalf("unexpected event %+v", v)
	}
	bus.Unsubscribe(a)
	if bus.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", bus.Subscribers())
	}
	if _, ok := <-a; ok {
		t.Fatalf("expected unsubscribed channel closed")
	}
}

func TestTypedBus_DropsWhenFull(t *testing.T) {
	bus := NewTypedBuffered[event](2)
	ch := bus.Subscribe()
	for i := 0; i < 5; i++ {
		bus.Publish(event{Year: 2000 + i})
	}
	if got := bus.Dropped(); got != 3 {
		t.Fatalf("expected 3 dropped, got %d", got)
	}
	if v := <-ch; v.Year != 2000 {
		t.Fatalf("expected oldest queued event, got %+v", v)
	}
}

func TestTypedBus_CloseDrainsQueued(t *testing.T) {
	bus := NewTyped[event]()
	ch := bus.Subscribe()
	bus.Publish(event{Year: 2030})
	bus.Close()
	bus.Close()
	if v, ok := <-ch; !ok || v.Year != 2030 {
		t.Fatalf("expected queued event after close, got %+v %v", v, ok)
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed")
	}
	if n := bus.Publish(event{}); n != 0 {
		t.Fatalf("publish after close delivered %d", n)
	}
	if _, ok := <-bus.Subscribe(); ok {
		t.Fatalf("expected closed channel from subscribe after close")
	}
}

func TestTypedBus_UnsubscribeAfterClose(t *testing.T) {
	bus := NewTypedBuffered[event](0)
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}
