package events

import "testing"

type recorder struct {
	got []Event
}

func (r *recorder) HandleEvent(e Event) { r.got = append(r.got, e) }

func TestPublishReachesEverySubscriber(t *testing.T) {
	// GIVEN two subscribers
	em := NewManager()
	a, b := &recorder{}, &recorder{}
	em.Subscribe(a)
	em.Subscribe(b)

	// WHEN an event is published
	em.Publish(GameUpdated{GameID: "g1", Sequence: 3})

	// THEN both receive it in order
	for _, r := range []*recorder{a, b} {
		if len(r.got) != 1 {
			t.Fatalf("expected 1 event, got %d", len(r.got))
		}
		if ev, ok := r.got[0].(GameUpdated); !ok || ev.Sequence != 3 {
			t.Errorf("unexpected event %#v", r.got[0])
		}
	}
}

func TestListenerFunc(t *testing.T) {
	em := NewManager()
	calls := 0
	em.Subscribe(ListenerFunc(func(e Event) {
		if _, ok := e.(NoDisproval); ok {
			calls++
		}
	}))
	em.Publish(NoDisproval{GameID: "g1"})
	em.Publish(TurnEnded{GameID: "g1"})
	if calls != 1 {
		t.Errorf("expected 1 matching call, got %d", calls)
	}
}
