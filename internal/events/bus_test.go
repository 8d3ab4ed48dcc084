package events

import (
	"testing"

	"github.com/google/uuid"
)

func meta() Meta {
	return Meta{Session: uuid.New(), Time: 1.5}
}

func TestPublishOrdering(t *testing.T) {
	bus := NewBus()
	var order []int

	bus.Subscribe(KindBrickHit, func(Event) { order = append(order, 1) })
	bus.Subscribe(KindBrickHit, func(Event) { order = append(order, 2) })
	bus.Subscribe(KindBrickHit, func(Event) { order = append(order, 3) })

	bus.Publish(BrickHit{Meta: meta()})

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("handlers should run in subscription order, got %v", order)
	}
}

func TestPanickingSubscriberIsIsolated(t *testing.T) {
	bus := NewBus()
	var survived bool

	bus.Subscribe(KindLifeLost, func(Event) { panic("listener bug") })
	bus.Subscribe(KindLifeLost, func(Event) { survived = true })

	bus.Publish(LifeLost{Meta: meta(), LivesRemaining: 1, Cause: "bottom"})

	if !survived {
		t.Error("second subscriber should run despite the first panicking")
	}
}

func TestTapSeesEveryKind(t *testing.T) {
	bus := NewBus()
	var kinds []Kind
	bus.Tap(func(ev Event) { kinds = append(kinds, ev.Kind()) })

	bus.Publish(BrickHit{Meta: meta()})
	bus.Publish(WallHit{Meta: meta(), Side: "left"})
	bus.Publish(RoundCompleted{Meta: meta(), Round: 1})

	want := []Kind{KindBrickHit, KindWallHit, KindRoundCompleted}
	if len(kinds) != len(want) {
		t.Fatalf("tap should see all events, got %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestUnsubscribedKindIgnored(t *testing.T) {
	bus := NewBus()
	fired := false
	bus.Subscribe(KindBrickBreak, func(Event) { fired = true })

	bus.Publish(BrickHit{Meta: meta()})

	if fired {
		t.Error("BrickBreak handler must not fire on BrickHit")
	}
}

func TestNilHandlerAndEventAreNoOps(t *testing.T) {
	bus := NewBus()
	bus.Subscribe(KindBrickHit, nil)
	bus.Tap(nil)
	bus.Publish(nil) // Must not panic
	bus.Publish(BrickHit{Meta: meta()})
}

func TestEveryEventExposesMeta(t *testing.T) {
	m := meta()
	evs := []Event{
		BrickHit{Meta: m},
		BrickBreak{Meta: m},
		PaddleHit{Meta: m},
		WallHit{Meta: m},
		LifeLost{Meta: m},
		BallLaunched{Meta: m},
		RoundCompleted{Meta: m},
		ComboMilestone{Meta: m},
		CoinCollected{Meta: m},
		RewardActivated{Meta: m},
		GambleResolved{Meta: m},
	}
	for _, ev := range evs {
		if got := ev.EventMeta(); got.Session != m.Session || got.Time != m.Time {
			t.Errorf("%s: metadata not carried, got %+v", ev.Kind(), got)
		}
	}
}

func TestMetaCarriedOnEvent(t *testing.T) {
	bus := NewBus()
	m := meta()
	var got Meta
	bus.Subscribe(KindPaddleHit, func(ev Event) { got = ev.EventMeta() })

	bus.Publish(PaddleHit{Meta: m, Angle: 0.4, Speed: 20})

	if got.Session != m.Session || got.Time != m.Time {
		t.Errorf("event should carry session id and timestamp, got %+v", got)
	}
}
