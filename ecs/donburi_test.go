package ecs

import (
	"testing"
	"time"

	"github.com/phanxgames/motion"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []motion.InteractionEvent
	InteractionEventType.Subscribe(world, func(w donburi.World, e motion.InteractionEvent) {
		received = append(received, e)
	})

	store.EmitEvent(motion.InteractionEvent{
		Type:     motion.EventPointerDown,
		EntityID: 42,
		GlobalX:  100,
		GlobalY:  200,
		Button:   motion.MouseButtonLeft,
	})
	store.EmitEvent(motion.InteractionEvent{Type: motion.EventWheel, WheelY: -1})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("received %d events before processing", len(received))
	}
	InteractionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if e := received[0]; e.Type != motion.EventPointerDown || e.EntityID != 42 || e.GlobalX != 100 || e.GlobalY != 200 {
		t.Errorf("event 0: %+v", e)
	}
	if e := received[1]; e.Type != motion.EventWheel || e.WheelY != -1 {
		t.Errorf("event 1: %+v", e)
	}
}

func TestDonburiStore_AnimationEvents(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var got []motion.AnimationEventType
	AnimationEventType.Subscribe(world, func(w donburi.World, e motion.AnimationEvent) {
		got = append(got, e.Type)
	})

	scene := motion.NewScene(motion.SceneConfig{})
	scene.SetEntityStore(store)
	box := motion.NewBox("box", 10, 10, motion.ColorWhite)
	scene.Root().AddChild(box)

	if _, err := scene.Animate(motion.Spec{
		Target:     box,
		Properties: []motion.Property{motion.FromTo("x", 0.0, 100.0)},
		Duration:   100 * time.Millisecond,
	}); err != nil {
		t.Fatal(err)
	}
	for range 10 {
		if err := scene.UpdateDelta(20 * time.Millisecond); err != nil {
			t.Fatal(err)
		}
	}
	events.ProcessAllEvents(world)

	want := []motion.AnimationEventType{motion.AnimationStarted, motion.AnimationCompleted}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDonburiStore_ImplementsInterfaces(t *testing.T) {
	world := donburi.NewWorld()
	var _ motion.EntityStore = NewDonburiStore(world)
	var _ motion.EventSink = NewDonburiStore(world)
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	InteractionEventType.Subscribe(world, func(w donburi.World, e motion.InteractionEvent) {
		count1++
	})
	InteractionEventType.Subscribe(world, func(w donburi.World, e motion.InteractionEvent) {
		count2++
	})

	store.EmitEvent(motion.InteractionEvent{Type: motion.EventClick})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
