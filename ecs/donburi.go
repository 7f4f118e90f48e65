package ecs

import (
	"github.com/phanxgames/motion"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for pointer, drag and wheel
// input on scene nodes.
var InteractionEventType = events.NewEventType[motion.InteractionEvent]()

// AnimationEventType is the Donburi event type for animation lifecycle
// transitions.
var AnimationEventType = events.NewEventType[motion.AnimationEvent]()

// Store is both a motion.EntityStore and a motion.EventSink, so
// Scene.SetEntityStore routes input and animation events through it.
type Store interface {
	motion.EntityStore
	motion.EventSink
}

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates a Store backed by a Donburi world. Events are
// queued and delivered by ProcessEvents or events.ProcessAllEvents.
func NewDonburiStore(world donburi.World) Store {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event motion.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

func (s *donburiStore) EmitAnimationEvent(event motion.AnimationEvent) {
	AnimationEventType.Publish(s.world, event)
}
