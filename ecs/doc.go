// Package ecs bridges motion scenes into a [Donburi] world.
//
// [NewDonburiStore] returns a store that publishes interaction events
// (pointer, click, drag, wheel) to [InteractionEventType] and animation
// lifecycle events (started, completed, killed, lost) to
// [AnimationEventType]. Subscribe to either in your ECS systems:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
