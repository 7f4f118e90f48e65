// Package motion animates properties of scene nodes over time or in response
// to scrolling, on top of [Ebitengine].
//
// An [Engine] owns a set of animations and advances them once per frame. Each
// animation is described by a [Spec]: a [Target], the properties to
// interpolate, a duration, an easing, and optionally a [ScrollSpec] that binds
// progress to a scroll window instead of the clock.
//
// # Quick start
//
// [Scene] wires an engine to a [Viewport] and a node tree, and [Run] opens a
// window and drives it:
//
//	scene := motion.NewScene(motion.SceneConfig{Width: 800, Height: 600})
//	card := motion.NewBox("card", 200, 120, motion.Color{R: 0.3, G: 0.7, B: 1, A: 1})
//	card.X, card.Y = 300, 900
//	scene.Root().AddChild(card)
//
//	scene.Animate(motion.Spec{
//		Target:     card,
//		Properties: []motion.Property{motion.FromTo("opacity", 0.0, 1.0)},
//		Duration:   time.Second,
//		Scroll:     &motion.ScrollSpec{Trigger: card, Mode: motion.ModeDiscrete},
//	})
//
//	motion.Run(scene, motion.RunConfig{Title: "Cards"})
//
// Engines can also be used without a Scene. Any type implementing
// [ScrollSource] can drive scroll bindings, and any comparable type
// implementing [Target] can be animated.
//
// # Time and scroll modes
//
// A Spec without Scroll plays on the engine clock, honoring Delay, Repeat and
// Yoyo. Its clock starts at the first tick after Register, so hosts may pass
// absolute frame timestamps to [Engine.Tick]. With Scroll in [ModeScrub], progress follows the scroll position
// through the window between Start and End, optionally smoothed. In
// [ModeDiscrete], crossing the window edges plays, reverses, restarts or
// completes the animation according to its [ToggleActions].
//
// # Ownership
//
// A property of a target belongs to at most one animation. Registering a new
// animation for the same property takes it from the older one, which is
// killed once it owns nothing.
//
// # Declarative documents
//
// [Scene.LoadAnimations] reads YAML documents (see [Document]) and registers
// every entry, resolving targets by node name.
//
// [Ebitengine]: https://ebitengine.org
package motion
