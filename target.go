package motion

// Target is anything whose named properties can be animated. Numeric
// properties carry float64 values; composite properties (colors, point lists)
// carry whatever type their Interpolator produces.
//
// Targets are compared by identity to enforce one owner per property, so
// implementations must be comparable (typically a pointer type).
type Target interface {
	// Property returns the current value of name, or false if the target
	// has no such property.
	Property(name string) (any, bool)
	// SetProperty writes an interpolated value.
	SetProperty(name string, value any)
	// BoundingBox returns the target's box in document space. Scroll
	// bindings measure triggers with it.
	BoundingBox() Rect
}

// Liveness is implemented by targets that can leave the live document. An
// animation whose target reports false is killed on the next tick.
type Liveness interface {
	Alive() bool
}

// PropertyAliaser is implemented by targets that expose one field under
// several names. CanonicalProperty returns the fields name writes, or nil
// when name is its own field. The engine keeps one owner per field, so an
// "opacity" animation supersedes an earlier "alpha" one.
type PropertyAliaser interface {
	CanonicalProperty(name string) []string
}

func propertyFields(t Target, name string) []string {
	if a, ok := t.(PropertyAliaser); ok {
		if fields := a.CanonicalProperty(name); len(fields) > 0 {
			return fields
		}
	}
	return []string{name}
}

func targetAlive(t Target) bool {
	if l, ok := t.(Liveness); ok {
		return l.Alive()
	}
	return true
}
