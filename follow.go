package motion

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Follower springs a numeric property toward a goal that may move every
// frame, such as the pointer position. Unlike QuickTo it keeps velocity
// across retargets, so the motion never restarts from rest.
type Follower struct {
	target    Target
	property  string
	frequency float64
	damping   float64

	pos, vel, goal float64
	settled        bool
}

// NewFollower returns a Follower for property, starting at its current
// value. Frequency is the spring's angular frequency; damping 1 is
// critically damped, below 1 overshoots.
func NewFollower(target Target, property string, frequency, damping float64) (*Follower, error) {
	if target == nil {
		return nil, invalid("Target", "missing target")
	}
	v, ok := target.Property(property)
	if !ok {
		return nil, invalid("Properties["+property+"]", "the target has no such property")
	}
	start, ok := toFloat(v)
	if !ok {
		return nil, invalid("Properties["+property+"]", "%T is not numeric", v)
	}
	if frequency <= 0 || damping < 0 {
		return nil, invalid("Frequency", "need frequency > 0 and damping >= 0, got %v and %v", frequency, damping)
	}
	return &Follower{
		target:    target,
		property:  property,
		frequency: frequency,
		damping:   damping,
		pos:       start,
		goal:      start,
		settled:   true,
	}, nil
}

// SetGoal moves the point the property springs toward.
func (f *Follower) SetGoal(v float64) {
	if v != f.goal {
		f.goal = v
		f.settled = false
	}
}

// Goal returns the current goal.
func (f *Follower) Goal() float64 { return f.goal }

// Value returns the last value written to the target.
func (f *Follower) Value() float64 { return f.pos }

// Settled reports whether the property has come to rest on the goal.
func (f *Follower) Settled() bool { return f.settled }

// Update advances the spring by dt and writes the new value. Settled
// followers and dead targets are left alone.
func (f *Follower) Update(dt time.Duration) {
	if f.settled || dt <= 0 || !targetAlive(f.target) {
		return
	}
	spring := harmonica.NewSpring(dt.Seconds(), f.frequency, f.damping)
	f.pos, f.vel = spring.Update(f.pos, f.vel, f.goal)
	if math.Abs(f.pos-f.goal) < 1e-3 && math.Abs(f.vel) < 1e-2 {
		f.pos, f.vel = f.goal, 0
		f.settled = true
	}
	f.target.SetProperty(f.property, f.pos)
}
