package ambient

import "time"

// State is the audio lifecycle state.
type State int

const (
	Inactive State = iota
	Active
	Muted
	Backgrounded
)

var stateNames = [...]string{
	Inactive:     "inactive",
	Active:       "active",
	Muted:        "muted",
	Backgrounded: "backgrounded",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Audible reports whether the master output is (or is ramping towards) unity.
func (s State) Audible() bool { return s == Active }

// Running reports whether the clock and the scheduler run.
func (s State) Running() bool { return s == Active || s == Muted }

// Event is an input to the lifecycle.
type Event int

const (
	EventActivate Event = iota
	EventToggle
	EventBackground
	EventForeground
)

// Effect is what the session has to do to the engine for a transition.
type Effect int

const (
	EffectNone         Effect = iota
	EffectStart               // build if needed, silence, start the clock, fade in
	EffectFadeIn              // ramp silence -> unity
	EffectFadeOut             // ramp unity -> silence
	EffectSuspend             // hard silence, suspend the clock
	EffectResume              // resume the clock, stay silent
	EffectResumeFadeIn        // resume the clock, fade in
)

// Ramp durations.
const (
	FadeIn  = 3 * time.Second
	FadeOut = 2 * time.Second
)

// Lifecycle is the state machine value. The zero value is Inactive.
type Lifecycle struct {
	state State
	prior State // state before backgrounding
}

func (l Lifecycle) State() State { return l.state }

// Next returns the lifecycle after ev and the effect to apply. Events that make no
// sense in the current state leave it unchanged with EffectNone.
func (l Lifecycle) Next(ev Event) (Lifecycle, Effect) {
	switch ev {
	case EventActivate:
		if l.state == Inactive {
			return Lifecycle{state: Active}, EffectStart
		}
	case EventToggle:
		switch l.state {
		case Active:
			return Lifecycle{state: Muted}, EffectFadeOut
		case Muted:
			return Lifecycle{state: Active}, EffectFadeIn
		}
	case EventBackground:
		if l.state.Running() {
			return Lifecycle{state: Backgrounded, prior: l.state}, EffectSuspend
		}
	case EventForeground:
		if l.state == Backgrounded {
			if l.prior == Active {
				return Lifecycle{state: Active}, EffectResumeFadeIn
			}
			return Lifecycle{state: Muted}, EffectResume
		}
	}
	return l, EffectNone
}
