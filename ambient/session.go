package ambient

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNotStarted is returned by handlers that need a graph before activation.
var ErrNotStarted = errors.New("audio not started")

// Session owns the parameter store, the lifecycle and the audio graph of one
// listening session. Its handlers may be called from any goroutine.
type Session struct {
	engine Engine
	store  *Store
	rng    Source

	mu        sync.Mutex
	life      Lifecycle
	graph     *Graph
	scheduler *Scheduler
	listeners []func(State)
}

type Option func(*Session)

// WithSource sets the random source used by the scheduler.
func WithSource(src Source) Option {
	return func(s *Session) { s.rng = src }
}

func NewSession(e Engine, store *Store, opts ...Option) *Session {
	s := &Session{
		engine: e,
		store:  store,
		rng:    NewSeededRNG(uint32(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Store() *Store { return s.store }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.life.State()
}

// Scheduler returns the trigger scheduler, or nil before the first activation.
func (s *Session) Scheduler() *Scheduler {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduler
}

// Graph returns the audio graph, or nil before the first activation.
func (s *Session) Graph() *Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph
}

// Subscribe registers fn to be called with the new state after every transition.
func (s *Session) Subscribe(fn func(State)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// OnActivationRequested handles the single activation button: the first press
// starts audio, later presses toggle mute.
func (s *Session) OnActivationRequested(ctx context.Context) error {
	if s.State() == Inactive {
		return s.Activate(ctx)
	}
	return s.Toggle(ctx)
}

func (s *Session) Activate(ctx context.Context) error {
	return s.dispatch(ctx, EventActivate)
}

func (s *Session) Toggle(ctx context.Context) error {
	return s.dispatch(ctx, EventToggle)
}

// OnVisibilityChanged handles the host reporting the page hidden or shown.
func (s *Session) OnVisibilityChanged(ctx context.Context, hidden bool) error {
	if hidden {
		return s.dispatch(ctx, EventBackground)
	}
	return s.dispatch(ctx, EventForeground)
}

// OnControlChanged writes a control value into the store. Live nodes pick the
// value up through the graph's projection; the density is read on the next tick.
func (s *Session) OnControlChanged(field string, value interface{}) error {
	return s.store.Set(field, value)
}

func (s *Session) dispatch(ctx context.Context, ev Event) error {
	s.mu.Lock()
	next, effect := s.life.Next(ev)
	if effect == EffectNone {
		s.mu.Unlock()
		return nil
	}
	if err := s.apply(ctx, s.life.State(), effect); err != nil {
		s.mu.Unlock()
		return err
	}
	s.life = next
	listeners := append([]func(State){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next.State())
	}
	return nil
}

// apply carries out effect on the engine. from is the state the session is
// leaving; a failed effect leaves the engine audible the way from expects.
func (s *Session) apply(ctx context.Context, from State, effect Effect) error {
	e := s.engine
	switch effect {
	case EffectStart:
		if err := e.Start(ctx); err != nil {
			return fmt.Errorf("start engine: %w", err)
		}
		if s.graph == nil {
			g, err := Build(e, s.store)
			if err != nil {
				return fmt.Errorf("build graph: %w", err)
			}
			sched := NewScheduler(s.store.Density, g.Synth, s.rng)
			s.graph, s.scheduler = g, sched
			e.Transport().ScheduleRepeat(TriggerInterval, func(at Time) {
				sched.Tick(at)
			})
		}
		e.SetGain(Silence)
		e.Transport().Start()
		e.RampGain(Unity, FadeIn)
	case EffectFadeIn:
		e.RampGain(Unity, FadeIn)
	case EffectFadeOut:
		e.RampGain(Silence, FadeOut)
	case EffectSuspend:
		e.SetGain(Silence)
		if err := e.SuspendClock(ctx); err != nil {
			if from == Active {
				e.RampGain(Unity, FadeIn)
			}
			return fmt.Errorf("suspend clock: %w", err)
		}
	case EffectResume:
		if err := e.ResumeClock(ctx); err != nil {
			return fmt.Errorf("resume clock: %w", err)
		}
	case EffectResumeFadeIn:
		if err := e.ResumeClock(ctx); err != nil {
			return fmt.Errorf("resume clock: %w", err)
		}
		e.RampGain(Unity, FadeIn)
	}
	return nil
}
