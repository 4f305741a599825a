package ambient

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// SessionSuite drives a session against a recording engine.
type SessionSuite struct {
	suite.Suite
	ctx     context.Context
	engine  *fakeEngine
	session *Session
}

func (s *SessionSuite) SetupTest() {
	s.ctx = context.Background()
	s.engine = newFakeEngine()
	settings := DefaultSettings()
	settings.WindVolume = -20
	settings.SynthVolume = -12
	settings.Density = 0.4
	s.session = NewSession(s.engine, NewStore(settings), WithSource(rand.New(rand.NewSource(7))))
}

func (s *SessionSuite) activate() {
	require.NoError(s.T(), s.session.Activate(s.ctx))
	s.engine.reset()
}

// TestActivate checks the activation scenario: graph built, gain silenced, clock
// started, then a 3 second fade in.
func (s *SessionSuite) TestActivate() {
	require.NoError(s.T(), s.session.Activate(s.ctx))
	require.Equal(s.T(), Active, s.session.State())
	require.Equal(s.T(), []call{
		{name: "Start"},
		{name: "SetGain", db: Silence},
		{name: "RampGain", db: Unity, d: FadeIn},
	}, s.engine.calls)
	require.True(s.T(), s.engine.transport.started)
	require.Equal(s.T(), Quarter, s.engine.transport.interval)

	require.Len(s.T(), s.engine.noises, 1)
	require.Equal(s.T(), NoisePink, s.engine.noises[0].typ)
	require.Equal(s.T(), -20.0, s.engine.noises[0].volume)
	require.Len(s.T(), s.engine.synths, 1)
	synth := s.engine.synths[0]
	require.Equal(s.T(), MaxVoices, synth.opts.MaxVoices)
	require.Equal(s.T(), ChimeEnvelope, synth.opts.Envelope)
	require.Equal(s.T(), -12.0, synth.opts.Volume)
	require.Equal(s.T(), ReverbOptions{Decay: ReverbDecay, Wet: ReverbWet}, s.engine.reverbs[0].opts)

	require.Equal(s.T(), [][2]Node{
		{s.engine.noises[0], s.engine.filters[0]},
		{synth, s.engine.reverbs[0]},
	}, s.engine.links)
	require.Equal(s.T(), []Node{s.engine.filters[0], s.engine.reverbs[0]}, s.engine.outputs)

	s.engine.tick(1000)
	require.Equal(s.T(), uint64(1000), s.session.Scheduler().Ticks())
	require.InDelta(s.T(), 400, len(synth.notes), 60)
	for _, n := range synth.notes {
		require.Contains(s.T(), Scale(), n.pitch)
		require.Equal(s.T(), Eighth, n.length)
	}
}

func (s *SessionSuite) TestActivateTwiceBuildsOneGraph() {
	s.activate()
	require.NoError(s.T(), s.session.Activate(s.ctx))
	require.Empty(s.T(), s.engine.calls)
	require.Len(s.T(), s.engine.noises, 1)
	require.Len(s.T(), s.engine.synths, 1)
	require.Len(s.T(), s.engine.transport.repeats, 1)
}

func (s *SessionSuite) TestActivationDeclinedWithoutGesture() {
	s.engine.startErr = errNoGesture
	err := s.session.OnActivationRequested(s.ctx)
	require.ErrorIs(s.T(), err, errNoGesture)
	require.Equal(s.T(), Inactive, s.session.State())
	require.Empty(s.T(), s.engine.noises)
	require.Nil(s.T(), s.session.Graph())

	// the next click succeeds
	s.engine.startErr = nil
	require.NoError(s.T(), s.session.OnActivationRequested(s.ctx))
	require.Equal(s.T(), Active, s.session.State())
	require.Len(s.T(), s.engine.noises, 1)
}

func (s *SessionSuite) TestActivationButtonTogglesAfterStart() {
	require.NoError(s.T(), s.session.OnActivationRequested(s.ctx))
	require.Equal(s.T(), Active, s.session.State())
	require.NoError(s.T(), s.session.OnActivationRequested(s.ctx))
	require.Equal(s.T(), Muted, s.session.State())
	require.NoError(s.T(), s.session.OnActivationRequested(s.ctx))
	require.Equal(s.T(), Active, s.session.State())
	require.Len(s.T(), s.engine.synths, 1)
}

// TestMuteKeepsTicking checks the mute scenario: a 2 second fade out while the
// scheduler keeps running, and unmute without rebuilding.
func (s *SessionSuite) TestMuteKeepsTicking() {
	s.activate()
	require.NoError(s.T(), s.session.Toggle(s.ctx))
	require.Equal(s.T(), Muted, s.session.State())
	require.Equal(s.T(), []call{{name: "RampGain", db: Silence, d: FadeOut}}, s.engine.calls)

	s.engine.tick(10)
	require.Equal(s.T(), uint64(10), s.session.Scheduler().Ticks())

	s.engine.reset()
	require.NoError(s.T(), s.session.Toggle(s.ctx))
	require.Equal(s.T(), Active, s.session.State())
	require.Equal(s.T(), []call{{name: "RampGain", db: Unity, d: FadeIn}}, s.engine.calls)
	require.Len(s.T(), s.engine.synths, 1)
}

// TestRapidToggleEndsAtUnity checks that the last ramp wins.
func (s *SessionSuite) TestRapidToggleEndsAtUnity() {
	s.activate()
	require.NoError(s.T(), s.session.Toggle(s.ctx))
	require.NoError(s.T(), s.session.Toggle(s.ctx))
	require.Equal(s.T(), Active, s.session.State())
	require.Equal(s.T(), Unity, s.engine.gain)
}

// TestBackgroundWhileActive checks the background scenario.
func (s *SessionSuite) TestBackgroundWhileActive() {
	s.activate()
	s.engine.tick(4)

	require.NoError(s.T(), s.session.OnVisibilityChanged(s.ctx, true))
	require.Equal(s.T(), Backgrounded, s.session.State())
	require.Equal(s.T(), []call{
		{name: "SetGain", db: Silence},
		{name: "SuspendClock"},
	}, s.engine.calls)

	s.engine.tick(100)
	require.Equal(s.T(), uint64(4), s.session.Scheduler().Ticks())

	s.engine.reset()
	require.NoError(s.T(), s.session.OnVisibilityChanged(s.ctx, false))
	require.Equal(s.T(), Active, s.session.State())
	require.Equal(s.T(), []call{
		{name: "ResumeClock"},
		{name: "RampGain", db: Unity, d: FadeIn},
	}, s.engine.calls)

	s.engine.tick(2)
	require.Equal(s.T(), uint64(6), s.session.Scheduler().Ticks())
}

func (s *SessionSuite) TestFailedSuspendRestoresGain() {
	s.activate()
	s.engine.suspendErr = errors.New("device gone")

	require.Error(s.T(), s.session.OnVisibilityChanged(s.ctx, true))
	require.Equal(s.T(), Active, s.session.State())
	require.Equal(s.T(), []call{
		{name: "SetGain", db: Silence},
		{name: "SuspendClock"},
		{name: "RampGain", db: Unity, d: FadeIn},
	}, s.engine.calls)
	require.Equal(s.T(), Unity, s.engine.gain)

	require.NoError(s.T(), s.session.Toggle(s.ctx))
	require.Error(s.T(), s.session.OnVisibilityChanged(s.ctx, true))
	require.Equal(s.T(), Muted, s.session.State())
	require.Equal(s.T(), Silence, s.engine.gain)
}

func (s *SessionSuite) TestBackgroundWhileMutedStaysMuted() {
	s.activate()
	require.NoError(s.T(), s.session.Toggle(s.ctx))
	require.NoError(s.T(), s.session.OnVisibilityChanged(s.ctx, true))
	s.engine.reset()

	require.NoError(s.T(), s.session.OnVisibilityChanged(s.ctx, false))
	require.Equal(s.T(), Muted, s.session.State())
	require.Equal(s.T(), []call{{name: "ResumeClock"}}, s.engine.calls)
	require.Equal(s.T(), Silence, s.engine.gain)
}

func (s *SessionSuite) TestVisibilityBeforeActivationIsIgnored() {
	require.NoError(s.T(), s.session.OnVisibilityChanged(s.ctx, true))
	require.NoError(s.T(), s.session.OnVisibilityChanged(s.ctx, false))
	require.Equal(s.T(), Inactive, s.session.State())
	require.Empty(s.T(), s.engine.calls)
}

func (s *SessionSuite) TestToggleWhileBackgroundedIsIgnored() {
	s.activate()
	require.NoError(s.T(), s.session.OnVisibilityChanged(s.ctx, true))
	s.engine.reset()
	require.NoError(s.T(), s.session.Toggle(s.ctx))
	require.Equal(s.T(), Backgrounded, s.session.State())
	require.Empty(s.T(), s.engine.calls)
}

func (s *SessionSuite) TestControlsProjectOntoLiveNodes() {
	s.activate()
	require.NoError(s.T(), s.session.OnControlChanged(FieldNoiseType, "brown"))
	require.NoError(s.T(), s.session.OnControlChanged(FieldWindVolume, "-30"))
	require.NoError(s.T(), s.session.OnControlChanged(FieldSynthWave, "fatsine"))
	require.NoError(s.T(), s.session.OnControlChanged(FieldSynthVolume, 12.0))
	require.NoError(s.T(), s.session.OnControlChanged(FieldFilterSpeed, 0.5))
	require.NoError(s.T(), s.session.OnControlChanged(FieldFilterDepth, 3))

	require.Equal(s.T(), NoiseBrown, s.engine.noises[0].typ)
	require.Equal(s.T(), -30.0, s.engine.noises[0].volume)
	require.Equal(s.T(), WaveFatSine, s.engine.synths[0].opts.Waveform)
	require.Equal(s.T(), MaxVolume, s.engine.synths[0].opts.Volume)
	require.Equal(s.T(), 0.5, s.engine.filters[0].opts.Frequency)
	require.Equal(s.T(), 3.0, s.engine.filters[0].opts.Octaves)

	err := s.session.OnControlChanged("reverb.wet", 1.0)
	require.ErrorIs(s.T(), err, ErrUnknownField)
}

func (s *SessionSuite) TestDensityAppliesOnNextTick() {
	s.activate()
	require.NoError(s.T(), s.session.OnControlChanged(FieldDensity, 0))
	s.engine.tick(200)
	require.Empty(s.T(), s.engine.synths[0].notes)

	require.NoError(s.T(), s.session.OnControlChanged(FieldDensity, 1))
	s.engine.tick(50)
	require.Len(s.T(), s.engine.synths[0].notes, 50)
}

func (s *SessionSuite) TestSubscribersSeeTransitions() {
	var seen []State
	s.session.Subscribe(func(st State) { seen = append(seen, st) })
	require.NoError(s.T(), s.session.Activate(s.ctx))
	require.NoError(s.T(), s.session.Activate(s.ctx))
	require.NoError(s.T(), s.session.Toggle(s.ctx))
	require.NoError(s.T(), s.session.OnVisibilityChanged(s.ctx, true))
	require.NoError(s.T(), s.session.OnVisibilityChanged(s.ctx, false))
	require.Equal(s.T(), []State{Active, Muted, Backgrounded, Muted}, seen)
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}
