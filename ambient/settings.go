package ambient

import (
	"sync/atomic"
)

// Field names accepted by Store.Set and the control bindings.
const (
	FieldNoiseType   = "noise.type"
	FieldSynthWave   = "synth.wave"
	FieldWindVolume  = "wind.volume"
	FieldSynthVolume = "synth.volume"
	FieldFilterSpeed = "filter.speed"
	FieldFilterDepth = "filter.depth"
	FieldDensity     = "chime.density"
)

// Fields lists the fields in display order.
var Fields = []string{
	FieldNoiseType,
	FieldSynthWave,
	FieldWindVolume,
	FieldSynthVolume,
	FieldFilterSpeed,
	FieldFilterDepth,
	FieldDensity,
}

// Ranges for the numeric fields.
const (
	MinVolume      = -60.0
	MaxVolume      = 0.0
	MinFilterSpeed = 0.01
	MaxFilterSpeed = 10.0
	MinFilterDepth = 0.0
	MaxFilterDepth = 6.0
)

// NoiseType is the spectral colour of the drone's noise source.
type NoiseType string

const (
	NoisePink  NoiseType = "pink"
	NoiseWhite NoiseType = "white"
	NoiseBrown NoiseType = "brown"
)

func (t NoiseType) String() string { return string(t) }

func ParseNoiseType(s string) (NoiseType, bool) {
	switch t := NoiseType(s); t {
	case NoisePink, NoiseWhite, NoiseBrown:
		return t, true
	}
	return "", false
}

// Waveform is the oscillator shape of the chime voices.
type Waveform string

const (
	WaveSine     Waveform = "sine"
	WaveFatSine  Waveform = "fatsine"
	WaveTriangle Waveform = "triangle"
	WaveSquare   Waveform = "square"
	WaveSawtooth Waveform = "sawtooth"
)

func (w Waveform) String() string { return string(w) }

func ParseWaveform(s string) (Waveform, bool) {
	switch w := Waveform(s); w {
	case WaveSine, WaveFatSine, WaveTriangle, WaveSquare, WaveSawtooth:
		return w, true
	}
	return "", false
}

// Settings is a snapshot of the playback settings.
type Settings struct {
	NoiseType   NoiseType
	Waveform    Waveform
	WindVolume  float64 // dB
	SynthVolume float64 // dB
	FilterSpeed float64 // Hz
	FilterDepth float64 // octaves
	Density     float64 // probability per tick
}

// DefaultSettings returns the initial values of the page controls.
func DefaultSettings() Settings {
	return Settings{
		NoiseType:   NoisePink,
		Waveform:    WaveSine,
		WindVolume:  -20,
		SynthVolume: -12,
		FilterSpeed: 0.0625, // one sweep every 8 measures at 120 BPM
		FilterDepth: 2.6,
		Density:     0.4,
	}
}

// Store is the parameter store for a session.
type Store struct {
	*Props
	noiseType   *atomic.Value
	synthWave   *atomic.Value
	windVolume  *atomic.Value
	synthVolume *atomic.Value
	filterSpeed *atomic.Value
	filterDepth *atomic.Value
	density     *atomic.Value
}

// NewStore registers all fields. Initial values are clamped like any other write;
// invalid enum values fall back to the defaults.
func NewStore(init Settings) *Store {
	def := DefaultSettings()
	if _, ok := ParseNoiseType(string(init.NoiseType)); !ok {
		init.NoiseType = def.NoiseType
	}
	if _, ok := ParseWaveform(string(init.Waveform)); !ok {
		init.Waveform = def.Waveform
	}
	props := NewProps()
	return &Store{
		Props: props,
		noiseType: props.MustRegister(FieldNoiseType, setEnum(func(s string) (interface{}, bool) {
			return ParseNoiseType(s)
		}), init.NoiseType),
		synthWave: props.MustRegister(FieldSynthWave, setEnum(func(s string) (interface{}, bool) {
			return ParseWaveform(s)
		}), init.Waveform),
		windVolume:  props.MustRegister(FieldWindVolume, setFloat64(MinVolume, MaxVolume), init.WindVolume),
		synthVolume: props.MustRegister(FieldSynthVolume, setFloat64(MinVolume, MaxVolume), init.SynthVolume),
		filterSpeed: props.MustRegister(FieldFilterSpeed, setFloat64(MinFilterSpeed, MaxFilterSpeed), init.FilterSpeed),
		filterDepth: props.MustRegister(FieldFilterDepth, setFloat64(MinFilterDepth, MaxFilterDepth), init.FilterDepth),
		density:     props.MustRegister(FieldDensity, setFloat64(0, 1), init.Density),
	}
}

// Density is safe to call from the audio thread.
func (s *Store) Density() float64 { return s.density.Load().(float64) }

func (s *Store) Settings() Settings {
	return Settings{
		NoiseType:   s.noiseType.Load().(NoiseType),
		Waveform:    s.synthWave.Load().(Waveform),
		WindVolume:  s.windVolume.Load().(float64),
		SynthVolume: s.synthVolume.Load().(float64),
		FilterSpeed: s.filterSpeed.Load().(float64),
		FilterDepth: s.filterDepth.Load().(float64),
		Density:     s.density.Load().(float64),
	}
}

// Apply writes every field of settings, as if each control had been moved.
func (s *Store) Apply(settings Settings) {
	// errors are impossible here: every field is registered by NewStore
	_ = s.Set(FieldNoiseType, settings.NoiseType)
	_ = s.Set(FieldSynthWave, settings.Waveform)
	_ = s.Set(FieldWindVolume, settings.WindVolume)
	_ = s.Set(FieldSynthVolume, settings.SynthVolume)
	_ = s.Set(FieldFilterSpeed, settings.FilterSpeed)
	_ = s.Set(FieldFilterDepth, settings.FilterDepth)
	_ = s.Set(FieldDensity, settings.Density)
}
