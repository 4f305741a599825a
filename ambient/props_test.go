package ambient

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreClampsNumbers(t *testing.T) {
	s := NewStore(DefaultSettings())

	require.NoError(t, s.Set(FieldDensity, 1.7))
	require.Equal(t, 1.0, s.Density())
	require.NoError(t, s.Set(FieldDensity, -0.2))
	require.Equal(t, 0.0, s.Density())

	require.NoError(t, s.Set(FieldWindVolume, -200))
	require.NoError(t, s.Set(FieldFilterSpeed, 0))
	require.NoError(t, s.Set(FieldFilterDepth, 20.0))
	got := s.Settings()
	require.Equal(t, MinVolume, got.WindVolume)
	require.Equal(t, MinFilterSpeed, got.FilterSpeed)
	require.Equal(t, MaxFilterDepth, got.FilterDepth)
}

func TestStoreKeepsLastValidValue(t *testing.T) {
	s := NewStore(DefaultSettings())
	require.NoError(t, s.Set(FieldDensity, "0.25"))
	require.Equal(t, 0.25, s.Density())

	for _, bad := range []interface{}{"lots", nil, true, "", []int{1}} {
		require.NoError(t, s.Set(FieldDensity, bad))
		require.Equal(t, 0.25, s.Density(), "after %v", bad)
	}

	require.NoError(t, s.Set(FieldNoiseType, "violet"))
	require.Equal(t, NoisePink, s.Settings().NoiseType)
	require.NoError(t, s.Set(FieldNoiseType, NoiseWhite))
	require.Equal(t, NoiseWhite, s.Settings().NoiseType)
	require.NoError(t, s.Set(FieldSynthWave, 3.0))
	require.Equal(t, WaveSine, s.Settings().Waveform)
	require.NoError(t, s.Set(FieldSynthWave, " square "))
	require.Equal(t, WaveSquare, s.Settings().Waveform)
}

func TestStoreUnknownField(t *testing.T) {
	s := NewStore(DefaultSettings())
	require.ErrorIs(t, s.Set("bpm", 90), ErrUnknownField)
	_, err := s.Get("bpm")
	require.ErrorIs(t, err, ErrUnknownField)
	require.ErrorIs(t, s.Watch("bpm", func(interface{}) {}), ErrUnknownField)
}

func TestStoreWatchSeesStoredValue(t *testing.T) {
	s := NewStore(DefaultSettings())
	var seen []interface{}
	require.NoError(t, s.Watch(FieldSynthVolume, func(v interface{}) { seen = append(seen, v) }))
	require.NoError(t, s.Set(FieldSynthVolume, -6.0))
	require.NoError(t, s.Set(FieldSynthVolume, 10.0))
	require.NoError(t, s.Set(FieldSynthVolume, "loud"))
	require.Equal(t, []interface{}{-6.0, 0.0, 0.0}, seen)
}

func TestNewStoreSanitizesInitialValues(t *testing.T) {
	s := NewStore(Settings{NoiseType: "grey", Waveform: "", Density: 2, FilterSpeed: 100})
	got := s.Settings()
	require.Equal(t, NoisePink, got.NoiseType)
	require.Equal(t, WaveSine, got.Waveform)
	require.Equal(t, 1.0, got.Density)
	require.Equal(t, MaxFilterSpeed, got.FilterSpeed)
	require.ElementsMatch(t, Fields, s.Keys())
}

func TestLoadPreset(t *testing.T) {
	s := NewStore(DefaultSettings())
	require.NoError(t, LoadPreset("deep-space", s))
	got := s.Settings()
	require.Equal(t, NoiseBrown, got.NoiseType)
	require.Equal(t, 0.25, got.Density)
	require.Error(t, LoadPreset("nope", s))
	require.Equal(t, []string{"deep-space", "solar-wind", "starlight"}, Presets())
}

func TestPitch(t *testing.T) {
	tests := []struct {
		pitch Pitch
		midi  int
	}{
		{"C4", 60}, {"Eb4", 63}, {"A4", 69}, {"G5", 79}, {"C#3", 49}, {"B-1", 11},
	}
	for _, tt := range tests {
		got, err := tt.pitch.MIDI()
		require.NoError(t, err)
		require.Equal(t, tt.midi, got, string(tt.pitch))
	}
	require.InDelta(t, 440.0, Pitch("A4").Freq(), 1e-9)
	require.InDelta(t, 261.6256, Pitch("C4").Freq(), 1e-3)
	for _, bad := range []Pitch{"", "H4", "C", "Cx4"} {
		_, err := bad.MIDI()
		require.Error(t, err, string(bad))
	}
	require.Len(t, Scale(), 8)
	Scale()[0] = "B9"
	require.Equal(t, Pitch("C4"), Scale()[0])
	require.Equal(t, 0.5, Quarter.Seconds(120))
	require.Equal(t, "8n", Eighth.String())
}
