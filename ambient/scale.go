package ambient

import (
	"fmt"
	"math"
	"strconv"
)

// Pitch is a note name in scientific pitch notation, e.g. "Eb4".
type Pitch string

var pitchClasses = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// MIDI returns the MIDI note number of p. C4 is 60.
func (p Pitch) MIDI() (int, error) {
	s := string(p)
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid pitch %q", s)
	}
	class, ok := pitchClasses[s[0]]
	if !ok {
		return 0, fmt.Errorf("invalid pitch %q", s)
	}
	rest := s[1:]
	for len(rest) > 0 && (rest[0] == 'b' || rest[0] == '#') {
		if rest[0] == 'b' {
			class--
		} else {
			class++
		}
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("invalid pitch %q: %w", s, err)
	}
	return (octave+1)*12 + class, nil
}

// Freq returns the frequency of p in Hz (A4 = 440). Invalid pitches return 0.
func (p Pitch) Freq() float64 {
	note, err := p.MIDI()
	if err != nil {
		return 0
	}
	return math.Pow(2, float64(note-69)/12.0) * 440
}

var scale = [...]Pitch{"C4", "D4", "Eb4", "G4", "A4", "C5", "D5", "G5"}

// Scale returns the pitches chimes are drawn from.
func Scale() []Pitch {
	s := scale
	return s[:]
}

// NoteValue is a note length as a division of a whole note: 4 is a quarter note.
type NoteValue int

const (
	Whole   NoteValue = 1
	Half    NoteValue = 2
	Quarter NoteValue = 4
	Eighth  NoteValue = 8
)

// Seconds returns the length of n at the given tempo in quarter notes per minute.
func (n NoteValue) Seconds(bpm float64) float64 {
	return 60 / bpm * 4 / float64(n)
}

// String returns the notation used by Tone.js, e.g. "8n".
func (n NoteValue) String() string {
	return strconv.Itoa(int(n)) + "n"
}
