package audio

import (
	"fmt"
	"io"
	"math"

	wav "github.com/youpy/go-wav"
)

// RenderWAV renders seconds of audio from e into w as 16 bit stereo PCM. The engine
// must not be attached to a running output.
func RenderWAV(e *Engine, w io.Writer, seconds float64) error {
	if seconds <= 0 {
		return fmt.Errorf("invalid duration: %v", seconds)
	}
	total := int(math.Round(seconds * sampleRate))
	writer := wav.NewWriter(w, uint32(total), 2, sampleRate, 16)

	out := [][]float32{make([]float32, bufferSize), make([]float32, bufferSize)}
	samples := make([]wav.Sample, 0, bufferSize)
	for done := 0; done < total; {
		n := bufferSize
		if total-done < n {
			n = total - done
		}
		chunk := [][]float32{out[0][:n], out[1][:n]}
		e.Process(chunk)
		samples = samples[:0]
		for i := 0; i < n; i++ {
			samples = append(samples, wav.Sample{Values: [2]int{toPCM16(chunk[0][i]), toPCM16(chunk[1][i])}})
		}
		if err := writer.WriteSamples(samples); err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
		done += n
	}
	return nil
}

func toPCM16(s float32) int {
	const scale = 1<<15 - 1 // assumes 16 bit output
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int(scale * s)
}
