package audio

import (
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// OtoOutput plays audio through oto. oto pulls interleaved float32 samples, which
// Read produces from the planar ProcessFunc.
type OtoOutput struct {
	ctx     *oto.Context
	player  *oto.Player
	process ProcessFunc
	planar  [][]float32
	mu      sync.Mutex // only for Start/Stop/Close
}

// Oto is an OutputFactory for the oto backend.
func Oto(process ProcessFunc) (Output, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   20 * time.Millisecond,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	o := &OtoOutput{
		ctx:     ctx,
		process: process,
		planar:  [][]float32{make([]float32, bufferSize), make([]float32, bufferSize)},
	}
	o.player = ctx.NewPlayer(o)
	return o, nil
}

// Read implements io.Reader for the oto player.
func (o *OtoOutput) Read(p []byte) (int, error) {
	const frameBytes = 8 // two float32 channels
	frames := len(p) / frameBytes
	if len(o.planar[0]) < frames {
		o.planar = [][]float32{make([]float32, frames), make([]float32, frames)}
	}
	left, right := o.planar[0][:frames], o.planar[1][:frames]
	o.process([][]float32{left, right})
	for i := 0; i < frames; i++ {
		binary.LittleEndian.PutUint32(p[i*frameBytes:], math.Float32bits(left[i]))
		binary.LittleEndian.PutUint32(p[i*frameBytes+4:], math.Float32bits(right[i]))
	}
	return frames * frameBytes, nil
}

func (o *OtoOutput) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.player.Play()
	return o.player.Err()
}

func (o *OtoOutput) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.player.Pause()
	return nil
}

func (o *OtoOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.player.Close()
}
