package audio

import (
	"github.com/gordonklaus/portaudio"
)

// Sink plays audio through the default PortAudio output device.
type Sink struct {
	stream *portaudio.Stream
}

// PortAudio is an OutputFactory for the default PortAudio device.
func PortAudio(process ProcessFunc) (Output, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, sampleRate, bufferSize, func(out [][]float32) {
		process(out)
	})
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	return &Sink{stream: stream}, nil
}

func (s *Sink) Start() error {
	return s.stream.Start()
}

// Stop halts the stream once the buffers already queued have played.
func (s *Sink) Stop() error {
	return s.stream.Stop()
}

func (s *Sink) Close() error {
	err := s.stream.Close()
	portaudio.Terminate()
	return err
}
