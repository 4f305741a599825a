package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mrdg/cinva/ambient"
)

var errForeignNode = errors.New("audio: node was not created by this engine")

// processor is a node in the graph. Sources add their output to buf, effects
// transform buf in place. frame is the clock frame of buf[0].
type processor interface {
	process(buf []float64, frame int64)
}

// route is a chain from a source to the master output.
type route []processor

// ProcessFunc renders the next len(out[0]) frames into the output channels.
type ProcessFunc func(out [][]float32)

// Output is an audio device driven by a ProcessFunc.
type Output interface {
	Start() error
	Stop() error
	Close() error
}

// OutputFactory opens an output that pulls audio from process.
type OutputFactory func(process ProcessFunc) (Output, error)

type Config struct {
	BPM    float64
	Seed   int64
	Output OutputFactory // nil for offline rendering
}

var _ ambient.Engine = (*Engine)(nil)

// Engine renders the audio graph natively. It implements ambient.Engine.
type Engine struct {
	cfg       Config
	transport *Transport
	gain      masterGain
	routes    atomic.Pointer[[]route]
	suspended atomic.Bool

	mu       sync.Mutex
	out      Output
	started  bool
	starting chan error // result of an output start that outlived its context
	sources  []processor
	nodes    map[processor]bool
	edges    map[processor]processor
	outputs  map[processor]bool
	seeds    int64

	// audio thread only
	frame   int64
	bus     []float64
	scratch []float64
}

func NewEngine(cfg Config) *Engine {
	if cfg.BPM <= 0 {
		cfg.BPM = 120
	}
	e := &Engine{
		cfg:       cfg,
		transport: NewTransport(cfg.BPM),
		nodes:     make(map[processor]bool),
		edges:     make(map[processor]processor),
		outputs:   make(map[processor]bool),
		seeds:     cfg.Seed,
		bus:       make([]float64, bufferSize),
		scratch:   make([]float64, bufferSize),
	}
	e.routes.Store(&[]route{})
	return e
}

// Start opens and starts the output device. It is a no-op once it succeeded; a
// failure leaves the engine unstarted so a later call can try again.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.out == nil && e.cfg.Output != nil {
		out, err := e.cfg.Output(e.Process)
		if err != nil {
			return fmt.Errorf("open output: %w", err)
		}
		e.out = out
	}
	if e.out != nil {
		if err := e.startOutput(ctx); err != nil {
			return fmt.Errorf("start output: %w", err)
		}
	}
	e.started = true
	return nil
}

// startOutput starts the output device and waits for the result. When ctx is
// done first the start keeps going, and the next call waits for that start
// instead of starting the device twice. Callers hold e.mu.
func (e *Engine) startOutput(ctx context.Context) error {
	if e.starting == nil {
		errc := make(chan error, 1)
		out := e.out
		go func() { errc <- out.Start() }()
		e.starting = errc
	}
	select {
	case err := <-e.starting:
		e.starting = nil
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.out == nil {
		return nil
	}
	err := e.out.Close()
	e.out = nil
	e.started = false
	e.starting = nil
	return err
}

func (e *Engine) NewNoiseSource(t ambient.NoiseType, volume float64) (ambient.NoiseSource, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seeds++
	n := NewNoise(t, volume, e.seeds)
	e.register(n, true)
	return n, nil
}

func (e *Engine) NewAutoFilter(opts ambient.FilterOptions) (ambient.AutoFilter, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f := NewAutoFilter(opts)
	e.register(f, false)
	return f, nil
}

func (e *Engine) NewPolySynth(opts ambient.SynthOptions) (ambient.PolySynth, error) {
	if opts.MaxVoices <= 0 {
		return nil, fmt.Errorf("audio: invalid voice count %d", opts.MaxVoices)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	s := NewPolySynth(opts, e.transport.BPM)
	e.register(s, true)
	return s, nil
}

func (e *Engine) NewReverb(opts ambient.ReverbOptions) (ambient.Reverb, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r := NewReverb(opts)
	e.register(r, false)
	return r, nil
}

func (e *Engine) register(p processor, source bool) {
	e.nodes[p] = true
	if source {
		e.sources = append(e.sources, p)
	}
}

func (e *Engine) lookup(n ambient.Node) (processor, error) {
	p, ok := n.(processor)
	if !ok || !e.nodes[p] {
		return nil, errForeignNode
	}
	return p, nil
}

func (e *Engine) Connect(src, dst ambient.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	from, err := e.lookup(src)
	if err != nil {
		return err
	}
	to, err := e.lookup(dst)
	if err != nil {
		return err
	}
	e.edges[from] = to
	e.publishRoutes()
	return nil
}

func (e *Engine) ToOutput(n ambient.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.lookup(n)
	if err != nil {
		return err
	}
	e.outputs[p] = true
	e.publishRoutes()
	return nil
}

// publishRoutes recomputes the source-to-output chains and hands them to the
// audio thread. Chains that never reach the output stay silent.
func (e *Engine) publishRoutes() {
	var routes []route
	for _, src := range e.sources {
		r := route{src}
		seen := map[processor]bool{src: true}
		p := src
		for !e.outputs[p] {
			next, ok := e.edges[p]
			if !ok || seen[next] {
				r = nil
				break
			}
			seen[next] = true
			r = append(r, next)
			p = next
		}
		if r != nil {
			routes = append(routes, r)
		}
	}
	e.routes.Store(&routes)
}

func (e *Engine) Transport() ambient.Transport { return e.transport }

func (e *Engine) SetGain(db float64) { e.gain.set(db) }

func (e *Engine) RampGain(db float64, d time.Duration) { e.gain.ramp(db, d) }

// Gain returns the master gain in dB as of the last rendered buffer.
func (e *Engine) Gain() float64 { return e.gain.db() }

// SuspendClock stops the output device. The clock, and with it the transport,
// stands still until ResumeClock.
func (e *Engine) SuspendClock(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.suspended.Store(true)
	if e.out == nil {
		return nil
	}
	return waitFor(ctx, e.out.Stop)
}

func (e *Engine) ResumeClock(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.suspended.Store(false)
	if e.out == nil {
		return nil
	}
	if err := e.startOutput(ctx); err != nil {
		e.suspended.Store(true)
		return err
	}
	return nil
}

// Frame returns the number of frames rendered so far.
func (e *Engine) Frame() int64 { return atomic.LoadInt64(&e.frame) }

// Process renders the next buffer into out, one slice per channel. It is the
// callback of the output device.
func (e *Engine) Process(out [][]float32) {
	if len(out) == 0 {
		return
	}
	n := len(out[0])
	if e.suspended.Load() {
		for _, ch := range out {
			for i := range ch {
				ch[i] = 0
			}
		}
		return
	}
	if len(e.bus) < n {
		e.bus = make([]float64, n)
		e.scratch = make([]float64, n)
	}
	frame := atomic.LoadInt64(&e.frame)
	e.transport.advance(frame, n)

	bus := e.bus[:n]
	scratch := e.scratch[:n]
	for i := range bus {
		bus[i] = 0
	}
	for _, r := range *e.routes.Load() {
		for i := range scratch {
			scratch[i] = 0
		}
		for _, p := range r {
			p.process(scratch, frame)
		}
		for i, s := range scratch {
			bus[i] += s
		}
	}
	e.gain.process(bus)

	for _, ch := range out {
		for i := range ch {
			ch[i] = float32(bus[i])
		}
	}
	atomic.StoreInt64(&e.frame, frame+int64(n))
}

// waitFor runs fn, giving up when ctx is done first.
func waitFor(ctx context.Context, fn func() error) error {
	errc := make(chan error, 1)
	go func() { errc <- fn() }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
