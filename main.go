package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mrdg/cinva/ambient"
	"github.com/mrdg/cinva/audio"
)

func main() {
	def := ambient.DefaultSettings()
	var (
		backend   = flag.String("backend", "portaudio", "audio output: portaudio or oto")
		bpm       = flag.Float64("bpm", 120, "tempo of the chime clock")
		seed      = flag.Int64("seed", 0, "random seed, 0 picks one from the clock")
		run       = flag.String("run", "", "file with commands to run at startup")
		autostart = flag.Bool("autostart", false, "start audio without waiting for the start command")

		noise   = flag.String("noise", def.NoiseType.String(), "noise colour: pink, white or brown")
		wave    = flag.String("wave", def.Waveform.String(), "chime waveform: sine, fatsine, triangle, square or sawtooth")
		wind    = flag.Float64("wind", def.WindVolume, "wind volume in dB")
		synth   = flag.Float64("synth", def.SynthVolume, "chime volume in dB")
		speed   = flag.Float64("speed", def.FilterSpeed, "filter sweep rate in Hz")
		depth   = flag.Float64("depth", def.FilterDepth, "filter sweep depth in octaves")
		density = flag.Float64("density", def.Density, "chime probability per beat")
	)
	flag.Parse()

	noiseType, ok := ambient.ParseNoiseType(*noise)
	if !ok {
		log.Fatalf("unknown noise type: %s", *noise)
	}
	waveform, ok := ambient.ParseWaveform(*wave)
	if !ok {
		log.Fatalf("unknown waveform: %s", *wave)
	}

	var output audio.OutputFactory
	switch *backend {
	case "portaudio":
		output = audio.PortAudio
	case "oto":
		output = audio.Oto
	default:
		log.Fatalf("unknown backend: %s", *backend)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	var commands []string
	if *run != "" {
		f, err := os.Open(*run)
		if err != nil {
			log.Fatal(err)
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			commands = append(commands, strings.TrimSpace(scanner.Text()))
		}
		f.Close()
		if err := scanner.Err(); err != nil {
			log.Fatal(err)
		}
	}

	cfg := audio.Config{BPM: *bpm, Seed: *seed, Output: output}
	engine := audio.NewEngine(cfg)
	defer engine.Close()

	store := ambient.NewStore(ambient.Settings{
		NoiseType:   noiseType,
		Waveform:    waveform,
		WindVolume:  *wind,
		SynthVolume: *synth,
		FilterSpeed: *speed,
		FilterDepth: *depth,
		Density:     *density,
	})
	session := ambient.NewSession(engine, store, ambient.WithSource(ambient.NewSeededRNG(uint32(*seed))))
	session.Subscribe(func(s ambient.State) {
		log.Printf("audio %s", s)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watchVisibility(ctx, session)

	env := &env{
		ctx:     ctx,
		session: session,
		cfg:     cfg,
	}

	if *autostart {
		commands = append([]string{"start"}, commands...)
	}
	for _, line := range commands {
		if _, err := env.eval(line); err != nil {
			log.Fatalf("%s: %v", *run, err)
		}
	}

	if err := repl(env, os.Stdin); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
