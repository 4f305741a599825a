package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mrdg/cinva/ambient"
	"github.com/mrdg/cinva/audio"
	"github.com/mrdg/cinva/dub"
)

// startTimeout bounds how long opening the audio device may take.
const startTimeout = 5 * time.Second

type command struct {
	name  string
	help  string
	run   func(*env, []dub.Node) (string, error)
	arity int // -n means len(args) must be >= n
}

var commands []command

func init() {
	commands = []command{
		{"start", "start audio, or toggle mute once started", startCommand, 0},
		{"toggle", "mute or unmute", toggleCommand, 0},
		{"hide", "behave as if the window was hidden", hideCommand, 0},
		{"show", "behave as if the window was shown again", showCommand, 0},
		{"set", "set <field> <value>", setCommand, 2},
		{"get", "get <field>", getCommand, 1},
		{"preset", "preset <name>", presetCommand, 1},
		{"presets", "list presets", presetsCommand, 0},
		{"status", "show the audio state and settings", statusCommand, 0},
		{"render", "render <file.wav> <seconds>", renderCommand, 2},
		{"help", "list commands", helpCommand, 0},
	}
}

func lookup(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

func startCommand(env *env, args []dub.Node) (string, error) {
	ctx, cancel := context.WithTimeout(env.ctx, startTimeout)
	defer cancel()
	return "", env.session.OnActivationRequested(ctx)
}

func toggleCommand(env *env, args []dub.Node) (string, error) {
	if env.session.State() == ambient.Inactive {
		return "", ambient.ErrNotStarted
	}
	return "", env.session.Toggle(env.ctx)
}

func hideCommand(env *env, args []dub.Node) (string, error) {
	return "", env.session.OnVisibilityChanged(env.ctx, true)
}

func showCommand(env *env, args []dub.Node) (string, error) {
	return "", env.session.OnVisibilityChanged(env.ctx, false)
}

func setCommand(env *env, args []dub.Node) (string, error) {
	var field string
	var v interface{}
	if err := readArgs(args, &field, &v); err != nil {
		return "", err
	}
	if err := env.session.OnControlChanged(field, v); err != nil {
		return "", err
	}
	return getField(env, field)
}

func getCommand(env *env, args []dub.Node) (string, error) {
	var field string
	if err := readArgs(args, &field); err != nil {
		return "", err
	}
	return getField(env, field)
}

func getField(env *env, field string) (string, error) {
	v, err := env.session.Store().Get(field)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s = %v", field, v), nil
}

func presetCommand(env *env, args []dub.Node) (string, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return "", err
	}
	if err := ambient.LoadPreset(name, env.session.Store()); err != nil {
		return "", err
	}
	return renderSettings(env.session.Store()), nil
}

func presetsCommand(env *env, args []dub.Node) (string, error) {
	return strings.Join(ambient.Presets(), "\n"), nil
}

func statusCommand(env *env, args []dub.Node) (string, error) {
	return renderStatus(env.session.State(), env.session.Store()), nil
}

// renderCommand bounces the current settings through an engine without a device,
// so it works whatever the state of the live session.
func renderCommand(env *env, args []dub.Node) (string, error) {
	var file string
	var seconds float64
	if err := readArgs(args, &file, &seconds); err != nil {
		return "", err
	}
	if seconds <= 0 {
		return "", fmt.Errorf("invalid duration: %v", seconds)
	}
	if err := render(env.ctx, env.cfg, env.session.Store().Settings(), file, seconds); err != nil {
		return "", err
	}
	return fmt.Sprintf("wrote %.1fs to %s", seconds, file), nil
}

func render(ctx context.Context, cfg audio.Config, settings ambient.Settings, file string, seconds float64) error {
	cfg.Output = nil
	engine := audio.NewEngine(cfg)
	session := ambient.NewSession(engine, ambient.NewStore(settings),
		ambient.WithSource(ambient.NewSeededRNG(uint32(cfg.Seed))))
	if err := session.Activate(ctx); err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := audio.RenderWAV(engine, w, seconds); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func helpCommand(env *env, args []dub.Node) (string, error) {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, cmd := range commands {
		fmt.Fprintf(tw, "%s\t%s\n", cmd.name, cmd.help)
	}
	fmt.Fprintf(tw, "\nfields:\t%s", strings.Join(ambient.Fields, ", "))
	if err := tw.Flush(); err != nil {
		return "", err
	}
	return b.String(), nil
}
