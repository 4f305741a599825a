package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/mrdg/cinva/ambient"
	"github.com/mrdg/cinva/audio"
	"github.com/mrdg/cinva/dub"
)

type env struct {
	ctx     context.Context
	session *ambient.Session
	cfg     audio.Config // for offline renders
}

func (e *env) eval(input string) (string, error) {
	command, err := dub.Parse(input)
	if errors.Is(err, dub.ErrEmpty) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	name := string(command.Name)
	cmd, ok := lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown command: %s", name)
	}
	if cmd.arity < 0 {
		arity := -cmd.arity
		if len(command.Args) < arity {
			return "", fmt.Errorf("%s: wrong number of arguments: need at least %v, got %v",
				cmd.name, arity, len(command.Args))
		}
	} else if len(command.Args) != cmd.arity {
		return "", fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
			cmd.name, cmd.arity, len(command.Args))
	}
	result, err := cmd.run(e, command.Args)
	if err != nil {
		return result, fmt.Errorf("%s error: %w", cmd.name, err)
	}
	return result, nil
}

// repl reads commands from in until EOF. An interactive terminal gets line
// editing and completion.
func repl(env *env, in *os.File) error {
	if !term.IsTerminal(int(in.Fd())) {
		return readLines(env, in, os.Stdout)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			return nil
		}
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		evalAndPrint(rl.Stdout(), env, line)
	}
}

func readLines(env *env, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		evalAndPrint(w, env, scanner.Text())
	}
	return scanner.Err()
}

func evalAndPrint(w io.Writer, env *env, line string) {
	if result, err := env.eval(line); err != nil {
		fmt.Fprintln(w, err)
	} else if result != "" {
		fmt.Fprintln(w, result)
	}
}

func completer() *readline.PrefixCompleter {
	fields := func(string) []string { return ambient.Fields }
	var items []readline.PrefixCompleterInterface
	for _, cmd := range commands {
		switch cmd.name {
		case "set", "get":
			items = append(items, readline.PcItem(cmd.name, readline.PcItemDynamic(fields)))
		case "preset":
			items = append(items, readline.PcItem(cmd.name, readline.PcItemDynamic(func(string) []string {
				return ambient.Presets()
			})))
		default:
			items = append(items, readline.PcItem(cmd.name))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *float64:
			switch n := arg.(type) {
			case dub.Int:
				*p = float64(n)
			case dub.Float:
				*p = float64(n)
			default:
				return fmt.Errorf("argument error: expected a number")
			}
		case *interface{}:
			*p = value(arg)
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}

// value converts a parsed argument into the value written to the store.
func value(arg dub.Node) interface{} {
	switch v := arg.(type) {
	case dub.Int:
		return float64(v)
	case dub.Float:
		return float64(v)
	case dub.String:
		return string(v)
	case dub.Identifier:
		return string(v)
	default:
		return v
	}
}
