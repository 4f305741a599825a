// Package dub parses the command language of the console: a command name followed
// by space separated arguments.
//
//	set wind.volume -12
//	preset deep-space
//	render "night sky.wav" 30
package dub

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrEmpty is returned for input without a command, such as a blank or comment
// line.
var ErrEmpty = errors.New("empty command")

type Node interface {
	isNode()
}

func (Identifier) isNode() {}
func (Int) isNode()        {}
func (Float) isNode()      {}
func (String) isNode()     {}

type Command struct {
	Name Identifier
	Args []Node
}

type Identifier string
type Int int
type Float float64
type String string

func (c Command) String() string {
	s := string(c.Name)
	for _, arg := range c.Args {
		if str, ok := arg.(String); ok {
			s += " " + strconv.Quote(string(str))
		} else {
			s += fmt.Sprintf(" %v", arg)
		}
	}
	return s
}

func Parse(input string) (Command, error) {
	tokens, err := lex(input)
	if err != nil {
		return Command{}, err
	}
	p := parser{tokens: tokens}
	return p.parse()
}

type parser struct {
	pos    int
	tokens []token
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) parse() (Command, error) {
	var cmd Command
	token := p.next()
	if token.typ == typeEOF {
		return cmd, ErrEmpty
	}
	if token.typ != typeIdentifier {
		return cmd, unexpected(token)
	}
	cmd.Name = Identifier(token.text)
	for token := p.next(); token.typ != typeEOF; token = p.next() {
		var arg Node
		switch token.typ {
		case typeIdentifier:
			arg = Identifier(token.text)
		case typeString:
			s, err := strconv.Unquote(token.text)
			if err != nil {
				return cmd, fmt.Errorf("invalid string %s at position %d", token.text, token.pos)
			}
			arg = String(s)
		case typeFloat:
			f, err := strconv.ParseFloat(token.text, 64)
			if err != nil {
				return cmd, err
			}
			arg = Float(f)
		case typeInt:
			n, err := strconv.Atoi(token.text)
			if err != nil {
				return cmd, err
			}
			arg = Int(n)
		default:
			return cmd, unexpected(token)
		}
		cmd.Args = append(cmd.Args, arg)
	}
	return cmd, nil
}

func unexpected(t token) error {
	return fmt.Errorf("unexpected %v %q at position %d", t.typ, t.text, t.pos)
}
