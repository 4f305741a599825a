package ambient

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrUnknownField is returned when a control names a field that was never registered.
var ErrUnknownField = errors.New("unknown field")

// Props stores settings that can be read from the audio thread without locks. All
// properties should be registered before any reads take place. Writes come from a
// single goroutine at a time; out of range values are clamped and values of the
// wrong kind leave the previous value in place.
type Props struct {
	properties map[string]*atomic.Value
	setters    map[string]setter

	mu       sync.Mutex
	watchers map[string][]func(interface{})
}

func NewProps() *Props {
	return &Props{
		properties: make(map[string]*atomic.Value),
		setters:    make(map[string]setter),
		watchers:   make(map[string][]func(interface{})),
	}
}

// Set updates the property with value and notifies its watchers with the value that
// was actually stored. The key has to be registered first using Register.
func (p *Props) Set(key string, value interface{}) error {
	prop, ok := p.properties[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	p.setters[key](value, prop)

	p.mu.Lock()
	watchers := p.watchers[key]
	p.mu.Unlock()
	v := prop.Load()
	for _, fn := range watchers {
		fn(v)
	}
	return nil
}

func (p *Props) Get(key string) (interface{}, error) {
	prop, ok := p.properties[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return prop.Load(), nil
}

// Keys returns the registered property names.
func (p *Props) Keys() []string {
	keys := make([]string, 0, len(p.properties))
	for k := range p.properties {
		keys = append(keys, k)
	}
	return keys
}

// Watch registers fn to be called after every Set of key.
func (p *Props) Watch(key string, fn func(interface{})) error {
	if _, ok := p.properties[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	p.mu.Lock()
	p.watchers[key] = append(p.watchers[key], fn)
	p.mu.Unlock()
	return nil
}

// Register adds a new property. The initial value must be accepted by set.
func (p *Props) Register(key string, set setter, init interface{}) (*atomic.Value, error) {
	var prop atomic.Value
	set(init, &prop)
	if prop.Load() == nil {
		return nil, fmt.Errorf("invalid initial value for %s: %v", key, init)
	}
	p.properties[key] = &prop
	p.setters[key] = set
	return &prop, nil
}

func (p *Props) MustRegister(key string, set setter, init interface{}) *atomic.Value {
	if prop, err := p.Register(key, set, init); err != nil {
		panic(err)
	} else {
		return prop
	}
}

type setter func(val interface{}, dest *atomic.Value)

func setFloat64(min, max float64) setter {
	return func(v interface{}, dest *atomic.Value) {
		f, ok := toFloat64(v)
		if !ok {
			return
		}
		dest.Store(clamp(f, min, max))
	}
}

func setEnum(parse func(string) (interface{}, bool)) setter {
	return func(v interface{}, dest *atomic.Value) {
		s, ok := v.(string)
		if !ok {
			if str, isStringer := v.(fmt.Stringer); isStringer {
				s, ok = str.String(), true
			}
		}
		if !ok {
			return
		}
		if val, ok := parse(strings.TrimSpace(s)); ok {
			dest.Store(val)
		}
	}
}

func toFloat64(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func clamp(f, min, max float64) float64 {
	if f < min {
		return min
	}
	if f > max {
		return max
	}
	return f
}
