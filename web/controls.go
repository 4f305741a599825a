//go:build js

package web

import (
	"context"
	"log"
	"strconv"

	"github.com/gopherjs/gopherjs/js"

	"github.com/mrdg/cinva/ambient"
)

// control binds one page element to a field of the store.
type control struct {
	id    string
	field string
	event string
	enum  bool
}

var controls = []control{
	{"type-wind", ambient.FieldNoiseType, "change", true},
	{"vol-wind", ambient.FieldWindVolume, "input", false},
	{"type-synth", ambient.FieldSynthWave, "change", true},
	{"vol-synth", ambient.FieldSynthVolume, "input", false},
	{"param-speed", ambient.FieldFilterSpeed, "input", false},
	{"param-depth", ambient.FieldFilterDepth, "input", false},
	{"param-density", ambient.FieldDensity, "input", false},
}

const (
	labelStart  = "▶ Start Audio"
	labelMute   = "🔇 Mute Audio"
	labelResume = "🔈 Resume Audio"
)

// Bind wires the controls found in doc to session, which must run on engine.
// Missing elements are skipped. The initial value of every control is written
// into the store, so the page markup decides the starting sound.
func Bind(doc *js.Object, engine *Engine, session *ambient.Session) {
	for _, c := range controls {
		el := element(doc, c.id)
		if el == nil {
			continue
		}
		c := c
		write := func() {
			if err := session.OnControlChanged(c.field, c.value(el)); err != nil {
				log.Printf("%s: %v", c.id, err)
			}
		}
		write()
		el.Call("addEventListener", c.event, func(*js.Object) { write() })
	}

	btn := element(doc, "btn-audio")
	panel := element(doc, "settings-panel")
	if btn != nil {
		btn.Set("innerText", labelStart)
		onClick := activationHandler(session.State, engine.Unlock, session.OnActivationRequested)
		btn.Call("addEventListener", "click", func(*js.Object) { onClick() })
	}
	session.Subscribe(func(s ambient.State) {
		render(btn, panel, s)
	})

	doc.Call("addEventListener", "visibilitychange", func(*js.Object) {
		hidden := doc.Get("hidden").Bool()
		go func() {
			if err := session.OnVisibilityChanged(context.Background(), hidden); err != nil {
				log.Printf("visibility: %v", err)
			}
		}()
	})
}

// value reads the element's current value in the type the store expects.
func (c control) value(el *js.Object) interface{} {
	s := el.Get("value").String()
	if c.enum {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s // rejected by the store, which keeps the last valid value
	}
	return f
}

func render(btn, panel *js.Object, s ambient.State) {
	if btn != nil {
		btn.Get("dataset").Set("state", s.String())
		switch s {
		case ambient.Active:
			btn.Set("innerText", labelMute)
			btn.Get("classList").Call("add", "active")
		case ambient.Muted:
			btn.Set("innerText", labelResume)
			btn.Get("classList").Call("remove", "active")
		}
	}
	if panel == nil || s == ambient.Backgrounded {
		return
	}
	panel.Get("classList").Call("remove", "settings-hidden")
	panel.Get("classList").Call("add", "settings-visible")
	style := panel.Get("style")
	if s == ambient.Muted {
		style.Set("opacity", "0.5")
		style.Set("pointerEvents", "none")
	} else {
		style.Set("opacity", "1")
		style.Set("pointerEvents", "auto")
	}
}

func element(doc *js.Object, id string) *js.Object {
	el := doc.Call("getElementById", id)
	if el == nil || el == js.Undefined {
		return nil
	}
	return el
}
