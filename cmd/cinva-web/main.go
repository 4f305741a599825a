//go:build js

// Command cinva-web is the browser build of the soundscape. Compile it with
// gopherjs and load the result after Tone.js.
package main

import (
	"github.com/gopherjs/gopherjs/js"

	"github.com/mrdg/cinva/ambient"
	"github.com/mrdg/cinva/web"
)

func main() {
	engine, err := web.NewEngine()
	if err != nil {
		panic(err)
	}
	store := ambient.NewStore(ambient.DefaultSettings())
	session := ambient.NewSession(engine, store)

	doc := js.Global.Get("document")
	if doc.Get("readyState").String() == "loading" {
		doc.Call("addEventListener", "DOMContentLoaded", func() {
			web.Bind(doc, engine, session)
		})
	} else {
		web.Bind(doc, engine, session)
	}
}
