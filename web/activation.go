package web

import (
	"context"
	"log"
	"time"

	"github.com/mrdg/cinva/ambient"
)

const startTimeout = 10 * time.Second

// activationHandler returns the click handler of the activation button. While
// the session is inactive a click calls unlock before returning, so the browser
// still counts the call as part of the gesture. activate blocks on promises and
// runs on its own goroutine.
func activationHandler(state func() ambient.State, unlock func(), activate func(context.Context) error) func() {
	return func() {
		if state() == ambient.Inactive {
			unlock()
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
			defer cancel()
			if err := activate(ctx); err != nil {
				log.Printf("audio: %v", err)
			}
		}()
	}
}
