//go:build unix

package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"github.com/mrdg/cinva/ambient"
)

// watchVisibility maps SIGUSR1 to the window being hidden and SIGUSR2 to it being
// shown again, so a window manager or script can background the soundscape.
func watchVisibility(ctx context.Context, session *ambient.Session) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGUSR1, unix.SIGUSR2)
	go func() {
		defer signal.Stop(sigs)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigs:
				hidden := sig == unix.SIGUSR1
				if err := session.OnVisibilityChanged(ctx, hidden); err != nil {
					log.Printf("visibility: %v", err)
				}
			}
		}
	}()
}
