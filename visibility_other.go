//go:build !unix

package main

import (
	"context"

	"github.com/mrdg/cinva/ambient"
)

// watchVisibility is a no-op where there are no user signals.
func watchVisibility(ctx context.Context, session *ambient.Session) {}
