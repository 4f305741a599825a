package web

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrdg/cinva/ambient"
)

func TestActivationUnlocksOnClick(t *testing.T) {
	var order []string
	activated := make(chan struct{})
	release := make(chan struct{})
	onClick := activationHandler(
		func() ambient.State { return ambient.Inactive },
		func() { order = append(order, "unlock") },
		func(ctx context.Context) error {
			<-release
			close(activated)
			return nil
		},
	)

	onClick()
	require.Equal(t, []string{"unlock"}, order, "unlock must run before the handler returns")
	close(release)
	<-activated
}

func TestActivationSkipsUnlockOnceStarted(t *testing.T) {
	for _, s := range []ambient.State{ambient.Active, ambient.Muted} {
		unlocked := false
		done := make(chan struct{})
		onClick := activationHandler(
			func() ambient.State { return s },
			func() { unlocked = true },
			func(context.Context) error {
				close(done)
				return nil
			},
		)
		onClick()
		<-done
		require.False(t, unlocked, "unlock called in state %v", s)
	}
}
