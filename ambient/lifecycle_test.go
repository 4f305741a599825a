package ambient

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLifecycleTransitions(t *testing.T) {
	active := Lifecycle{state: Active}
	muted := Lifecycle{state: Muted}
	bgActive := Lifecycle{state: Backgrounded, prior: Active}
	bgMuted := Lifecycle{state: Backgrounded, prior: Muted}

	tests := []struct {
		name   string
		from   Lifecycle
		event  Event
		want   Lifecycle
		effect Effect
	}{
		{"activate from inactive", Lifecycle{}, EventActivate, active, EffectStart},
		{"activate while active", active, EventActivate, active, EffectNone},
		{"activate while muted", muted, EventActivate, muted, EffectNone},
		{"activate while backgrounded", bgActive, EventActivate, bgActive, EffectNone},
		{"toggle while inactive", Lifecycle{}, EventToggle, Lifecycle{}, EffectNone},
		{"mute", active, EventToggle, muted, EffectFadeOut},
		{"unmute", muted, EventToggle, active, EffectFadeIn},
		{"toggle while backgrounded", bgMuted, EventToggle, bgMuted, EffectNone},
		{"background active", active, EventBackground, bgActive, EffectSuspend},
		{"background muted", muted, EventBackground, bgMuted, EffectSuspend},
		{"background inactive", Lifecycle{}, EventBackground, Lifecycle{}, EffectNone},
		{"background twice", bgActive, EventBackground, bgActive, EffectNone},
		{"foreground to active", bgActive, EventForeground, active, EffectResumeFadeIn},
		{"foreground to muted", bgMuted, EventForeground, muted, EffectResume},
		{"foreground while active", active, EventForeground, active, EffectNone},
		{"foreground while inactive", Lifecycle{}, EventForeground, Lifecycle{}, EffectNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, effect := tt.from.Next(tt.event)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.effect, effect)
		})
	}
}

func TestStatePredicates(t *testing.T) {
	require.True(t, Active.Audible())
	require.False(t, Muted.Audible())
	require.False(t, Backgrounded.Audible())
	require.True(t, Muted.Running())
	require.False(t, Backgrounded.Running())
	require.False(t, Inactive.Running())
	require.Equal(t, "backgrounded", Backgrounded.String())
	require.Equal(t, "unknown", State(42).String())
}
