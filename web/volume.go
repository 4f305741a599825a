package web

import "time"

// param is the part of a Tone.js Param the master volume is driven through.
// Times are in seconds on the audio context clock.
type param interface {
	cancelScheduledValues(at float64)
	setValueAtTime(db, at float64)
	rampTo(db, seconds float64)
}

// setVolume jumps to db at now. Events scheduled before now stay, so a ramp
// issued right after starts from db.
func setVolume(p param, db, now float64) {
	p.cancelScheduledValues(now)
	p.setValueAtTime(db, now)
}

// rampVolume ramps to db from wherever the level is now. rampTo holds the
// current value and drops later events itself.
func rampVolume(p param, db float64, d time.Duration) {
	p.rampTo(db, d.Seconds())
}
