package renderer

import (
	"image/color"
)

const (
	// blankDetectWindowFrames bounds the detection to the start of a
	// session; an established backend that worked for 180 frames is
	// trusted afterwards.
	blankDetectWindowFrames = 180
	// blankDetectThreshold is the run of consecutive near-clear samples
	// required before the backend is declared silently broken.
	blankDetectThreshold = 45
	// blankDetectTolerance is the per-channel distance from the clear
	// color under which a sample still counts as blank.
	blankDetectTolerance = 3
)

// PixelSampler reads back a pixel of the last presented frame.
type PixelSampler interface {
	SamplePixel(x, y int) (color.RGBA, bool)
}

// BlankWatchdog detects a hardware backend that initializes fine but
// silently presents nothing but the clear color. Some drivers fail this
// way without any API error, so an empirical pixel probe is the only
// reliable signal. Firing is one-shot per session.
type BlankWatchdog struct {
	frame   int
	counter int
	fired   bool
}

func NewBlankWatchdog() *BlankWatchdog {
	return &BlankWatchdog{}
}

// nearClear reports whether the sample is within tolerance of the clear
// color on every channel.
func nearClear(c color.RGBA) bool {
	return channelNear(c.R, ClearR) && channelNear(c.G, ClearG) && channelNear(c.B, ClearB)
}

func channelNear(got, want uint8) bool {
	d := int(got) - int(want)
	if d < 0 {
		d = -d
	}
	return d <= blankDetectTolerance
}

// ObserveFrame feeds one frame into the state machine and reports
// whether the software fallback should be triggered now. It samples a
// fixed background pixel through the given sampler. Frames where the
// overlay produced no geometry, or where the sampler cannot read back,
// neither advance nor reset the counter.
func (w *BlankWatchdog) ObserveFrame(sampler PixelSampler, x, y int, overlayPresent bool) bool {
	if w.fired || w.frame >= blankDetectWindowFrames {
		return false
	}
	w.frame++

	if !overlayPresent {
		return false
	}
	c, ok := sampler.SamplePixel(x, y)
	if !ok {
		return false
	}

	if nearClear(c) {
		w.counter++
	} else {
		w.counter = 0
	}

	if w.counter >= blankDetectThreshold {
		w.fired = true
		return true
	}
	return false
}

// Fired reports whether the one-shot fallback has already happened.
func (w *BlankWatchdog) Fired() bool {
	return w.fired
}
