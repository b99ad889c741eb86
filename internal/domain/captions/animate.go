package captions

import (
	"github.com/dmelnik/verticut/internal/types"
)

// Animation constants, in frames at the render frame rate.
const (
	// FadeInFrames is the length of the opacity ramp starting at word start.
	FadeInFrames = 5
	// ScaleRampFrames is the length of the scale pop at the start of activity.
	ScaleRampFrames = 3
	// EmphasisScale is the scale a word holds while it is being spoken.
	EmphasisScale = 1.1
)

// WordVisualState is the rendered appearance of one word at one frame. It
// has no identity beyond the (word, frame) pair it was derived from.
type WordVisualState struct {
	Opacity    float64 `json:"opacity"`
	Scale      float64 `json:"scale"`
	Emphasized bool    `json:"emphasized"`
}

// StateAt computes the visual state of a word at the given frame. It is a
// pure function of (frame, word.Start, word.End): frames may be evaluated
// in any order or in parallel and retries always produce the same state.
//
// Opacity ramps linearly 0..1 over FadeInFrames beginning at word start,
// clamped to 0 before the ramp, and holds at 1 forever after: words persist
// once shown. While the word is being spoken it is emphasized and its scale
// ramps 1.0..EmphasisScale over the first ScaleRampFrames, then holds; the
// scale drops back to 1.0 the moment the word ends.
//
// Ramps are computed in frame units so boundary frames land exactly on 0
// and 1 instead of drifting with seconds-domain float error.
func StateAt(frame, fps int, w types.Word) WordVisualState {
	startFrame := w.Start * float64(fps)
	endFrame := w.End * float64(fps)
	f := float64(frame)

	st := WordVisualState{
		Opacity: clamp01((f - startFrame) / FadeInFrames),
		Scale:   1.0,
	}
	if f >= startFrame && f <= endFrame {
		st.Emphasized = true
		st.Scale = 1.0 + (EmphasisScale-1.0)*clamp01((f-startFrame)/ScaleRampFrames)
	}
	return st
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
