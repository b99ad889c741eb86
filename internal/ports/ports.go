package ports

import "context"

// RenderRequest is one delegation to the media-processing engine: the
// source window to cut, the compiled filter program to run over it, and
// where the result lands. Times are absolute source seconds; the program's
// internal times are clip-local because the engine pre-seeks the input.
type RenderRequest struct {
	Input         string
	Start         float64
	End           float64
	FilterComplex string
	OutputLabel   string
	BurnASS       string
	Output        string
}

// VideoRenderer executes compiled filter programs. Implementations own all
// I/O and process supervision; the core never shells out itself.
type VideoRenderer interface {
	// RenderClip runs the program and returns the exact command invoked,
	// for diagnostics and manual replay.
	RenderClip(ctx context.Context, req RenderRequest) ([]string, error)
}

// Prober inspects source media before composition.
type Prober interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
	ProbeDimensions(ctx context.Context, path string) (width, height int, err error)
}
