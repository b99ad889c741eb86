// Package filtergraph models a clip render as a small filter AST and
// serializes it into a single filter_complex program for ffmpeg. Building
// and rendering are separate so the compilation logic stays independent of
// the engine's textual syntax.
package filtergraph

import (
	"fmt"
	"strings"
)

// Node is one logical filter stage. The closed set of variants mirrors the
// operations the render actually needs: trim, crop, zoom/pan, concat.
type Node interface {
	render(b *strings.Builder)
}

// Trim cuts the stream to [Start, End] seconds and resets its timestamps to
// zero so downstream stages and concat see a self-contained stream.
type Trim struct {
	Start float64
	End   float64
}

func (t Trim) render(b *strings.Builder) {
	fmt.Fprintf(b, "trim=start=%.3f:end=%.3f,setpts=PTS-STARTPTS", t.Start, t.End)
}

// Crop extracts a window from the frame. Fields are engine expressions, not
// pixel values, so the same program works for any source resolution.
type Crop struct {
	Width  string
	Height string
	X      string
	Y      string
}

func (c Crop) render(b *strings.Builder) {
	fmt.Fprintf(b, "crop=%s:%s:%s:%s", c.Width, c.Height, c.X, c.Y)
}

// ZoomPan applies a continuous magnification with a recentering pan,
// rescaling to the output canvas. d=1 keeps one output frame per input
// frame; the zoom/pan expressions are evaluated per frame by the engine.
type ZoomPan struct {
	Zoom   string
	X      string
	Y      string
	Width  int
	Height int
	FPS    int
}

func (z ZoomPan) render(b *strings.Builder) {
	fmt.Fprintf(b, "zoompan=z='%s':x='%s':y='%s':d=1:s=%dx%d:fps=%d",
		z.Zoom, z.X, z.Y, z.Width, z.Height, z.FPS)
}

// Chain is one labeled filter path from an input stream through its nodes.
type Chain struct {
	Input string
	Nodes []Node
	Label string
}

func (c Chain) render(b *strings.Builder) {
	b.WriteString(c.Input)
	for i, n := range c.Nodes {
		if i > 0 {
			b.WriteString(",")
		}
		n.render(b)
	}
	b.WriteString("[" + c.Label + "]")
}

// Concat joins previously labeled chains, in order, into one stream.
type Concat struct {
	Inputs []string
	Label  string
}

func (c Concat) render(b *strings.Builder) {
	for _, in := range c.Inputs {
		b.WriteString("[" + in + "]")
	}
	fmt.Fprintf(b, "concat=n=%d:v=1:a=0[%s]", len(c.Inputs), c.Label)
}

// Program is a complete, immutable filter program for one clip render.
type Program struct {
	Chains []Chain
	Concat *Concat
	// Output is the label of the final video stream, mapped by the caller.
	Output string
}

// FilterComplex renders the program in ffmpeg filter_complex syntax.
// Rendering is deterministic: identical programs serialize byte-identically.
func (p Program) FilterComplex() string {
	var b strings.Builder
	for i, c := range p.Chains {
		if i > 0 {
			b.WriteString(";")
		}
		c.render(&b)
	}
	if p.Concat != nil {
		b.WriteString(";")
		p.Concat.render(&b)
	}
	return b.String()
}

// OutputLabel returns the final stream label in map syntax, e.g. "[vout]".
func (p Program) OutputLabel() string {
	return "[" + p.Output + "]"
}
