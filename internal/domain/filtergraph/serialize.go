package filtergraph

import (
	"errors"
	"fmt"

	"github.com/dmelnik/verticut/internal/domain/framing"
)

// ErrInvalidInput marks malformed compile input rejected before any program
// is emitted. Downstream engines fail unrecoverably (and expensively) on
// malformed programs, so these are hard preconditions, never repaired.
var ErrInvalidInput = errors.New("invalid input")

// Options fix the output canvas the zoom/pan stages rescale into.
type Options struct {
	Width  int
	Height int
	FPS    int
}

func DefaultOptions() Options {
	return Options{Width: 1080, Height: 1920, FPS: 30}
}

const (
	videoInput  = "[0:v]"
	outputLabel = "vout"
)

// Serialize builds the filter program for one clip: per entry, a trim/crop/
// zoompan chain with an ordinal label, then a concat of all labels in entry
// order. An empty entry list yields an identity pass-through of the full
// clip so the program is always well formed.
func Serialize(entries []framing.CropPlanEntry, clipDuration float64, opts Options) (Program, error) {
	if clipDuration <= 0 {
		return Program{}, fmt.Errorf("%w: clip duration %.3f must be positive", ErrInvalidInput, clipDuration)
	}
	if opts.Width <= 0 || opts.Height <= 0 || opts.FPS <= 0 {
		return Program{}, fmt.Errorf("%w: output canvas %dx%d@%d", ErrInvalidInput, opts.Width, opts.Height, opts.FPS)
	}
	for i, e := range entries {
		if e.RelativeEnd <= e.RelativeStart {
			return Program{}, fmt.Errorf("%w: entry %d interval [%.3f,%.3f] is empty or reversed",
				ErrInvalidInput, i, e.RelativeStart, e.RelativeEnd)
		}
		if e.RelativeStart < 0 || e.RelativeEnd > clipDuration {
			return Program{}, fmt.Errorf("%w: entry %d interval [%.3f,%.3f] escapes clip [0,%.3f]",
				ErrInvalidInput, i, e.RelativeStart, e.RelativeEnd, clipDuration)
		}
	}

	if len(entries) == 0 {
		return Program{
			Chains: []Chain{{
				Input: videoInput,
				Nodes: []Node{Trim{Start: 0, End: clipDuration}},
				Label: outputLabel,
			}},
			Output: outputLabel,
		}, nil
	}

	if len(entries) == 1 {
		return Program{
			Chains: []Chain{entryChain(entries[0], outputLabel, opts)},
			Output: outputLabel,
		}, nil
	}

	p := Program{Output: outputLabel}
	labels := make([]string, 0, len(entries))
	for i, e := range entries {
		label := fmt.Sprintf("v%d", i)
		labels = append(labels, label)
		p.Chains = append(p.Chains, entryChain(e, label, opts))
	}
	p.Concat = &Concat{Inputs: labels, Label: outputLabel}
	return p, nil
}

func entryChain(e framing.CropPlanEntry, label string, opts Options) Chain {
	return Chain{
		Input: videoInput,
		Nodes: []Node{
			Trim{Start: e.RelativeStart, End: e.RelativeEnd},
			Crop{Width: e.CropWidthExpr, Height: "ih", X: e.CropXExpr, Y: "0"},
			ZoomPan{
				Zoom:   e.ZoomExpr,
				X:      e.PanXExpr,
				Y:      e.PanYExpr,
				Width:  opts.Width,
				Height: opts.Height,
				FPS:    opts.FPS,
			},
		},
		Label: label,
	}
}
