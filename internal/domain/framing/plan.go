package framing

import (
	"fmt"

	"github.com/dmelnik/verticut/internal/types"
)

// CropPlanEntry is the framing instruction for one selected segment, with
// times rebased to clip-local offsets. Expression fields use the media
// engine's per-frame variables (iw/ih/ow/on/zoom) so magnification stays
// continuous instead of being sampled per frame by us.
type CropPlanEntry struct {
	RelativeStart float64
	RelativeEnd   float64

	CropWidthExpr string
	CropXExpr     string
	ZoomExpr      string
	PanXExpr      string
	PanYExpr      string
	ZoomTarget    float64
}

// PlannerOptions tune the uniform ease-in zoom applied to every segment.
type PlannerOptions struct {
	ZoomTarget  float64 // final magnification, e.g. 1.1
	ZoomRampSec float64 // seconds from 1.0 to ZoomTarget
	FPS         int
}

func DefaultPlannerOptions() PlannerOptions {
	return PlannerOptions{ZoomTarget: 1.1, ZoomRampSec: 4, FPS: 30}
}

type Planner struct {
	opts PlannerOptions
}

func NewPlanner(opts PlannerOptions) *Planner {
	if opts.ZoomTarget < 1 {
		opts.ZoomTarget = 1
	}
	if opts.ZoomRampSec <= 0 {
		opts.ZoomRampSec = 4
	}
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	return &Planner{opts: opts}
}

// Compile maps each segment to a crop/zoom/pan entry driven by its speaker's
// position. A segment referencing an unknown speaker id is skipped rather
// than failing the render; upstream detection regularly emits ids the
// speaker pass never described. Output preserves input segment order, so
// RelativeStart values are non-decreasing whenever the input is ordered.
func (p *Planner) Compile(segments []types.TranscriptSegment, speakers map[string]types.Speaker, clipStart float64) []CropPlanEntry {
	var out []CropPlanEntry
	for _, seg := range segments {
		sp, ok := speakers[seg.SpeakerID]
		if !ok {
			continue
		}
		out = append(out, p.entryFor(seg, sp.Position, clipStart))
	}
	return out
}

func (p *Planner) entryFor(seg types.TranscriptSegment, pos types.SpeakerPosition, clipStart float64) CropPlanEntry {
	frac := centerFraction(pos)
	rampFrames := int(p.opts.ZoomRampSec * float64(p.opts.FPS))
	return CropPlanEntry{
		RelativeStart: seg.Start - clipStart,
		RelativeEnd:   seg.End - clipStart,

		// 9:16 window against full source height; x is clamped so side
		// positions never push the window off the frame.
		CropWidthExpr: "ih*9/16",
		CropXExpr:     fmt.Sprintf("min(max(iw*%s-ow/2,0),iw-ow)", trimFloat(frac)),

		// Linear ramp to the target over the ramp window, hold after. The
		// delta is written as (target-1) so the serialized expression stays
		// free of float64 subtraction noise.
		ZoomExpr: fmt.Sprintf("min(1+(%s-1)*on/%d,%s)",
			trimFloat(p.opts.ZoomTarget), rampFrames, trimFloat(p.opts.ZoomTarget)),

		// Offset by center*(1-1/zoom) keeps the crop center visually static
		// as magnification increases. The crop stage has already centered
		// the speaker, so both axes recenter on the cropped frame's middle.
		PanXExpr:   "(iw/2)*(1-1/zoom)",
		PanYExpr:   "(ih/2)*(1-1/zoom)",
		ZoomTarget: p.opts.ZoomTarget,
	}
}

func centerFraction(pos types.SpeakerPosition) float64 {
	switch pos {
	case types.PositionLeft:
		return 0.25
	case types.PositionRight:
		return 0.75
	default:
		// center and unknown both frame the geometric middle.
		return 0.5
	}
}

// trimFloat renders a float without trailing zeros so expressions stay
// byte-stable across runs.
func trimFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
