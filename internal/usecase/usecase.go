package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dmelnik/verticut/internal/config"
	"github.com/dmelnik/verticut/internal/domain/captions"
	"github.com/dmelnik/verticut/internal/domain/filtergraph"
	"github.com/dmelnik/verticut/internal/domain/framing"
	"github.com/dmelnik/verticut/internal/ports"
	"github.com/dmelnik/verticut/internal/timing"
	"github.com/dmelnik/verticut/internal/types"
)

type Deps struct {
	Video ports.VideoRenderer
}

type Usecase struct {
	d   Deps
	log zerolog.Logger
}

func New(d Deps, log zerolog.Logger) Usecase {
	return Usecase{d: d, log: log}
}

type Input struct {
	InputVideo string
	RunID      string
	Speakers   []types.Speaker
	Transcript types.Transcript
	Clips      []types.ClipRequest
	OutDir     string
	Profile    config.Profile
	// BurnSubtitles bakes the caption track into the rendered clip instead
	// of only writing the sidecar file.
	BurnSubtitles bool
	// EmitStates writes the per-frame word visual-state track consumed by
	// external compositing surfaces.
	EmitStates bool
}

type Result struct {
	Manifest types.Manifest
}

// Run composes and renders every requested clip. Clips are independent, so
// they render concurrently up to the profile's worker bound; manifest order
// still follows request order.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	for i, c := range in.Clips {
		if c.ClipEnd <= c.ClipStart {
			return Result{}, fmt.Errorf("%w: clip %d bounds [%.3f,%.3f)",
				filtergraph.ErrInvalidInput, i, c.ClipStart, c.ClipEnd)
		}
	}

	speakers := make(map[string]types.Speaker, len(in.Speakers))
	for _, s := range in.Speakers {
		speakers[s.ID] = s
	}

	planner := framing.NewPlanner(framing.PlannerOptions{
		ZoomTarget:  in.Profile.Zoom.Target,
		ZoomRampSec: in.Profile.Zoom.RampSeconds,
		FPS:         in.Profile.FPS,
	})
	fgOpts := filtergraph.Options{
		Width:  in.Profile.Canvas.Width,
		Height: in.Profile.Canvas.Height,
		FPS:    in.Profile.FPS,
	}

	results := make([]types.ManifestClip, len(in.Clips))

	workers := in.Profile.Workers
	if workers <= 0 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range in.Clips {
		i, c := i, c
		g.Go(func() error {
			mc, err := u.composeClip(gctx, in, c, i, planner, speakers, fgOpts)
			if err != nil {
				return fmt.Errorf("clip %s: %w", mc.ID, err)
			}
			results[i] = mc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	m := types.Manifest{Input: in.InputVideo, RunID: in.RunID, Clips: results}
	return Result{Manifest: m}, nil
}

func (u Usecase) composeClip(
	ctx context.Context,
	in Input,
	clip types.ClipRequest,
	idx int,
	planner *framing.Planner,
	speakers map[string]types.Speaker,
	fgOpts filtergraph.Options,
) (types.ManifestClip, error) {
	id := fmt.Sprintf("%03d", idx+1)
	mc := types.ManifestClip{
		ID:       id,
		StartSec: clip.ClipStart,
		EndSec:   clip.ClipEnd,
		Title:    clip.Title,
	}
	duration := clip.ClipEnd - clip.ClipStart

	selected := framing.Select(in.Transcript.Segments, clip.ClipStart, clip.ClipEnd)
	entries := planner.Compile(selected, speakers, clip.ClipStart)
	if dropped := len(selected) - len(entries); dropped > 0 {
		u.log.Warn().Str("clip", id).Int("segments", dropped).
			Msg("segments reference unknown speakers, dropped from crop plan")
	}

	program, err := filtergraph.Serialize(entries, duration, fgOpts)
	if err != nil {
		return mc, err
	}
	mc.FilterProgram = program.FilterComplex()
	mc.Segments = len(entries)

	lines := captions.Layout(selected)
	var assPath string
	if len(lines) > 0 {
		assPath = filepath.Join(in.OutDir, "subtitles", id+".ass")
		ass := captions.RenderASS(lines, clip.ClipStart, in.Profile.FPS)
		if err := writeFile(assPath, []byte(ass)); err != nil {
			return mc, err
		}
		mc.Subtitles = filepath.ToSlash(filepath.Join("subtitles", id+".ass"))
	}

	if in.EmitStates && len(lines) > 0 {
		if err := u.writeStateTrack(ctx, in, lines, clip, id, duration); err != nil {
			return mc, err
		}
	}

	outPath := filepath.Join(in.OutDir, "clips", id+".mp4")
	req := ports.RenderRequest{
		Input:         in.InputVideo,
		Start:         clip.ClipStart,
		End:           clip.ClipEnd,
		FilterComplex: mc.FilterProgram,
		OutputLabel:   program.OutputLabel(),
		Output:        outPath,
	}
	if in.BurnSubtitles {
		req.BurnASS = assPath
	}
	u.log.Info().Str("clip", id).Float64("duration", duration).
		Int("segments", len(entries)).Msg("rendering")
	command, err := u.d.Video.RenderClip(ctx, req)
	mc.Command = command
	if err != nil {
		return mc, err
	}
	mc.File = filepath.ToSlash(filepath.Join("clips", id+".mp4"))
	return mc, nil
}

// stateTrack is the per-frame word visual-state artifact for one clip.
// The frame clock is clip-local, matching the rendered output.
type stateTrack struct {
	FPS    int                          `json:"fps"`
	Frames int                          `json:"frames"`
	Words  []string                     `json:"words"`
	States [][]captions.WordVisualState `json:"states"`
}

func (u Usecase) writeStateTrack(ctx context.Context, in Input, lines []captions.Line, clip types.ClipRequest, id string, duration float64) error {
	var words []types.Word
	var texts []string
	for _, ln := range lines {
		for _, w := range ln.Words {
			// Rebase to the clip-local frame clock.
			words = append(words, types.Word{
				Text:  w.Text,
				Start: w.Start - clip.ClipStart,
				End:   w.End - clip.ClipStart,
			})
			texts = append(texts, w.Text)
		}
	}
	frames := timing.FramesIn(duration, in.Profile.FPS)
	states, err := captions.TrackStates(ctx, words, frames, in.Profile.FPS, in.Profile.Workers)
	if err != nil {
		return err
	}
	track := stateTrack{FPS: in.Profile.FPS, Frames: frames, Words: texts, States: states}
	b, err := json.Marshal(track)
	if err != nil {
		return fmt.Errorf("marshal state track: %w", err)
	}
	return writeFile(filepath.Join(in.OutDir, "states", id+".json"), b)
}

func writeFile(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
