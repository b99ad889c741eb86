package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dmelnik/verticut/internal/config"
	"github.com/dmelnik/verticut/internal/domain/filtergraph"
	"github.com/dmelnik/verticut/internal/ports"
	"github.com/dmelnik/verticut/internal/types"
)

type fakeRenderer struct {
	mu   sync.Mutex
	reqs []ports.RenderRequest
	fail error
}

func (f *fakeRenderer) RenderClip(_ context.Context, req ports.RenderRequest) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return []string{"ffmpeg", "-i", req.Input, req.Output}, f.fail
}

func testTranscript() types.Transcript {
	return types.Transcript{Segments: []types.TranscriptSegment{
		{
			SpeakerID: "A", Text: "hello there everyone watching", Start: 10, End: 13,
			Words: []types.Word{
				{Text: "hello", Start: 10.0, End: 10.5},
				{Text: "there", Start: 10.5, End: 11.0},
				{Text: "everyone", Start: 11.0, End: 12.0},
				{Text: "watching", Start: 12.0, End: 13.0},
			},
		},
		{SpeakerID: "B", Text: "indeed", Start: 13, End: 15},
	}}
}

func testSpeakers() []types.Speaker {
	return []types.Speaker{
		{ID: "A", Position: types.PositionLeft},
		{ID: "B", Position: types.PositionRight},
	}
}

func testInput(t *testing.T, video *fakeRenderer) (Usecase, Input) {
	t.Helper()
	uc := New(Deps{Video: video}, zerolog.Nop())
	return uc, Input{
		InputVideo: "in.mp4",
		RunID:      "run-1",
		Speakers:   testSpeakers(),
		Transcript: testTranscript(),
		Clips:      []types.ClipRequest{{ClipStart: 10, ClipEnd: 20, Title: "t"}},
		OutDir:     t.TempDir(),
		Profile:    config.Default(),
	}
}

func TestRun_ComposesClip(t *testing.T) {
	t.Parallel()

	video := &fakeRenderer{}
	uc, in := testInput(t, video)

	res, err := uc.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Manifest.Clips) != 1 {
		t.Fatalf("expected 1 manifest clip, got %d", len(res.Manifest.Clips))
	}
	mc := res.Manifest.Clips[0]
	if mc.Segments != 2 {
		t.Fatalf("expected 2 plan entries, got %d", mc.Segments)
	}
	if !strings.Contains(mc.FilterProgram, "concat=n=2:v=1:a=0[vout]") {
		t.Fatalf("filter program missing concat:\n%s", mc.FilterProgram)
	}
	if mc.File != "clips/001.mp4" {
		t.Fatalf("unexpected clip path: %s", mc.File)
	}
	if len(mc.Command) == 0 {
		t.Fatalf("command trace missing from manifest")
	}
	if len(video.reqs) != 1 {
		t.Fatalf("expected 1 render, got %d", len(video.reqs))
	}
	if video.reqs[0].Start != 10 || video.reqs[0].End != 20 {
		t.Fatalf("render window = [%v,%v], want [10,20]", video.reqs[0].Start, video.reqs[0].End)
	}

	// Subtitles written for the clip with word timestamps.
	if mc.Subtitles != "subtitles/001.ass" {
		t.Fatalf("unexpected subtitles path: %s", mc.Subtitles)
	}
	if _, err := os.Stat(filepath.Join(in.OutDir, "subtitles", "001.ass")); err != nil {
		t.Fatalf("subtitle file not written: %v", err)
	}
}

func TestRun_RejectsReversedClipBounds(t *testing.T) {
	t.Parallel()

	uc, in := testInput(t, &fakeRenderer{})
	in.Clips = []types.ClipRequest{{ClipStart: 20, ClipEnd: 10}}
	_, err := uc.Run(context.Background(), in)
	if !errors.Is(err, filtergraph.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRun_EmptyWindowStillRenders(t *testing.T) {
	t.Parallel()

	video := &fakeRenderer{}
	uc, in := testInput(t, video)
	in.Clips = []types.ClipRequest{{ClipStart: 100, ClipEnd: 110}}

	res, err := uc.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	mc := res.Manifest.Clips[0]
	if mc.Segments != 0 {
		t.Fatalf("expected empty plan, got %d entries", mc.Segments)
	}
	// Identity pass-through program, no concat, no subtitles.
	if strings.Contains(mc.FilterProgram, "concat") || strings.Contains(mc.FilterProgram, "crop") {
		t.Fatalf("identity program expected:\n%s", mc.FilterProgram)
	}
	if mc.Subtitles != "" {
		t.Fatalf("no subtitles expected for empty window, got %s", mc.Subtitles)
	}
	if len(video.reqs) != 1 {
		t.Fatalf("empty window must still render, got %d renders", len(video.reqs))
	}
}

func TestRun_UnknownSpeakerSegmentsDropped(t *testing.T) {
	t.Parallel()

	video := &fakeRenderer{}
	uc, in := testInput(t, video)
	in.Speakers = []types.Speaker{{ID: "A", Position: types.PositionLeft}}

	res, err := uc.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := res.Manifest.Clips[0].Segments; got != 1 {
		t.Fatalf("expected 1 plan entry after dropping unknown speaker, got %d", got)
	}
}

func TestRun_ManifestOrderMatchesRequests(t *testing.T) {
	t.Parallel()

	video := &fakeRenderer{}
	uc, in := testInput(t, video)
	in.Clips = []types.ClipRequest{
		{ClipStart: 10, ClipEnd: 16},
		{ClipStart: 12, ClipEnd: 20},
		{ClipStart: 9, ClipEnd: 16},
	}
	in.Profile.Workers = 3

	res, err := uc.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Manifest.Clips) != 3 {
		t.Fatalf("expected 3 clips, got %d", len(res.Manifest.Clips))
	}
	for i, mc := range res.Manifest.Clips {
		if mc.StartSec != in.Clips[i].ClipStart {
			t.Fatalf("clip %d out of order: %+v", i, mc)
		}
	}
}

func TestRun_EmitStatesWritesTrack(t *testing.T) {
	t.Parallel()

	video := &fakeRenderer{}
	uc, in := testInput(t, video)
	in.EmitStates = true

	if _, err := uc.Run(context.Background(), in); err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(in.OutDir, "states", "001.json"))
	if err != nil {
		t.Fatalf("state track not written: %v", err)
	}
	for _, want := range []string{`"fps":30`, `"opacity"`, `"emphasized"`} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("state track missing %s:\n%s", want, string(b))
		}
	}
}

func TestRun_BurnSubtitlesPassesASSPath(t *testing.T) {
	t.Parallel()

	video := &fakeRenderer{}
	uc, in := testInput(t, video)
	in.BurnSubtitles = true

	if _, err := uc.Run(context.Background(), in); err != nil {
		t.Fatalf("run: %v", err)
	}
	if video.reqs[0].BurnASS == "" {
		t.Fatalf("expected burn-in subtitle path in render request")
	}
}
