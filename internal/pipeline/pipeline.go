package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/dmelnik/verticut/internal/config"
	"github.com/dmelnik/verticut/internal/domain/filtergraph"
	"github.com/dmelnik/verticut/internal/logging"
	"github.com/dmelnik/verticut/internal/ports"
	"github.com/dmelnik/verticut/internal/ports/adapters/ffmpeg"
	"github.com/dmelnik/verticut/internal/types"
	"github.com/dmelnik/verticut/internal/usecase"
)

type Config struct {
	InputVideo     string
	SpeakersPath   string
	TranscriptPath string
	ClipsPath      string
	OutDir         string

	// ProfilePath points at an optional YAML render profile; empty means
	// the built-in defaults.
	ProfilePath string

	BurnSubtitles bool
	EmitStates    bool

	FFmpegPath  string
	FFprobePath string
}

func (c Config) Validate() error {
	if c.InputVideo == "" {
		return errors.New("input video is empty")
	}
	if _, err := os.Stat(c.InputVideo); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if c.SpeakersPath == "" {
		return errors.New("speakers file is required")
	}
	if c.TranscriptPath == "" {
		return errors.New("transcript file is required")
	}
	if c.ClipsPath == "" {
		return errors.New("clips file is required")
	}
	return nil
}

func Run(ctx context.Context, cfg Config) error {
	log := logging.WithComponent("pipeline")

	profile, err := config.Load(cfg.ProfilePath)
	if err != nil {
		return err
	}
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}

	var speakers []types.Speaker
	if err := readJSON(cfg.SpeakersPath, &speakers); err != nil {
		return fmt.Errorf("speakers: %w", err)
	}
	var transcript types.Transcript
	if err := readJSON(cfg.TranscriptPath, &transcript); err != nil {
		return fmt.Errorf("transcript: %w", err)
	}
	var clips []types.ClipRequest
	if err := readJSON(cfg.ClipsPath, &clips); err != nil {
		return fmt.Errorf("clips: %w", err)
	}
	if len(clips) == 0 {
		return errors.New("no clips requested")
	}

	adapter := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath, profile.Encoder, log)

	// Reject unusable sources before spending encoder time: the crop stage
	// carves a canvas-aspect window out of the source height, so a source
	// narrower than that window cannot be framed.
	sourceDur, err := adapter.ProbeDuration(ctx, cfg.InputVideo)
	if err != nil {
		return err
	}
	srcW, srcH, err := adapter.ProbeDimensions(ctx, cfg.InputVideo)
	if err != nil {
		return err
	}
	if err := validateSourceGeometry(srcW, srcH, profile.Canvas.Width, profile.Canvas.Height); err != nil {
		return err
	}
	log.Debug().Int("width", srcW).Int("height", srcH).
		Float64("duration", sourceDur).Msg("probed source")
	for i, c := range clips {
		if c.ClipStart < 0 || c.ClipEnd > sourceDur {
			return fmt.Errorf("%w: clip %d [%.3f,%.3f) escapes source of %.3fs",
				filtergraph.ErrInvalidInput, i, c.ClipStart, c.ClipEnd, sourceDur)
		}
	}

	runID := uuid.NewString()[:8]
	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	runOutDir := buildRunOutDir(outDir, cfg.InputVideo, time.Now().UTC(), runID)
	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return err
	}
	log.Info().Str("run", runID).Str("dir", runOutDir).
		Int("clips", len(clips)).Msg("starting render run")

	uc := usecase.New(usecase.Deps{Video: adapter}, logging.WithComponent("compose"))
	res, err := uc.Run(ctx, usecase.Input{
		InputVideo:    cfg.InputVideo,
		RunID:         runID,
		Speakers:      speakers,
		Transcript:    transcript,
		Clips:         clips,
		OutDir:        runOutDir,
		Profile:       profile,
		BurnSubtitles: cfg.BurnSubtitles,
		EmitStates:    cfg.EmitStates,
	})
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(res.Manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	manifestPath := filepath.Join(runOutDir, "manifest.json")
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return err
	}
	log.Info().Int("clips", len(res.Manifest.Clips)).
		Str("manifest", manifestPath).Msg("run complete")
	return nil
}

// validateSourceGeometry checks that a canvas-aspect crop window fits inside
// the source frame, i.e. srcW >= srcH * canvasW / canvasH.
func validateSourceGeometry(srcW, srcH, canvasW, canvasH int) error {
	if srcW <= 0 || srcH <= 0 {
		return fmt.Errorf("%w: source reports %dx%d", filtergraph.ErrInvalidInput, srcW, srcH)
	}
	if srcW*canvasH < srcH*canvasW {
		return fmt.Errorf("%w: source %dx%d is narrower than a %d:%d window of its height",
			filtergraph.ErrInvalidInput, srcW, srcH, canvasW, canvasH)
	}
	return nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func buildRunOutDir(outRoot, inputVideo string, now time.Time, runID string) string {
	name := strings.TrimSuffix(filepath.Base(inputVideo), filepath.Ext(inputVideo))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, runID))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// ensure the adapter satisfies the ports
var _ ports.VideoRenderer = (*ffmpeg.Adapter)(nil)
var _ ports.Prober = (*ffmpeg.Adapter)(nil)
