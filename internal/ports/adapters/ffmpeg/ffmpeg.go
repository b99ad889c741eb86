package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dmelnik/verticut/internal/config"
	"github.com/dmelnik/verticut/internal/ports"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
	enc     config.Encoder
	log     zerolog.Logger
}

func New(ffmpegPath, ffprobePath string, enc config.Encoder, log zerolog.Logger) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{
		ffmpeg:  ffmpegPath,
		ffprobe: ffprobePath,
		enc:     enc,
		log:     log.With().Str("component", "ffmpeg").Logger(),
	}
}

// RenderClip pre-seeks the source to the clip window, runs the compiled
// filter program over it, and encodes the labeled output stream. The
// returned argv is the full command for diagnostics; it is valid whether or
// not the render succeeded.
func (a *Adapter) RenderClip(ctx context.Context, req ports.RenderRequest) ([]string, error) {
	filter := req.FilterComplex
	mapLabel := req.OutputLabel
	if req.BurnASS != "" {
		// Burn-in rides on the end of the compiled program so a single
		// filter_complex drives the whole render.
		filter += ";" + req.OutputLabel + "subtitles=" + escapeFilterPath(req.BurnASS) + "[vsub]"
		mapLabel = "[vsub]"
	}

	args := []string{
		"-y",
		"-ss", fmtSeconds(req.Start),
		"-to", fmtSeconds(req.End),
		"-i", req.Input,
		"-filter_complex", filter,
		"-map", mapLabel,
		"-map", "0:a?",
		"-c:v", a.enc.VideoCodec,
		"-preset", a.enc.Preset,
		"-crf", strconv.Itoa(a.enc.CRF),
		"-c:a", a.enc.AudioCodec,
		"-b:a", a.enc.AudioBitrate,
		req.Output,
	}
	command := append([]string{a.ffmpeg}, args...)

	a.log.Debug().Strs("command", command).Msg("rendering clip")
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return command, fmt.Errorf("ffmpeg render clip: %w\n%s", err, string(b))
	}
	return command, nil
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

func (a *Adapter) ProbeDimensions(ctx context.Context, path string) (int, int, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe dimensions: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("parse dimensions %q", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parse width %q: %w", parts[0], err)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parse height %q: %w", parts[1], err)
	}
	return w, h, nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	return p
}
