package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmelnik/verticut/internal/domain/filtergraph"
	"github.com/dmelnik/verticut/internal/types"
)

func TestBuildRunOutDir(t *testing.T) {
	now := time.Date(2026, 8, 24, 10, 30, 45, 1234, time.UTC)
	got := buildRunOutDir("out", "/tmp/My Cool.Podcast.mp4", now, "ab12cd34")
	if filepath.Dir(got) != "out" {
		t.Fatalf("unexpected parent dir: %s", got)
	}
	if base := filepath.Base(got); base != "my-cool-podcast-20260824-103045Z-ab12cd34" {
		t.Fatalf("unexpected run dir format: %s", base)
	}
}

func TestBuildRunOutDir_EmptyName(t *testing.T) {
	now := time.Date(2026, 8, 24, 10, 30, 45, 0, time.UTC)
	got := buildRunOutDir("out", "/tmp/___.mp4", now, "ab12cd34")
	if !strings.HasPrefix(filepath.Base(got), "input-") {
		t.Fatalf("expected fallback name, got %s", got)
	}
}

func TestNormalizePathSegment(t *testing.T) {
	tests := map[string]string{
		"  My Cool.Video  ": "my-cool-video",
		"___":               "",
		"abc123":            "abc123",
		"Name (v2)!":        "name-v2",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := normalizePathSegment(in); got != want {
				t.Fatalf("normalizePathSegment(%q) = %q, want %q", in, got, want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty input", func(c *Config) { c.InputVideo = "" }},
		{"missing input file", func(c *Config) { c.InputVideo = filepath.Join(t.TempDir(), "nope.mp4") }},
		{"no speakers", func(c *Config) { c.SpeakersPath = "" }},
		{"no transcript", func(c *Config) { c.TranscriptPath = "" }},
		{"no clips", func(c *Config) { c.ClipsPath = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig(t)
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	cfg := validConfig(t)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateSourceGeometry(t *testing.T) {
	cases := []struct {
		name       string
		srcW, srcH int
		wantErr    bool
	}{
		{"landscape 16:9", 1920, 1080, false},
		{"square", 1080, 1080, false},
		{"exactly the crop window", 1080, 1920, false},
		{"portrait narrower than window", 1079, 1920, true},
		{"portrait 9:21", 1080, 2520, true},
		{"zero width", 0, 1080, true},
		{"zero height", 1920, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateSourceGeometry(tc.srcW, tc.srcH, 1080, 1920)
			if tc.wantErr {
				if !errors.Is(err, filtergraph.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput for %dx%d, got %v", tc.srcW, tc.srcH, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("rejected usable source %dx%d: %v", tc.srcW, tc.srcH, err)
			}
		})
	}
}

func TestReadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clips.json")
	writeTestFile(t, path, `[{"clip_start": 10, "clip_end": 20, "title": "t"}]`)

	var clips []types.ClipRequest
	if err := readJSON(path, &clips); err != nil {
		t.Fatalf("readJSON: %v", err)
	}
	if len(clips) != 1 || clips[0].ClipStart != 10 || clips[0].ClipEnd != 20 {
		t.Fatalf("unexpected clips: %+v", clips)
	}

	bad := filepath.Join(dir, "bad.json")
	writeTestFile(t, bad, "{nope")
	if err := readJSON(bad, &clips); err == nil {
		t.Fatalf("expected parse error for malformed JSON")
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func validConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	video := filepath.Join(dir, "in.mp4")
	writeTestFile(t, video, "")
	return Config{
		InputVideo:     video,
		SpeakersPath:   filepath.Join(dir, "speakers.json"),
		TranscriptPath: filepath.Join(dir, "transcript.json"),
		ClipsPath:      filepath.Join(dir, "clips.json"),
	}
}
