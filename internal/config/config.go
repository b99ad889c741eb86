// Package config holds the render profile: canvas geometry, frame rate,
// zoom behavior, and encoder settings. Values are environmental constants
// of the compositor, kept in one place so every stage agrees on them.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Canvas struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Zoom struct {
	Target      float64 `yaml:"target"`
	RampSeconds float64 `yaml:"ramp_seconds"`
}

type Encoder struct {
	VideoCodec   string `yaml:"video_codec"`
	Preset       string `yaml:"preset"`
	CRF          int    `yaml:"crf"`
	AudioCodec   string `yaml:"audio_codec"`
	AudioBitrate string `yaml:"audio_bitrate"`
}

type Profile struct {
	Canvas  Canvas  `yaml:"canvas"`
	FPS     int     `yaml:"fps"`
	Zoom    Zoom    `yaml:"zoom"`
	Encoder Encoder `yaml:"encoder"`
	// Workers bounds concurrent clip renders. Renders are independent, so
	// the only constraint is encoder CPU pressure.
	Workers int `yaml:"workers"`
}

// Default is the reference profile: 9:16 at 1080x1920, 30 fps, 1.1x zoom
// over 4 seconds.
func Default() Profile {
	return Profile{
		Canvas: Canvas{Width: 1080, Height: 1920},
		FPS:    30,
		Zoom:   Zoom{Target: 1.1, RampSeconds: 4},
		Encoder: Encoder{
			VideoCodec:   "libx264",
			Preset:       "veryfast",
			CRF:          18,
			AudioCodec:   "aac",
			AudioBitrate: "192k",
		},
		Workers: 2,
	}
}

// Load reads a YAML profile over the defaults. A missing path returns the
// defaults unchanged.
func Load(path string) (Profile, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	return p, nil
}

func (p Profile) Validate() error {
	if p.Canvas.Width <= 0 || p.Canvas.Height <= 0 {
		return fmt.Errorf("canvas %dx%d must be positive", p.Canvas.Width, p.Canvas.Height)
	}
	if p.FPS <= 0 {
		return errors.New("fps must be > 0")
	}
	if p.Zoom.Target < 1 {
		return fmt.Errorf("zoom target %v must be >= 1", p.Zoom.Target)
	}
	if p.Zoom.RampSeconds <= 0 {
		return errors.New("zoom ramp must be > 0")
	}
	if p.Workers <= 0 {
		return errors.New("workers must be > 0")
	}
	return nil
}
