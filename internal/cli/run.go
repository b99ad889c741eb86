package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmelnik/verticut/internal/pipeline"
)

func run(cmd *cobra.Command, input string) error {
	speakers, _ := cmd.Flags().GetString("speakers")
	transcript, _ := cmd.Flags().GetString("transcript")
	clips, _ := cmd.Flags().GetString("clips")
	outDir, _ := cmd.Flags().GetString("out")
	profile, _ := cmd.Flags().GetString("profile")
	burn, _ := cmd.Flags().GetBool("burn")
	states, _ := cmd.Flags().GetBool("states")
	ffmpegPath, _ := cmd.Flags().GetString("ffmpeg")
	ffprobePath, _ := cmd.Flags().GetString("ffprobe")

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		InputVideo:     absIn,
		SpeakersPath:   speakers,
		TranscriptPath: transcript,
		ClipsPath:      clips,
		OutDir:         outDir,
		ProfilePath:    profile,
		BurnSubtitles:  burn,
		EmitStates:     states,

		FFmpegPath:  getenvDefault("FFMPEG_PATH", ffmpegPath),
		FFprobePath: getenvDefault("FFPROBE_PATH", ffprobePath),
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return pipeline.Run(ctx, cfg)
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
