package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dmelnik/verticut/internal/logging"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	var verbose bool

	root := &cobra.Command{
		Use:          "verticut <input>",
		Short:        "Compose vertical clips from a horizontal source video",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	// Visible flags
	root.Flags().String("speakers", "", "Speakers JSON file (required)")
	root.Flags().String("transcript", "", "Transcript JSON file (required)")
	root.Flags().String("clips", "", "Clip requests JSON file (required)")
	root.Flags().String("out", "out", "Output directory")
	root.Flags().String("profile", "", "Render profile YAML (defaults built in)")
	root.Flags().Bool("burn", false, "Burn subtitles into the rendered clips")
	root.Flags().Bool("states", false, "Write per-frame word state tracks")

	// Hidden engine overrides (internal)
	root.Flags().String("ffmpeg", "", "ffmpeg binary path")
	root.Flags().String("ffprobe", "", "ffprobe binary path")
	_ = root.Flags().MarkHidden("ffmpeg")
	_ = root.Flags().MarkHidden("ffprobe")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
