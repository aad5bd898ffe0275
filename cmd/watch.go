package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/alastorid/ytscribe/internal"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and transcribe media files as they appear",
	Long: `Watch monitors a directory and runs the transcription pipeline for every
media file that shows up. Files are processed one at a time, and files
that already have a transcript are skipped.`,
	Example: `  # Transcribe everything dropped into ~/recordings
  ytscribe watch ~/recordings`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ApplyTranscriptionFlags(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)
		if err := app.CheckRequirements(); err != nil {
			return err
		}

		err := internal.NewWatcher(app).Run(cmd.Context(), args[0])
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	internal.AddTranscriptionFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}
