package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/alastorid/ytscribe/internal"
)

// cpCmd copies the transcript to the system clipboard instead of printing to stdout.
var cpCmd = &cobra.Command{
	Use:   "cp [URL or media file]",
	Short: "Copy a transcript to the clipboard",
	Example: `  # Copy a transcript to the clipboard
  ytscribe cp "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  ytscribe cp meeting.mp4

  # Copy the cleaned version
  ytscribe cp tAP1eZYEuKA --clean`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ApplyTranscriptionFlags(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)
		if err := app.CheckRequirements(); err != nil {
			return err
		}

		result, err := app.Transcribe(cmd.Context(), args[0], false)
		if err != nil {
			return err
		}

		text := result.Text
		if clean, _ := cmd.Flags().GetBool("clean"); clean {
			text = app.Clean(text)
		}

		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("copying transcript to clipboard: %w", err)
		}

		app.UI().Println("Transcript copied to clipboard")

		return nil
	},
}

func init() {
	internal.AddTranscriptionFlags(cpCmd)
	cpCmd.Flags().Bool("clean", false, "Clean the transcript before copying")
	rootCmd.AddCommand(cpCmd)
}
