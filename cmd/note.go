package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alastorid/ytscribe/internal"
)

// noteCmd represents the note command
var noteCmd = &cobra.Command{
	Use:   "note [URL or media file]",
	Short: "Transcribe, clean up, and deliver to the notes application",
	Long: `Note runs the full pipeline, cleans the transcript, and hands it to the
configured notes sink under a title built from the video's title and
upload date (or the file name and modification date for local media).

On macOS the sink is Apple Notes; the destination folder is created on
first use. Elsewhere the note is written as a markdown file under the
data directory.`,
	Example: `  # Transcribe and file the result in the notes app
  ytscribe note "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  ytscribe note interview.m4a

  # Render the note in the terminal instead of delivering it
  ytscribe note tAP1eZYEuKA --preview`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ApplyTranscriptionFlags(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)
		if err := app.CheckRequirements(); err != nil {
			return err
		}

		preview, _ := cmd.Flags().GetBool("preview")
		if !preview {
			return app.DeliverNote(cmd.Context(), args[0])
		}

		title, body, err := app.ComposeNote(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		rendered, err := internal.RenderMarkdown(fmt.Sprintf("# %s\n\n%s", title, body))
		if err != nil {
			return err
		}
		fmt.Println(rendered)
		return nil
	},
}

func init() {
	internal.AddTranscriptionFlags(noteCmd)
	noteCmd.Flags().Bool("preview", false, "Render the note in the terminal instead of delivering it")
	rootCmd.AddCommand(noteCmd)
}
