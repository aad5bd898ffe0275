package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alastorid/ytscribe/internal"
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean [transcript file]",
	Short: "Strip annotations and filler words from a transcript",
	Long: `Clean removes bracketed timestamp/speaker annotations, the configured
filler tokens, and consecutive duplicate lines from a transcript file.
The operation is idempotent: cleaning already-cleaned text is a no-op.`,
	Example: `  # Print the cleaned transcript
  ytscribe clean ytdQw4w9WgXcQ.txt

  # Rewrite the file in place
  ytscribe clean ytdQw4w9WgXcQ.txt --in-place

  # Write to a different file
  ytscribe clean raw.txt -o cleaned.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading transcript: %w", err)
		}

		app := internal.NewApp(config)
		cleaned := app.Clean(string(data))

		inPlace, _ := cmd.Flags().GetBool("in-place")
		outputFile, _ := cmd.Flags().GetString("output")

		switch {
		case inPlace && outputFile != "":
			return fmt.Errorf("--in-place and --output are mutually exclusive")
		case inPlace:
			return os.WriteFile(path, []byte(cleaned+"\n"), 0644)
		case outputFile != "":
			return os.WriteFile(outputFile, []byte(cleaned+"\n"), 0644)
		}

		fmt.Println(cleaned)
		return nil
	},
}

func init() {
	cleanCmd.Flags().Bool("in-place", false, "Rewrite the transcript file in place")
	cleanCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	rootCmd.AddCommand(cleanCmd)
}
