package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alastorid/ytscribe/internal"
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the required external tools are installed",
	Example: `  # Verify yt-dlp, ffmpeg and whisper are available
  ytscribe doctor`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.CheckTools(internal.RequiredTools(config)); err != nil {
			return err
		}

		fmt.Println("All required tools are available")

		if config.Engine == internal.EngineLocal {
			if err := internal.ValidateModel(config.ModelPath); err != nil {
				return err
			}
			fmt.Printf("Model: %s\n", config.ModelPath)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
