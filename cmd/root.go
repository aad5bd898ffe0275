package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alastorid/ytscribe/internal"
)

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytscribe [URL or media file]",
	Short: "Transcribe videos and local media to text",
	Long: `ytscribe turns a video URL or a local media file into a text transcript.

It wires yt-dlp, ffmpeg and whisper.cpp into a single pipeline: audio is
fetched or decoded, resampled to 16 kHz mono PCM, and fed to the speech
recognizer. The transcript lands in a deterministically named file
(yt<video-id>.txt for remote videos, <name>.txt for local files) and is
skipped entirely when it already exists.`,
	Example: `  # Transcribe a video by URL or ID
  ytscribe "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  ytscribe tAP1eZYEuKA

  # Transcribe a local recording
  ytscribe meeting.mp4

  # Force a language and more threads
  ytscribe talk.mkv --language de --threads 8

  # Drop silent passages first
  ytscribe podcast.mp3 --remove-silence`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return internal.HandleVerboseFlag(cmd, config)
	},
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ApplyTranscriptionFlags(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)
		if err := app.CheckRequirements(); err != nil {
			return err
		}

		result, err := app.Transcribe(cmd.Context(), args[0], true)
		if err != nil {
			return err
		}

		if result.Cached {
			app.UI().Printf("Transcript already exists: %s\n", result.Path)
		} else {
			app.UI().Printf("\nWrote %s\n", result.Path)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Create a cancellable context for the entire application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize configuration with Viper
	config = internal.InitConfig()

	// Ensure XDG directories exist
	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	// Ensure default config exists in XDG config directory
	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
	}

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Handle shutdown signal in a separate goroutine
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt signal. Cleaning up and shutting down...")

		// Cancel the main context to stop the pipeline processes
		cancel()

		// Create a context with timeout for cleanup operations
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cleanupCancel()

		cleanupDone := make(chan struct{})
		go func() {
			if err := internal.CleanupTempDir(config.TempDir); err != nil {
				fmt.Fprintf(os.Stderr, "Error cleaning up temporary files: %v\n", err)
			}
			close(cleanupDone)
		}()

		select {
		case <-cleanupDone:
		case <-cleanupCtx.Done():
			fmt.Fprintln(os.Stderr, "Warning: Cleanup timed out, forcing exit")
		}

		os.Exit(0)
	}()

	// Set context on root command
	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	internal.AddTranscriptionFlags(rootCmd)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress status output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}
