package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lostredb/yandex-ai/runtime/logger"
	"github.com/lostredb/yandex-ai/runtime/version"
)

var (
	configFile  string
	envFile     string
	folderID    string
	metricsAddr string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:           "speechctl",
	Short:         "speechctl - Yandex SpeechKit recognition and synthesis from the command line",
	Version:       version.GetVersion(),
	SilenceUsage:  true,  // Don't print usage on error
	SilenceErrors: false, // Do print errors
	Long: `speechctl sends audio to Yandex SpeechKit for recognition and text or SSML
for synthesis, one request per input.

Credentials come from a SpeechConfig manifest (--config), a .env file, or the
environment: FOLDER_ID and SK.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnvFile(envFile, cmd.Flags().Changed("env-file")); err != nil {
			return err
		}
		if cmd.Flags().Changed("verbose") {
			logger.SetVerbose(verbose)
		}
		logger.Debug("speechctl starting", version.GetBuildInfo()...)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "SpeechConfig manifest (YAML)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&folderID, "folder-id", "", "Yandex Cloud folder id (overrides config and FOLDER_ID)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// setupVersion configures the version display
func setupVersion() {
	rootCmd.SetVersionTemplate(version.GetVersionInfo("speechctl") + "\n")
}

func Execute() {
	setupVersion()
	if err := rootCmd.Execute(); err != nil {
		// Error already printed by cobra
		os.Exit(1)
	}
}

func main() {
	Execute()
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
