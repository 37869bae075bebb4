package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lostredb/yandex-ai/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Work with SpeechConfig manifests",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a SpeechConfig manifest against its JSON schema",
	Long: `Validates the manifest against the embedded schema, then decodes it.

Examples:
  speechctl config validate speech.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateConfigFile(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
}

func validateConfigFile(cmd *cobra.Command, path string) error {
	//nolint:gosec // G304: path is the user's own config file
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	result, err := config.ValidateWithSchema(data)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid {
		printf(cmd, "❌ Schema validation failed for %s:\n", path)
		for _, e := range result.Errors {
			printf(cmd, "  - %s\n", e.Error())
		}
		return fmt.Errorf("schema validation failed with %d error(s)", len(result.Errors))
	}

	if _, err := config.ParseSpeechConfig(data); err != nil {
		return fmt.Errorf("config loading failed: %w", err)
	}

	printf(cmd, "✅ %s is valid\n", filepath.Base(path))
	return nil
}
