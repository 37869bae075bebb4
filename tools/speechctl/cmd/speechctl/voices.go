package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lostredb/yandex-ai/runtime/tts"
)

var voicesCatalog string

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List synthesis voices and the emotions each supports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		catalog, err := tts.CatalogByName(voicesCatalog)
		if err != nil {
			return err
		}
		return printVoices(cmd.OutOrStdout(), catalog)
	},
}

func init() {
	rootCmd.AddCommand(voicesCmd)
	voicesCmd.Flags().StringVar(&voicesCatalog, "catalog", tts.CatalogFull, "voice catalog: full or basic")
}

func printVoices(w io.Writer, catalog *tts.VoiceCatalog) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "VOICE\tGENDER\tEMOTIONS")
	for _, v := range catalog.Voices() {
		emotions := make([]string, len(v.Emotions))
		for i, e := range v.Emotions {
			emotions[i] = string(e)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", v.ID, v.Gender, strings.Join(emotions, ", "))
	}
	return tw.Flush()
}
