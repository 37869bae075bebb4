package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lostredb/yandex-ai/pkg/config"
	"github.com/lostredb/yandex-ai/runtime/audio"
	"github.com/lostredb/yandex-ai/runtime/logger"
	"github.com/lostredb/yandex-ai/runtime/stt"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Recognize speech in an audio file and print the text",
	Long: `Sends the file to SpeechKit stt:recognize and prints the recognized text.

WAV files are unwrapped and sent as lpcm with the sample rate from their header,
resampled to the nearest accepted rate (8000, 16000, 48000) when needed.
.ogg and .opus files are sent as oggopus.

Examples:
  speechctl transcribe sample.ogg
  speechctl transcribe greeting.wav --lang ru-RU
  speechctl transcribe call.raw --format lpcm --sample-rate 8000 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribeCmd,
}

// transcribeFlags are the recognition flags; zero values defer to the manifest.
type transcribeFlags struct {
	lang       string
	format     string
	sampleRate int
	rawResults bool
	topic      string
	jsonOutput bool
}

var transcribeOpts transcribeFlags

func init() {
	rootCmd.AddCommand(transcribeCmd)
	transcribeCmd.Flags().StringVar(&transcribeOpts.lang, "lang", "", "language tag, e.g. ru-RU, or auto")
	transcribeCmd.Flags().StringVar(&transcribeOpts.format, "format", "", "audio encoding: lpcm or oggopus (detected from the extension when empty)")
	transcribeCmd.Flags().IntVar(&transcribeOpts.sampleRate, "sample-rate", 0, "sample rate for lpcm: 8000, 16000 or 48000")
	transcribeCmd.Flags().BoolVar(&transcribeOpts.rawResults, "raw-results", false, "ask for numbers spelled out as words")
	transcribeCmd.Flags().StringVar(&transcribeOpts.topic, "topic", "", "recognition model (topic) passthrough")
	transcribeCmd.Flags().BoolVar(&transcribeOpts.jsonOutput, "json", false, "print the whole result envelope as JSON")
}

func runTranscribeCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	service := stt.NewYandex(sess.cred, sttOptions(sess.cfg, sess.tracer)...)

	rawResults := sess.cfg.STT.RawResults
	if cmd.Flags().Changed("raw-results") {
		rawResults = &transcribeOpts.rawResults
	}
	opts := recognitionOptions(sess.cfg.STT, transcribeOpts, rawResults)

	return transcribeFile(ctx, cmd.OutOrStdout(), service, args[0], opts, transcribeOpts.jsonOutput)
}

// recognitionOptions merges manifest defaults with flags. Flags win.
func recognitionOptions(spec config.STTSpec, flags transcribeFlags, rawResults *bool) stt.RecognitionOptions {
	opts := stt.RecognitionOptions{
		Lang:            firstNonEmpty(flags.lang, spec.Lang),
		Format:          firstNonEmpty(flags.format, spec.Format),
		SampleRateHertz: spec.SampleRateHertz,
	}
	if flags.sampleRate != 0 {
		opts.SampleRateHertz = flags.sampleRate
	}
	if rawResults != nil {
		raw := *rawResults
		opts.RawResults = &raw
	}

	extra := make(map[string]string, len(spec.Extra)+1)
	for k, v := range spec.Extra {
		extra[k] = v
	}
	if flags.topic != "" {
		extra["topic"] = flags.topic
	}
	if len(extra) > 0 {
		opts.Extra = extra
	}
	return opts
}

// prepareAudio reads path and fills format and sample rate from the container.
func prepareAudio(path string, opts stt.RecognitionOptions) ([]byte, stt.RecognitionOptions, string, error) {
	//nolint:gosec // G304: path is the user's own input file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, opts, "", fmt.Errorf("failed to read audio file: %w", err)
	}

	mediaType := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		pcm, info, err := stt.ExtractPCMFromWAV(data)
		if err != nil {
			return nil, opts, "", fmt.Errorf("%s: %w", path, err)
		}
		if opts.Format != "" && opts.Format != stt.FormatLPCM {
			return nil, opts, "", fmt.Errorf("%s: WAV input is sent as lpcm, not %s", path, opts.Format)
		}
		if info.Channels != 1 || info.BitsPerSample != 16 {
			return nil, opts, "", fmt.Errorf("%s: need mono 16-bit PCM, got %d channel(s) at %d bits",
				path, info.Channels, info.BitsPerSample)
		}
		target := opts.SampleRateHertz
		if target == 0 {
			target = audio.NearestRate(info.SampleRate, stt.SupportedSampleRates)
		}
		if target != info.SampleRate {
			pcm, err = audio.ResamplePCM16(pcm, info.SampleRate, target)
			if err != nil {
				return nil, opts, "", fmt.Errorf("%s: %w", path, err)
			}
			logger.Debug("resampled WAV input", "from", info.SampleRate, "to", target)
		}
		data = pcm
		opts.Format = stt.FormatLPCM
		opts.SampleRateHertz = target
		mediaType = "audio/wav"
	case ".ogg", ".opus", ".oga":
		if opts.Format == "" {
			opts.Format = stt.FormatOggOpus
		}
		mediaType = "audio/ogg"
	}
	return data, opts, mediaType, nil
}

// transcribeFile recognizes one file and prints the text, or the JSON envelope.
func transcribeFile(
	ctx context.Context, w io.Writer, model stt.TranscriptionModel, path string,
	opts stt.RecognitionOptions, jsonOutput bool,
) error {
	audio, opts, mediaType, err := prepareAudio(path, opts)
	if err != nil {
		return err
	}

	result, err := model.DoGenerate(ctx, stt.TranscriptionCallOptions{
		Audio:     audio,
		MediaType: mediaType,
		Options:   opts,
	})
	if err != nil {
		var tErr *stt.TranscriptionError
		if errors.As(err, &tErr) && tErr.StatusCode != 0 {
			return fmt.Errorf("recognition failed: %w\n%s", err, tErr.Body)
		}
		return fmt.Errorf("recognition failed: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	_, err = fmt.Fprintln(w, result.Text)
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
