package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/lostredb/yandex-ai/pkg/config"
	"github.com/lostredb/yandex-ai/runtime/logger"
	"github.com/lostredb/yandex-ai/runtime/stt"
	"github.com/lostredb/yandex-ai/runtime/tts"
)

const (
	defaultConcurrency = 4
	outputFileMode     = 0o600
	outputDirMode      = 0o750
)

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize",
	Short: "Synthesize speech from text or SSML",
	Long: `Sends each --text value to SpeechKit tts:synthesize and writes one audio
file per input into --out-dir. Inputs are processed concurrently, one
request per input; --rps paces the requests.

Examples:
  speechctl synthesize --text "Привет, мир" --voice jane --emotion good
  speechctl synthesize --ssml --text '<speak>Hello <break time="300ms"/> world</speak>'
  speechctl synthesize --text one --text two --format lpcm --sample-rate 16000 --wav
  speechctl synthesize --text "Привет" --transport query`,
	RunE: runSynthesizeCmd,
}

// synthesizeFlags are the synthesis flags; zero values defer to the manifest.
type synthesizeFlags struct {
	texts       []string
	ssml        bool
	voice       string
	emotion     string
	lang        string
	speed       float64
	format      string
	sampleRate  int
	transport   string
	catalog     string
	outDir      string
	wav         bool
	concurrency int
	rps         float64
}

var synthesizeOpts synthesizeFlags

func init() {
	rootCmd.AddCommand(synthesizeCmd)
	f := synthesizeCmd.Flags()
	f.StringArrayVarP(&synthesizeOpts.texts, "text", "t", nil, "text to synthesize (repeatable)")
	f.BoolVar(&synthesizeOpts.ssml, "ssml", false, "treat every --text value as SSML markup")
	f.StringVar(&synthesizeOpts.voice, "voice", "", "voice id, see 'speechctl voices'")
	f.StringVar(&synthesizeOpts.emotion, "emotion", "", "voice emotion (neutral, good, evil, friendly, strict, whisper)")
	f.StringVar(&synthesizeOpts.lang, "lang", "", "language tag, e.g. ru-RU")
	f.Float64Var(&synthesizeOpts.speed, "speed", 0, "speech rate, 0.1 to 3.0")
	f.StringVar(&synthesizeOpts.format, "format", "", "output format: lpcm, oggopus or mp3")
	f.IntVar(&synthesizeOpts.sampleRate, "sample-rate", 0, "sample rate for lpcm: 8000, 16000 or 48000")
	f.StringVar(&synthesizeOpts.transport, "transport", "", "wire contract: form or query")
	f.StringVar(&synthesizeOpts.catalog, "catalog", "", "voice catalog: full or basic")
	f.StringVarP(&synthesizeOpts.outDir, "out-dir", "o", ".", "directory for the audio files")
	f.BoolVar(&synthesizeOpts.wav, "wav", false, "wrap lpcm output in a WAV header")
	f.IntVar(&synthesizeOpts.concurrency, "concurrency", defaultConcurrency, "maximum requests in flight")
	f.Float64Var(&synthesizeOpts.rps, "rps", 0, "maximum requests per second (0 = unlimited)")
	_ = synthesizeCmd.MarkFlagRequired("text")
}

func runSynthesizeCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	flags := synthesizeOpts
	applyTTSFlags(&sess.cfg.TTS, flags)

	opts, err := ttsOptions(sess.cfg, sess.tracer)
	if err != nil {
		return err
	}
	service := tts.NewYandex(sess.cred, opts...)

	inputs := buildInputs(flags.texts, sess.cfg.TTS.Input)
	paths, err := synthesizeAll(ctx, service, inputs, synthesisOptions(sess.cfg.TTS), batchConfig{
		outDir:      flags.outDir,
		wav:         flags.wav,
		concurrency: flags.concurrency,
		rps:         flags.rps,
	})
	for _, p := range paths {
		if p != "" {
			printf(cmd, "%s\n", p)
		}
	}
	return err
}

// applyTTSFlags overrides manifest values with the flags the user set.
func applyTTSFlags(spec *config.TTSSpec, flags synthesizeFlags) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&spec.Voice, flags.voice)
	set(&spec.Emotion, flags.emotion)
	set(&spec.Lang, flags.lang)
	set(&spec.Format, flags.format)
	set(&spec.Transport, flags.transport)
	set(&spec.Catalog, flags.catalog)
	if flags.speed != 0 {
		spec.Speed = flags.speed
	}
	if flags.sampleRate != 0 {
		spec.SampleRateHertz = flags.sampleRate
	}
	if flags.ssml {
		spec.Input = string(tts.InputSSML)
	}
}

func buildInputs(texts []string, kind string) []tts.Input {
	inputs := make([]tts.Input, len(texts))
	for i, text := range texts {
		if tts.InputKind(kind) == tts.InputSSML {
			inputs[i] = tts.SSMLInput(text)
		} else {
			inputs[i] = tts.TextInput(text)
		}
	}
	return inputs
}

func synthesisOptions(spec config.TTSSpec) tts.SynthesisOptions {
	return tts.SynthesisOptions{
		Voice:           spec.Voice,
		Emotion:         spec.Emotion,
		Lang:            spec.Lang,
		Speed:           spec.Speed,
		Format:          spec.Format,
		SampleRateHertz: spec.SampleRateHertz,
	}
}

type batchConfig struct {
	outDir      string
	wav         bool
	concurrency int
	rps         float64
}

// synthesizeAll runs one DoGenerate per input, at most concurrency at a time,
// paced by rps. paths[i] is the file written for inputs[i], empty if it failed.
// The first error cancels the inputs not yet sent.
//
//nolint:gocritic // hugeParam: SynthesisOptions is copied into every call anyway
func synthesizeAll(
	ctx context.Context, model tts.SpeechModel, inputs []tts.Input, opts tts.SynthesisOptions, batch batchConfig,
) ([]string, error) {
	if err := os.MkdirAll(batch.outDir, outputDirMode); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if batch.rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(batch.rps), 1)
	}

	g, gctx := errgroup.WithContext(ctx)
	if batch.concurrency > 0 {
		g.SetLimit(batch.concurrency)
	}

	paths := make([]string, len(inputs))
	ext := fileExtension(opts.Format, batch.wav)

	for i, input := range inputs {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}

			result, err := model.DoGenerate(gctx, tts.SpeechCallOptions{Input: input, Options: opts})
			if err != nil {
				return fmt.Errorf("input %d: %w", i+1, err)
			}

			audio := result.Audio
			if batch.wav && isLPCM(opts.Format) {
				audio = stt.WrapPCMAsWAV(audio, sampleRateOrDefault(opts.SampleRateHertz), 1, 16)
			}

			path := filepath.Join(batch.outDir, fmt.Sprintf("speech-%03d%s", i+1, ext))
			if err := os.WriteFile(path, audio, outputFileMode); err != nil {
				return fmt.Errorf("input %d: failed to write %s: %w", i+1, path, err)
			}
			logger.DebugContext(gctx, "wrote synthesized audio", "path", path, "bytes", len(audio))
			paths[i] = path
			return nil
		})
	}

	return paths, g.Wait()
}

func isLPCM(format string) bool {
	return format == tts.FormatLPCM.Name
}

func fileExtension(format string, wav bool) string {
	switch format {
	case tts.FormatLPCM.Name:
		if wav {
			return ".wav"
		}
		return ".raw"
	case tts.FormatMP3.Name:
		return ".mp3"
	default:
		// SpeechKit defaults to oggopus
		return ".ogg"
	}
}

func sampleRateOrDefault(hz int) int {
	if hz == 0 {
		return tts.FormatLPCM.SampleRate
	}
	return hz
}
