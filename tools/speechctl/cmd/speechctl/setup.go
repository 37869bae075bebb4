package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"

	"github.com/lostredb/yandex-ai/pkg/config"
	"github.com/lostredb/yandex-ai/runtime/credentials"
	"github.com/lostredb/yandex-ai/runtime/logger"
	metrics "github.com/lostredb/yandex-ai/runtime/metrics/prometheus"
	"github.com/lostredb/yandex-ai/runtime/stt"
	"github.com/lostredb/yandex-ai/runtime/telemetry"
	"github.com/lostredb/yandex-ai/runtime/tts"
)

const (
	defaultServiceName = "speechctl"
	shutdownTimeout    = 5 * time.Second
)

// loadEnvFile loads a dotenv file without overriding variables already set.
// A missing default file is not an error; a missing explicit one is.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// session is everything a command needs to talk to SpeechKit.
type session struct {
	cfg      *config.SpeechConfig
	cred     *credentials.YandexCloud
	tracer   trace.TracerProvider
	closers  []func(context.Context) error
	exporter *metrics.Exporter
}

// loadConfig reads --config (or starts empty), then applies flag overrides.
func loadConfig() (*config.SpeechConfig, error) {
	var (
		cfg *config.SpeechConfig
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadSpeechConfig(configFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultSpeechConfig()
	}

	if folderID != "" {
		cfg.FolderID = folderID
	}
	if metricsAddr != "" {
		cfg.Metrics = &config.MetricsSpec{Addr: metricsAddr}
	}
	return cfg, nil
}

// newSession loads configuration and credentials and starts the optional
// tracing and metrics exporters. Missing credentials are fatal.
func newSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if cfg.Logging != nil {
		logger.Configure(&logger.LoggingConfigSpec{
			DefaultLevel: cfg.Logging.DefaultLevel,
			Format:       cfg.Logging.Format,
			CommonFields: cfg.Logging.CommonFields,
		})
		if verbose {
			logger.SetVerbose(true)
		}
	}

	cred, err := credentials.Resolve(credentials.ResolverConfig{
		FolderID:         cfg.FolderID,
		CredentialConfig: cfg.Credential,
		ConfigDir:        cfg.ConfigDir,
	})
	if err != nil {
		return nil, credentialHint(err)
	}

	s := &session{cfg: cfg, cred: cred}

	if cfg.Tracing != nil && cfg.Tracing.Endpoint != "" {
		name := cfg.Tracing.ServiceName
		if name == "" {
			name = defaultServiceName
		}
		tp, err := telemetry.NewTracerProvider(ctx, cfg.Tracing.Endpoint, name)
		if err != nil {
			return nil, fmt.Errorf("failed to set up tracing: %w", err)
		}
		telemetry.SetupPropagation()
		s.tracer = tp
		s.closers = append(s.closers, tp.Shutdown)
	}

	if cfg.Metrics != nil && cfg.Metrics.Addr != "" {
		s.exporter = metrics.NewExporter(cfg.Metrics.Addr)
		go func() {
			if err := s.exporter.Start(); err != nil {
				logger.Error("metrics exporter stopped", "addr", cfg.Metrics.Addr, "error", err)
			}
		}()
		logger.Info("serving metrics", "addr", cfg.Metrics.Addr)
		s.closers = append(s.closers, s.exporter.Shutdown)
	}

	return s, nil
}

// Close flushes spans and stops the exporter.
func (s *session) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			logger.Warn("shutdown failed", "error", err)
		}
	}
}

// sttOptions maps the stt section of the manifest to adapter options.
func sttOptions(cfg *config.SpeechConfig, tp trace.TracerProvider) []stt.YandexOption {
	var opts []stt.YandexOption
	if cfg.STT.BaseURL != "" {
		opts = append(opts, stt.WithYandexBaseURL(cfg.STT.BaseURL))
	}
	if cfg.STT.EmptyResultText != nil {
		opts = append(opts, stt.WithYandexEmptyResultText(*cfg.STT.EmptyResultText))
	}
	if tp != nil {
		opts = append(opts, stt.WithYandexTracerProvider(tp))
	}
	return opts
}

// ttsOptions maps the tts section of the manifest to adapter options.
func ttsOptions(cfg *config.SpeechConfig, tp trace.TracerProvider) ([]tts.YandexOption, error) {
	var opts []tts.YandexOption
	if cfg.TTS.BaseURL != "" {
		opts = append(opts, tts.WithYandexBaseURL(cfg.TTS.BaseURL))
	}

	transport, err := tts.ParseTransport(cfg.TTS.Transport)
	if err != nil {
		return nil, err
	}
	opts = append(opts, tts.WithYandexTransport(transport))

	if cfg.TTS.Sanitize != nil {
		opts = append(opts, tts.WithYandexSanitize(*cfg.TTS.Sanitize))
	}

	catalog, err := tts.CatalogByName(cfg.TTS.Catalog)
	if err != nil {
		return nil, err
	}
	opts = append(opts, tts.WithYandexCatalog(catalog))

	if tp != nil {
		opts = append(opts, tts.WithYandexTracerProvider(tp))
	}
	return opts, nil
}

// credentialHint adds a remedy to the common startup failure.
func credentialHint(err error) error {
	if errors.Is(err, credentials.ErrMissingFolderID) || errors.Is(err, credentials.ErrMissingAPIKey) {
		return fmt.Errorf("%w\nset FOLDER_ID and SK in the environment or a .env file, or use --config", err)
	}
	return err
}
