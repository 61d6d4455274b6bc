// Command captions streams live diarized captions from an audio file or
// the microphone to the terminal, one color-coded line per speaker turn.
//
//	captions --input meeting.wav
//	captions --mic default --serve :8080
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gaelhpalmer/diarized-stt/audio"
	"github.com/Gaelhpalmer/diarized-stt/caption"
	"github.com/Gaelhpalmer/diarized-stt/captioner"
	"github.com/Gaelhpalmer/diarized-stt/config"
	"github.com/Gaelhpalmer/diarized-stt/diarization"
	"github.com/Gaelhpalmer/diarized-stt/diarization/diart"
	"github.com/Gaelhpalmer/diarized-stt/logger"
	"github.com/Gaelhpalmer/diarized-stt/observability"
	"github.com/Gaelhpalmer/diarized-stt/pipeline"
	"github.com/Gaelhpalmer/diarized-stt/server"
	"github.com/Gaelhpalmer/diarized-stt/sse"
	"github.com/Gaelhpalmer/diarized-stt/transcription"
	"github.com/Gaelhpalmer/diarized-stt/transcription/whisper"
	"github.com/Gaelhpalmer/diarized-stt/version"
)

type flags struct {
	configFile  string
	input       string
	mic         string
	serve       string
	noColor     bool
	showVersion bool
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configFile, "config", "", "path to config file")
	flag.StringVar(&f.input, "input", "", "audio file to caption")
	flag.StringVar(&f.mic, "mic", "", "capture device to caption instead of a file (e.g. \"default\")")
	flag.StringVar(&f.serve, "serve", "", "address to also publish captions over SSE (e.g. \":8080\")")
	flag.BoolVar(&f.noColor, "no-color", false, "disable terminal colors")
	flag.BoolVar(&f.showVersion, "version", false, "print version and exit")
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()

	if f.showVersion {
		fmt.Println(version.Get().String())
		return
	}

	if err := run(f); err != nil {
		logger.Error("exiting", logger.Fields(logger.FieldError, err.Error()))
		os.Exit(1)
	}
}

func run(f flags) error {
	var cfg config.Config
	var loadOpts []config.LoaderOption
	if f.configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(f.configFile))
	}
	if err := config.Load(&cfg, loadOpts...); err != nil {
		return err
	}
	cfg.ApplyDefaults()
	if f.noColor {
		cfg.Captioner.NoColor = true
	}
	if f.serve != "" {
		cfg.Serve.Enabled = true
		cfg.Serve.Addr = f.serve
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(cfg.Logging)
	log := logger.GetGlobalLogger().WithComponent("captions")
	log.Info("starting", logger.Fields("version", version.Get().Version))

	if f.input == "" && f.mic == "" {
		return fmt.Errorf("nothing to caption: pass --input FILE or --mic DEVICE")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if needsFFmpeg(f) {
		ver, err := audio.FFmpegVersion(ctx)
		if err != nil {
			return err
		}
		log.Debug("ffmpeg found", logger.Fields("banner", ver))
	}

	diarizer, transcriber, err := buildProviders(cfg)
	if err != nil {
		return err
	}
	checkAvailability(ctx, log, diarizer, transcriber)

	opts := []captioner.Option{
		captioner.WithColorizer(caption.NewColorizer(cfg.Captioner.NoColor)),
		captioner.WithLogger(log.WithComponent("captioner")),
	}

	if cfg.Metrics.Enabled {
		mc := observability.DefaultMeterConfig(config.ServiceName)
		mc.ServiceVersion = version.Get().Version
		mc.Endpoint = cfg.Metrics.Endpoint
		mc.Interval = cfg.Metrics.Interval
		mp, err := observability.InitMeter(ctx, &mc)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mp.Shutdown(shutdownCtx)
		}()
		pm, err := observability.NewPipelineMetrics(observability.Meter(config.ServiceName))
		if err != nil {
			return err
		}
		opts = append(opts, captioner.WithMetrics(pm))
	}

	if cfg.Serve.Enabled {
		hub := sse.NewHub()
		go hub.Run()
		defer hub.Stop()

		srv := server.New(server.Config{Addr: cfg.Serve.Addr}, log)
		registerRoutes(srv.GinEngine(), hub)
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() {
			_ = srv.Stop(context.Background())
		}()

		opts = append(opts, captioner.WithBroadcaster(hub))
	}

	c := captioner.New(diarizer, transcriber, captioner.Config{
		Window:         time.Duration(cfg.Diarization.Tuning.WindowDuration * float64(time.Second)),
		Step:           time.Duration(cfg.Diarization.Tuning.Step * float64(time.Second)),
		BatchSize:      cfg.Captioner.BatchSize,
		BatchTimeout:   cfg.Captioner.BatchTimeout,
		Collar:         cfg.Captioner.Collar,
		MaxPromptChars: cfg.Captioner.MaxPromptChars,
		Language:       cfg.Transcription.Language,
		Model:          cfg.Transcription.Model,
		Tuning:         cfg.Diarization.Tuning,
	}, opts...)

	err = c.Run(ctx, buildSource(f, cfg))
	if errors.Is(err, context.Canceled) {
		log.Info("stopped")
		return nil
	}
	return err
}

// buildSource picks the audio source: microphone, plain WAV, or anything
// else ffmpeg can decode.
func buildSource(f flags, cfg config.Config) *pipeline.Pipeline[audio.Chunk] {
	sc := audio.SourceConfig{
		SampleRate:   cfg.Audio.SampleRate,
		ChunkSamples: cfg.Audio.SampleRate * cfg.Audio.ChunkMillis / 1000,
	}
	switch {
	case f.mic != "":
		return audio.MicSource(f.mic, sc)
	case isWAV(f.input):
		return audio.FileSource(f.input, sc)
	default:
		return audio.FFmpegSource(f.input, sc)
	}
}

func isWAV(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".wav")
}

// needsFFmpeg reports whether the selected source shells out to ffmpeg.
func needsFFmpeg(f flags) bool {
	return f.mic != "" || (f.input != "" && !isWAV(f.input))
}

func buildProviders(cfg config.Config) (diarization.Provider, transcription.Provider, error) {
	dreg := diarization.NewRegistry()
	dreg.RegisterFactory(diart.ProviderName, diart.Factory())
	diarizer, err := dreg.Create(cfg.Diarization.Provider, map[string]any{
		"base_url": cfg.Diarization.BaseURL,
		"timeout":  cfg.Diarization.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}

	treg := transcription.NewRegistry()
	treg.RegisterFactory(whisper.ProviderName, whisper.Factory())
	transcriber, err := treg.Create(cfg.Transcription.Provider, map[string]any{
		"url":      cfg.Transcription.URL,
		"model":    cfg.Transcription.Model,
		"language": cfg.Transcription.Language,
		"timeout":  cfg.Transcription.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}
	return diarizer, transcriber, nil
}

// checkAvailability pings the sidecars once so a dead backend is reported
// before the first window, not as a mid-stream failure.
func checkAvailability(ctx context.Context, log *logger.Logger, providers ...interface {
	Name() string
	IsAvailable(context.Context) bool
}) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	for _, p := range providers {
		if !p.IsAvailable(pingCtx) {
			log.Warn("backend not reachable yet", logger.Fields(logger.FieldProvider, p.Name()))
		}
	}
}

func registerRoutes(r *gin.Engine, hub *sse.Hub) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": version.Get().Version,
			"clients": hub.ClientCount(),
		})
	})
	r.GET("/events", sse.Handler(hub))
}
