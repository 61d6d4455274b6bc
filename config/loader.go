package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoaderConfig holds optional file overrides for Load.
type LoaderConfig struct {
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct .env file path (optional)
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load reads configuration into cfg: YAML config file first, then .env,
// then environment variables. Missing files are not an error; defaults
// and validation are the caller's next step.
func Load(cfg *Config, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	if lc.ConfigFile == "" {
		lc.ConfigFile = findConfigFile()
	}
	if lc.EnvFile == "" {
		lc.EnvFile = findEnvFile()
	}

	v := viper.New()

	// 1. YAML config file (base configuration)
	if lc.ConfigFile != "" && fileExists(lc.ConfigFile) {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", lc.ConfigFile, err)
		}
	}

	// 2. .env file, loaded before env binding so its values are visible
	if lc.EnvFile != "" && fileExists(lc.EnvFile) {
		if err := godotenv.Load(lc.EnvFile); err != nil {
			return fmt.Errorf("config: load %s: %w", lc.EnvFile, err)
		}
	}

	// 3. Environment variables: CAPTIONS_DIARIZATION_BASE_URL etc.
	v.SetEnvPrefix(strings.ToUpper(ServiceName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindKeys(v, cfg)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal: %w", err)
	}
	return nil
}

// bindKeys makes AutomaticEnv see keys that only exist in the struct,
// not in any config file.
func bindKeys(v *viper.Viper, _ *Config) {
	keys := []string{
		"logging.level", "logging.format", "logging.output", "logging.no_color",
		"audio.sample_rate", "audio.chunk_millis",
		"diarization.provider", "diarization.base_url", "diarization.timeout",
		"diarization.tuning.duration", "diarization.tuning.step", "diarization.tuning.latency",
		"diarization.tuning.tau_active", "diarization.tuning.rho_update", "diarization.tuning.delta_new",
		"transcription.provider", "transcription.url", "transcription.model",
		"transcription.language", "transcription.timeout",
		"captioner.batch_size", "captioner.batch_timeout", "captioner.collar",
		"captioner.max_prompt_chars", "captioner.no_color",
		"serve.enabled", "serve.addr",
		"metrics.enabled", "metrics.endpoint", "metrics.interval",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

// findConfigFile searches standard locations for config.yml.
func findConfigFile() string {
	searchPaths := []string{
		fmt.Sprintf("./cmd/%s/config.yml", ServiceName),
		fmt.Sprintf("../cmd/%s/config.yml", ServiceName),
		"./config/config.yml",
		"./config.yml",
	}
	for _, path := range searchPaths {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// findEnvFile searches standard locations for a .env file.
func findEnvFile() string {
	searchPaths := []string{
		fmt.Sprintf(".env.%s", ServiceName),
		".env",
	}
	for _, path := range searchPaths {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
