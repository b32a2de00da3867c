package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Model    ModelConfig
	CORS     CORSConfig
	Training TrainingConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

type ModelConfig struct {
	Path string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type TrainingConfig struct {
	DatasetPath string
	TestSize    float64
	RandomSeed  int64
	MaxIter     int
	C           float64
}

type LoggerConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	return LoadWithFlags(nil)
}

// LoadWithFlags reads configuration from the environment, letting any flag
// that was set on the command line take precedence. Flag names are the
// lower-case, dash-separated form of the environment key (model-path for
// MODEL_PATH).
func LoadWithFlags(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8000)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("MODEL_PATH", "models/diabetes_model.json")
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5500", "http://127.0.0.1:5500"})
	v.SetDefault("DATASET_PATH", "diabetes.csv")
	v.SetDefault("TRAIN_TEST_SIZE", 0.2)
	v.SetDefault("TRAIN_RANDOM_SEED", 42)
	v.SetDefault("TRAIN_MAX_ITER", 1000)
	v.SetDefault("TRAIN_C", 1.0)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("LOGGER_FILE", "")
	v.SetDefault("LOGGER_MAX_SIZE_MB", 100)
	v.SetDefault("LOGGER_MAX_BACKUPS", 3)
	v.SetDefault("LOGGER_MAX_AGE_DAYS", 28)

	// Env
	v.AutomaticEnv()

	// Flags
	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if !f.Changed || bindErr != nil {
				return
			}
			key := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			bindErr = v.BindPFlag(key, f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("bind flags: %w", bindErr)
		}
	}

	shutdownTimeout, err := time.ParseDuration(v.GetString("SERVER_SHUTDOWN_TIMEOUT"))
	if err != nil {
		shutdownTimeout = 10 * time.Second
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: shutdownTimeout,
		},
		Model: ModelConfig{
			Path: v.GetString("MODEL_PATH"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetStringSlice("CORS_ALLOWED_ORIGINS")),
		},
		Training: TrainingConfig{
			DatasetPath: v.GetString("DATASET_PATH"),
			TestSize:    v.GetFloat64("TRAIN_TEST_SIZE"),
			RandomSeed:  v.GetInt64("TRAIN_RANDOM_SEED"),
			MaxIter:     v.GetInt("TRAIN_MAX_ITER"),
			C:           v.GetFloat64("TRAIN_C"),
		},
		Logger: LoggerConfig{
			Level:      v.GetString("LOGGER_LEVEL"),
			Format:     v.GetString("LOGGER_FORMAT"),
			File:       v.GetString("LOGGER_FILE"),
			MaxSizeMB:  v.GetInt("LOGGER_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOGGER_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOGGER_MAX_AGE_DAYS"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks the settings both binaries read. Process-specific
// settings are checked by ValidateServer and ValidateTrainer, so a bad value
// for one binary never stops the other.
func (c *Config) validate() error {
	if c.Model.Path == "" {
		return errors.New("MODEL_PATH must not be empty")
	}
	return nil
}

// ValidateServer checks the settings the inference service uses.
func (c *Config) ValidateServer() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT out of range: %d", c.Server.Port))
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must list at least one origin"))
	}
	return errors.Join(errs...)
}

// ValidateTrainer checks the settings the offline trainer uses.
func (c *Config) ValidateTrainer() error {
	var errs []error
	if c.Training.DatasetPath == "" {
		errs = append(errs, errors.New("DATASET_PATH must not be empty"))
	}
	if c.Training.TestSize <= 0 || c.Training.TestSize >= 1 {
		errs = append(errs, fmt.Errorf("TRAIN_TEST_SIZE must be in (0, 1), got %v", c.Training.TestSize))
	}
	if c.Training.MaxIter <= 0 {
		errs = append(errs, fmt.Errorf("TRAIN_MAX_ITER must be positive, got %d", c.Training.MaxIter))
	}
	if c.Training.C <= 0 {
		errs = append(errs, fmt.Errorf("TRAIN_C must be positive, got %v", c.Training.C))
	}
	return errors.Join(errs...)
}

// splitList accepts both repeated values and a single comma-separated env value.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
