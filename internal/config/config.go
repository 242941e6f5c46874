// Package config resolves the nbpublish run configuration from flags,
// environment variables and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/jmylchreest/nbpublish/pkg/cleaner/publish"
)

var (
	// ErrUsage is returned when no input files were given.
	ErrUsage = errors.New("no input files")

	// ErrConfig is returned for invalid option values.
	ErrConfig = errors.New("invalid configuration")
)

// Keys shared by the config file, NBPUBLISH_* environment variables and flags.
const (
	KeyTrimHistory         = "trim_history"
	KeyTrimServerSignature = "trim_server_signature"
	KeyClearOutput         = "clear_output"
	KeyTree                = "tree"
	KeyOutputDir           = "output_dir"
	KeyKeepGoing           = "keep_going"
	KeyReport              = "report"
	KeyReportFile          = "report_file"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "NBPUBLISH"

// Config is the resolved configuration of one run. It is not modified
// after Resolve returns.
type Config struct {
	TrimHistory         *int `mapstructure:"trim_history" validate:"omitnil,min=0"`
	TrimServerSignature *int `mapstructure:"trim_server_signature" validate:"omitnil,min=0"`
	ClearOutput         bool `mapstructure:"clear_output"`

	Tree      bool     `mapstructure:"tree"`
	OutputDir string   `mapstructure:"output_dir" validate:"required"`
	Inputs    []string `mapstructure:"inputs" validate:"min=1,dive,required"`

	// KeepGoing skips unreadable notebooks instead of aborting the run.
	KeepGoing bool `mapstructure:"keep_going"`

	Report     string `mapstructure:"report" validate:"omitempty,oneof=json jsonl yaml"`
	ReportFile string `mapstructure:"report_file"`
}

// Cleaner returns the cleaner settings of the run.
func (c *Config) Cleaner() *publish.Config {
	return &publish.Config{
		TrimHistory:         c.TrimHistory,
		TrimServerSignature: c.TrimServerSignature,
		ClearOutput:         c.ClearOutput,
	}
}

// Load reads the config file into v and enables environment lookup.
// An explicit path must exist; otherwise .nbpublish.yaml is looked up in
// the home and current directories and is optional.
func Load(v *viper.Viper, path string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("%w: reading config file %s: %v", ErrConfig, path, err)
		}
		return nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigName(".nbpublish")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return nil
}

// Resolve builds the run configuration from v and the positional arguments.
func Resolve(v *viper.Viper, inputs []string) (*Config, error) {
	if len(inputs) == 0 {
		return nil, ErrUsage
	}

	cfg := &Config{
		ClearOutput: v.GetBool(KeyClearOutput),
		Tree:        v.GetBool(KeyTree),
		OutputDir:   v.GetString(KeyOutputDir),
		Inputs:      append([]string(nil), inputs...),
		KeepGoing:   v.GetBool(KeyKeepGoing),
		Report:      strings.ToLower(v.GetString(KeyReport)),
		ReportFile:  v.GetString(KeyReportFile),
	}

	var err error
	if cfg.TrimHistory, err = optionalInt(v, KeyTrimHistory); err != nil {
		return nil, err
	}
	if cfg.TrimServerSignature, err = optionalInt(v, KeyTrimServerSignature); err != nil {
		return nil, err
	}

	if cfg.OutputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		cfg.OutputDir = wd
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// optionalInt returns nil when key was never set.
func optionalInt(v *viper.Viper, key string) (*int, error) {
	if !v.IsSet(key) {
		return nil, nil
	}
	n, err := cast.ToIntE(v.Get(key))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfig, key, err)
	}
	return &n, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	return v
}

// Validate checks cfg and wraps every failure in ErrConfig.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrConfig, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s: at least %s required", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be >= %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
