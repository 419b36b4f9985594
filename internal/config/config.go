// Package config loads tool configuration from a yaml file, with flag values
// layered on top by the command layer.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/example/typecomment-gen/internal/convert"
)

// DefaultConfigName is the config file looked up in the working directory
// when no explicit path is given.
const DefaultConfigName = ".typecomment-gen"

// Config holds the settings that can come from a config file.
type Config struct {
	// Format forces a docstring convention instead of per-docstring detection.
	Format string `mapstructure:"format" validate:"omitempty,oneof=numpy google rest"`
	// DefaultReturnType annotates functions whose return is undocumented.
	DefaultReturnType string `mapstructure:"default_return_type"`
	// DefaultArgTypes maps parameter names to types used when a docstring
	// leaves them undocumented.
	DefaultArgTypes map[string]string `mapstructure:"default_arg_types"`
	Standardize     bool              `mapstructure:"standardize"`
	OutputDir       string            `mapstructure:"output_dir"`
	AddSuffix       string            `mapstructure:"add_suffix"`
	Jobs            int               `mapstructure:"jobs" validate:"min=1"`
}

var validate = validator.New()

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DefaultReturnType: "None",
		Jobs:              1,
	}
}

// Load reads configuration from path, or from ./.typecomment-gen.yaml when
// path is empty. A missing default file is not an error.
func Load(fs afero.Fs, path string) (Config, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetDefault("default_return_type", "None")
	v.SetDefault("jobs", 1)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("invalid config: field %s fails %q validation", f.Field(), f.Tag())
		}
		return err
	}
	return nil
}

// ConvertOptions maps the configuration onto converter options.
func (c Config) ConvertOptions() convert.Options {
	opts := convert.DefaultOptions()
	opts.Format = c.Format
	if c.DefaultReturnType != "" {
		opts.DefaultReturnType = c.DefaultReturnType
	}
	opts.DefaultArgTypes = c.DefaultArgTypes
	opts.Standardize = c.Standardize
	opts.OutputDir = c.OutputDir
	opts.AddSuffix = c.AddSuffix
	if c.Jobs > 0 {
		opts.Jobs = c.Jobs
	}
	return opts
}
