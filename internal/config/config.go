// Package config loads settings from flags, GEMINI_* environment variables
// and an optional .gemini.yml file.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/archterm/gemini/internal/gemini"
	"github.com/spf13/viper"
)

// Setting keys. Flags, config file entries and environment variables share
// these names; the environment form is GEMINI_ plus the key upper-cased with
// dashes turned into underscores.
const (
	KeyModel        = "model"
	KeyMaxTokens    = "max-tokens"
	KeyTemperature  = "temperature"
	KeyPersona      = "persona"
	KeyHistoryFile  = "history-file"
	KeyHistoryLines = "history-lines"
	KeyProviderURL  = "provider-url"
	KeySpinner      = "spinner"
	KeyDebug        = "debug"
)

const (
	// EnvPrefix is prepended to setting names when read from the environment.
	EnvPrefix = "GEMINI"
	// FileName is the config file name searched for, without extension.
	FileName = ".gemini"
)

// Settings is the resolved configuration for one run.
type Settings struct {
	Model        string
	MaxTokens    int
	Temperature  float32
	Persona      string
	HistoryFile  string
	HistoryLines int
	ProviderURL  string
	Spinner      bool
	Debug        bool
}

// SetDefaults registers default values for every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyModel, gemini.DefaultModel)
	v.SetDefault(KeyMaxTokens, gemini.DefaultMaxOutputTokens)
	v.SetDefault(KeyTemperature, gemini.DefaultTemperature)
	v.SetDefault(KeyPersona, gemini.DefaultPersona)
	v.SetDefault(KeyHistoryFile, "~/.bash_history")
	v.SetDefault(KeyHistoryLines, gemini.DefaultHistoryLines)
	v.SetDefault(KeyProviderURL, "")
	v.SetDefault(KeySpinner, true)
	v.SetDefault(KeyDebug, false)
}

// Init wires environment lookups into v and loads a config file. With an
// explicit configFile that file must exist. Otherwise .gemini.{yml,yaml,json}
// is searched for in the current directory and then the home directory;
// finding none is not an error. Init never creates files.
func Init(v *viper.Viper, configFile string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		return LoadWithEnvSubstitution(v, configFile)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("error finding home directory: %w", err)
	}

	// Current directory has higher priority than home directory.
	v.AddConfigPath(".")
	v.AddConfigPath(home)
	v.SetConfigName(FileName)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	configPath := v.ConfigFileUsed()
	if err := LoadWithEnvSubstitution(v, configPath); err != nil {
		return fmt.Errorf("error reading config file '%s': %w", configPath, err)
	}
	return nil
}

// LoadWithEnvSubstitution reads configPath, expands ${env://...} references
// and hands the result to v. Files ending in .json are parsed as JSON,
// everything else as YAML.
func LoadWithEnvSubstitution(v *viper.Viper, configPath string) error {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content := string(raw)
	if HasEnvVars(content) {
		content, err = ExpandEnv(content)
		if err != nil {
			return fmt.Errorf("config env substitution failed: %w", err)
		}
	}

	configType := "yaml"
	if strings.HasSuffix(configPath, ".json") {
		configType = "json"
	}
	v.SetConfigType(configType)
	return v.ReadConfig(strings.NewReader(content))
}

// FromViper resolves Settings from v.
func FromViper(v *viper.Viper) Settings {
	return Settings{
		Model:        v.GetString(KeyModel),
		MaxTokens:    v.GetInt(KeyMaxTokens),
		Temperature:  float32(v.GetFloat64(KeyTemperature)),
		Persona:      v.GetString(KeyPersona),
		HistoryFile:  v.GetString(KeyHistoryFile),
		HistoryLines: v.GetInt(KeyHistoryLines),
		ProviderURL:  v.GetString(KeyProviderURL),
		Spinner:      v.GetBool(KeySpinner),
		Debug:        v.GetBool(KeyDebug),
	}
}

// GeminiOptions converts s into options for gemini.NewClient.
func (s Settings) GeminiOptions() gemini.Options {
	return gemini.Options{
		Model:           s.Model,
		MaxOutputTokens: clampInt32(s.MaxTokens),
		Temperature:     s.Temperature,
		Persona:         s.Persona,
		HistoryPath:     s.HistoryFile,
		HistoryLines:    s.HistoryLines,
		BaseURL:         s.ProviderURL,
	}
}

// clampInt32 converts n to int32, saturating at the type's limits.
func clampInt32(n int) int32 {
	switch {
	case n > math.MaxInt32:
		return math.MaxInt32
	case n < math.MinInt32:
		return math.MinInt32
	}
	return int32(n)
}
