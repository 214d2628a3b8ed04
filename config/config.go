package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Service struct {
	URL string `mapstructure:"url"`
}

type Services struct {
	ASR          Service `mapstructure:"asr"`
	Embedding    Service `mapstructure:"embedding"`
	LanguageTool Service `mapstructure:"languagetool"`
}

type Server struct {
	Bind string `mapstructure:"bind"`
}

type Root struct {
	Pipeline struct {
		Name    string `mapstructure:"name"`
		Version string `mapstructure:"version"`
		LogLvl  string `mapstructure:"log_level"`
	} `mapstructure:"pipeline"`
	ASRProvider string   `mapstructure:"asr_provider"`
	Services    Services `mapstructure:"services"`
	Server      Server   `mapstructure:"server"`
	RubricFile  string   `mapstructure:"rubric_file"`
}

// Load reads config.yaml from ./config or the working directory, with
// INTROCOACH_* env overrides (e.g. INTROCOACH_SERVICES_ASR_URL).
func Load() (*Root, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("introcoach")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("pipeline.name", "intro-coach")
	v.SetDefault("pipeline.log_level", "info")
	v.SetDefault("asr_provider", "whisper-http")
	v.SetDefault("server.bind", ":8000")
	v.SetDefault("rubric_file", "")

	if err := v.ReadInConfig(); err != nil {
		// missing config file is fine, defaults and env carry it
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
