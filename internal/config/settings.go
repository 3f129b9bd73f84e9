package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings are the GAMEDECK_* environment variables. They carry everything
// that belongs to the machine or the shell rather than the profile file,
// most importantly the OBS password override so the secret can stay out of
// version-controlled profiles.
type Settings struct {
	ConfigPath  string `env:"GAMEDECK_CONFIG"`
	LogLevel    string `env:"GAMEDECK_LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"GAMEDECK_LOG_FORMAT" envDefault:"text"`
	OBSPassword string `env:"GAMEDECK_OBS_PASSWORD"`
}

// LoadSettings reads the runtime settings from the environment.
func LoadSettings() (Settings, error) {
	var settings Settings
	if err := env.Parse(&settings); err != nil {
		return Settings{}, fmt.Errorf("loading environment settings: %w", err)
	}
	return settings, nil
}
