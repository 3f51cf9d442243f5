package config

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/azpdev/zshrcman/pkg/errors"
)

// EnvPrefix is the prefix for settings environment variables, e.g.
// ZSHRCMAN_COLOR=never.
const EnvPrefix = "ZSHRCMAN_"

// Settings are the user-tunable application settings. They layer as
// defaults < settings.toml < ZSHRCMAN_* environment, so the
// environment always wins.
type Settings struct {
	// DataDir overrides the XDG data directory when non-empty
	DataDir string `koanf:"data_dir"`

	// ConfigDir overrides the XDG config directory when non-empty
	ConfigDir string `koanf:"config_dir"`

	// Shell overrides shell detection when non-empty
	Shell string `koanf:"shell" validate:"omitempty,oneof=zsh bash fish powershell cmd"`

	// Color controls terminal color output
	Color string `koanf:"color" validate:"oneof=auto always never"`

	// Verbosity is the default log verbosity, raised by -v flags
	Verbosity int `koanf:"verbosity" validate:"min=0,max=3"`
}

// DefaultSettings returns the built-in defaults used when no settings
// file and no environment overrides exist.
func DefaultSettings() Settings {
	return Settings{
		Color:     "auto",
		Verbosity: 0,
	}
}

func defaultSettingsMap() map[string]interface{} {
	d := DefaultSettings()
	return map[string]interface{}{
		"data_dir":   d.DataDir,
		"config_dir": d.ConfigDir,
		"shell":      d.Shell,
		"color":      d.Color,
		"verbosity":  d.Verbosity,
	}
}

// LoadSettings loads settings from path, layered over the defaults
// and under ZSHRCMAN_* environment variables. A missing file is fine;
// the defaults and environment still apply.
func LoadSettings(path string) (*Settings, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(confmap.Provider(defaultSettingsMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default settings")
	}

	// 2. Settings file, when present
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse,
				"failed to parse settings from %s", path)
		}
	}

	// 3. Environment. ZSHRCMAN_DATA_DIR maps to data_dir: settings
	// keys are flat, so underscores stay.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load settings from environment")
	}

	settings := &Settings{}
	if err := k.Unmarshal("", settings); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode settings")
	}

	if err := validateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func validateSettings(s *Settings) error {
	if err := validator.New().Struct(s); err != nil {
		var fields validator.ValidationErrors
		zerr := errors.Wrap(err, errors.ErrConfigValid, "invalid settings")
		if stderrors.As(err, &fields) && len(fields) > 0 {
			zerr = zerr.WithDetail("field", fields[0].Field()).
				WithDetail("rule", fields[0].Tag())
		}
		return zerr
	}
	return nil
}
