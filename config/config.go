// Package config holds the tunable pieces of the training analytics: the
// move lists that define each key-action group. Defaults are compiled in;
// a YAML file can override them.
package config

import (
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// KeyActions configures which literal action names roll up under each
// analytical key-action label.
type KeyActions struct {
	SpeedControlMoves []string `yaml:"speed_control_moves" mapstructure:"speed_control_moves"`
}

// DefaultKeyActions returns the built-in key-action configuration.
func DefaultKeyActions() *KeyActions {
	return &KeyActions{
		SpeedControlMoves: []string{
			"Tailwind",
			"Trick Room",
			"Icy Wind",
			"Electroweb",
			"Thunder Wave",
			"Sticky Web",
			"Bleakwind Storm",
			"After You",
			"Quash",
		},
	}
}

// Load reads a key-action configuration, starting from the defaults and
// applying overrides from the given YAML file when path is non-empty.
func Load(path string) (*KeyActions, error) {
	keyActions := DefaultKeyActions()
	if path == "" {
		return keyActions, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	if err := v.Unmarshal(keyActions); err != nil {
		return nil, err
	}
	return keyActions, nil
}

// Dump renders the configuration as YAML, e.g. to seed an override file.
func (k *KeyActions) Dump() ([]byte, error) {
	return yaml.Marshal(k)
}
