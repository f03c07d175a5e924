// Package config resolves named configuration values for the publish tool.
// Values are looked up with the precedence environment variable >
// project-level file > home-directory file. Consumers depend on the narrow
// Source interface and never parse config files themselves.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// configName is the base name of the optional config file, looked for in the
// working directory first and then in the user's home directory.
const configName = ".artifact-publish"

// Source supplies named values. The second return is false when the value is
// unset or empty under every configured source.
type Source interface {
	Read(name string) (string, bool)
}

// ViperSource is the production Source, layering environment variables over
// an optional YAML config file.
type ViperSource struct {
	v *viper.Viper
}

// NewViperSource builds a ViperSource. A missing config file is not an
// error; any other read failure is.
func NewViperSource() (*ViperSource, error) {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return &ViperSource{v: v}, nil
}

// Read returns the value for name, or false when it is unset or empty.
func (s *ViperSource) Read(name string) (string, bool) {
	value := s.v.GetString(name)
	return value, value != ""
}
