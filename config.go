package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix      = "PETS"
	configFileName = "pets"
	configFileType = "yaml"

	cfgKeyLogLevel   = "log_level"
	cfgKeyLogFile    = "log_file"
	cfgKeyPort       = "port"
	cfgKeyMaxMembers = "max_members"

	defaultPort = 8080
)

// newConfig returns a viper instance with defaults and PETS_ environment
// lookup. Flags are bound by the commands that define them.
func newConfig() *viper.Viper {
	v := viper.New()
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyLogFile, "")
	v.SetDefault(cfgKeyPort, defaultPort)
	v.SetDefault(cfgKeyMaxMembers, 0)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// readConfig loads the YAML config file into v. An explicit path must
// exist; otherwise pets.yaml in the working directory is optional.
func readConfig(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}
