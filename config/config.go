// Package config registers every setting with viper and loads the config file.
package config

import (
	"errors"
	"strings"

	"github.com/sbskip/sbskip/constant"
	"github.com/sbskip/sbskip/filesystem"
	"github.com/sbskip/sbskip/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer turns config keys into environment variable suffixes.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup layers defaults, SBSKIP_* environment variables and the TOML file
// in where.Config(). A missing file is not an error.
func Setup() error {
	viper.SetFs(filesystem.API())
	viper.SetConfigName(constant.App)
	viper.SetConfigType("toml")
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.App)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	viper.SetTypeByDefaultValue(true)

	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}
	for _, env := range EnvExposed {
		if err := viper.BindEnv(env); err != nil {
			return err
		}
	}

	err := viper.ReadInConfig()
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return nil
	}
	return err
}
