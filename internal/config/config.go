package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var Global global

type global struct {
	ControllerUrl string  `json:"controllerUrl" yaml:"controllerUrl" mapstructure:"controller-url"`
	OrgId         string  `json:"orgId" yaml:"orgId" mapstructure:"org-id"`
	SourcePath    *string `json:"sourcePath" yaml:"sourcePath" mapstructure:"-"`
}

func (g *global) IsGlobalConfigExists() bool {
	return g.SourcePath != nil
}

// LoadGlobal reads the YAML file at from into Global, a missing file
// is not an error and leaves defaults in place
func LoadGlobal(from string) error {
	logrus.Debugf("loading global configuration from path[%s]...", from)

	fi, err := os.Stat(from)
	if errors.Is(err, os.ErrNotExist) {
		logrus.Debugf("config file not found at path[%s], defaults will be used", from)
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to check config file at path[%s]: %w", from, err)
	} else if fi.IsDir() {
		logrus.Warnf("config file path[%s] led to a directory, defaults will be used", from)
		return nil
	}
	viper.SetConfigFile(from)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read configuration file: %w", err)
	}
	if err := viper.Unmarshal(&Global); err != nil {
		return fmt.Errorf("failed to parse configuration file: %w", err)
	}
	Global.SourcePath = &from

	return nil
}
