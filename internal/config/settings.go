package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings are the panel's own runtime options, separate from the
// persisted AppConfig document the user edits in the UI.
type Settings struct {
	FrpcPath  string         `mapstructure:"frpc_path"`
	DataDir   string         `mapstructure:"data_dir"`
	SaveDelay time.Duration  `mapstructure:"save_delay"`
	LogLevel  string         `mapstructure:"log_level"`
	WebDAV    WebDAVSettings `mapstructure:"webdav"`
}

type WebDAVSettings struct {
	URL        string `mapstructure:"url"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	RemotePath string `mapstructure:"remote_path"`
}

// LoadSettings reads settings.yaml from the config dir, or the file given
// explicitly, and overlays FRPCPANEL_* environment variables. A missing
// file is not an error.
func LoadSettings(file string) (*Settings, error) {
	v := viper.New()

	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	v.SetDefault("frpc_path", "")
	v.SetDefault("data_dir", dir)
	v.SetDefault("save_delay", DefaultSaveDelay)
	v.SetDefault("log_level", "info")
	v.SetDefault("webdav.url", "")
	v.SetDefault("webdav.username", "")
	v.SetDefault("webdav.password", "")
	v.SetDefault("webdav.remote_path", "/frpcpanel/config.json")

	v.SetEnvPrefix("FRPCPANEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("settings")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, err
	}
	if s.DataDir == "" {
		s.DataDir = dir
	}
	if s.SaveDelay <= 0 {
		s.SaveDelay = DefaultSaveDelay
	}
	return &s, nil
}
