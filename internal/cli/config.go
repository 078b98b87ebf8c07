package cli

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("layerpaper")
		viper.SetConfigType("toml")
		viper.AddConfigPath("$HOME/.config/layerpaper")
		viper.AddConfigPath("/etc/xdg/layerpaper")
	}

	viper.SetDefault("wallpapers", "~/.local/share/layerpaper/wallpapers")
	viper.SetDefault("default_wallpaper", "")
	viper.SetDefault("native_rate", 60)
	viper.SetDefault("poll_timeout_ms", 4)
	viper.SetDefault("present_mode", "mailbox")
	viper.SetDefault("watch", true)
	viper.SetDefault("debug", false)
	viper.SetDefault("log_file", "~/.local/state/layerpaper/layerpaper.log")

	viper.SetEnvPrefix("layerpaper")
	viper.AutomaticEnv() // read environment variables that match

	// No config file is fine, the defaults apply.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			cobra.CheckErr(err)
		}
	}

	if viper.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
}
