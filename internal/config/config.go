package config

import (
	"github.com/spf13/viper"
)

type (
	// Config carries environment-level defaults for the CLI. Flags always
	// win over the environment.
	Config struct {
		Convert
	}

	Convert struct {
		From  string // default source format (TEXTME_FROM)
		To    string // default destination format (TEXTME_TO)
		Phone string // default self phone number (TEXTME_PHONE)
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("textme_from", "")
	v.SetDefault("textme_to", "")
	v.SetDefault("textme_phone", "")

	return &Config{
		Convert: Convert{
			From:  v.GetString("TEXTME_FROM"),
			To:    v.GetString("TEXTME_TO"),
			Phone: v.GetString("TEXTME_PHONE"),
		},
	}
}
