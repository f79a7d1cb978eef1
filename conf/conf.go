package conf

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. ORACLE_VERIFYCREDENTIAL.
const EnvPrefix = "ORACLE"

type Conf struct {
	Listen string `mapstructure:"Listen" validate:"required"`

	// Factor lookup service
	FactorURL  string `mapstructure:"FactorURL" validate:"required,url"`
	FactorAuth string `mapstructure:"FactorAuth"`

	// Twilio Verify
	VerifyURL        string `mapstructure:"VerifyURL" validate:"required,url"`
	VerifyServiceID  string `mapstructure:"VerifyServiceID" validate:"required"`
	VerifyCredential string `mapstructure:"VerifyCredential" validate:"required"`

	// Timeout bounds each outbound call.
	Timeout time.Duration `mapstructure:"Timeout" validate:"gt=0"`

	// RateLimit is requests per second accepted by the HTTP server; 0 disables limiting.
	RateLimit float64 `mapstructure:"RateLimit" validate:"gte=0"`
	RateBurst int     `mapstructure:"RateBurst" validate:"gte=0"`

	LogLevel string `mapstructure:"LogLevel" validate:"oneof=trace debug info warn error"`
	LogJSON  bool   `mapstructure:"LogJSON"`
}

var defaults = map[string]interface{}{
	"Listen":           ":3000",
	"FactorURL":        "https://phala-flex.vercel.app",
	"FactorAuth":       "",
	"VerifyURL":        "https://verify.twilio.com",
	"VerifyServiceID":  "",
	"VerifyCredential": "",
	"Timeout":          "10s",
	"RateLimit":        0,
	"RateBurst":        1,
	"LogLevel":         "info",
	"LogJSON":          false,
}

// LoadConf reads file (JSON, YAML or TOML by extension), applies ORACLE_* environment
// overrides and validates the result. An empty file name loads defaults and environment only.
func LoadConf(file string) (*Conf, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			log.WithFields(log.Fields{
				"path":  file,
				"error": err,
			}).Error("Read config file failed")
			return nil, err
		}
	}

	var conf Conf
	if err := v.Unmarshal(&conf); err != nil {
		log.WithFields(log.Fields{
			"path":  file,
			"error": err,
		}).Error("Parse config file failed")
		return nil, err
	}

	if err := validator.New().Struct(&conf); err != nil {
		log.WithFields(log.Fields{
			"path":  file,
			"error": err,
		}).Error("Invalid config")
		return nil, err
	}

	return &conf, nil
}

// ConfigureLogger applies LogLevel and LogJSON to the standard logrus logger.
func (c *Conf) ConfigureLogger() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if c.LogJSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
