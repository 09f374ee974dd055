package store

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// WeatherConfig locates the external weather provider. Place, when set,
// takes precedence over the coordinate pair.
type WeatherConfig struct {
	Endpoint  string
	APIKey    string
	Latitude  float64
	Longitude float64
	Place     string
}

type Config interface {
	BasePath() string
	Weather() WeatherConfig
}

const defaultWeatherEndpoint = "https://api.openweathermap.org/data/2.5/weather"

// LoadConfig reads .pawlog.yaml (config path overridable via
// PAWLOG_CONFIG_PATH) with PAWLOG_* environment variables on top.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.pawlog.db")
	viper.SetDefault("weather.endpoint", defaultWeatherEndpoint)
	viper.SetConfigName(".pawlog") // .yaml is implicit
	viper.SetEnvPrefix("PAWLOG")
	viper.AutomaticEnv()

	if override := os.Getenv("PAWLOG_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand data path: %w", err)
	}

	return &fileConfig{
		Path: path,
		WeatherCfg: WeatherConfig{
			Endpoint:  viper.GetString("weather.endpoint"),
			APIKey:    viper.GetString("weather.api_key"),
			Latitude:  viper.GetFloat64("weather.latitude"),
			Longitude: viper.GetFloat64("weather.longitude"),
			Place:     viper.GetString("weather.place"),
		},
	}, nil
}

type fileConfig struct {
	Path       string `json:"path"`
	WeatherCfg WeatherConfig
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) Weather() WeatherConfig {
	return f.WeatherCfg
}
