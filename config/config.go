package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Explore struct {
		DefaultRadiusM  int           `mapstructure:"defaultRadiusM"`
		CacheTTL        time.Duration `mapstructure:"cacheTTL"`
		CacheSweepEvery time.Duration `mapstructure:"cacheSweepEvery"`
	} `mapstructure:"explore"`
	Providers struct {
		Qdrant struct {
			URL        string `mapstructure:"url"`
			Collection string `mapstructure:"collection"`
		} `mapstructure:"qdrant"`
		RapidAPI struct {
			BaseURL string `mapstructure:"baseURL"`
		} `mapstructure:"rapidapi"`
		Geoapify struct {
			BaseURL string `mapstructure:"baseURL"`
		} `mapstructure:"geoapify"`
		Overpass struct {
			Endpoints []string `mapstructure:"endpoints"`
		} `mapstructure:"overpass"`
		OpenTripMap struct {
			BaseURL string `mapstructure:"baseURL"`
		} `mapstructure:"opentripmap"`
	} `mapstructure:"providers"`
	AI struct {
		Model string `mapstructure:"model"`
	} `mapstructure:"ai"`

	// Secrets come from the environment, never the YAML file.
	Keys struct {
		Gemini      string
		Geoapify    string
		OpenTripMap string
		RapidAPI    string
		Qdrant      string
	} `mapstructure:"-"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	config.Keys.Gemini = os.Getenv("GOOGLE_GEMINI_API_KEY")
	config.Keys.Geoapify = os.Getenv("GEOAPIFY_API_KEY")
	config.Keys.OpenTripMap = os.Getenv("OPENTRIPMAP_API_KEY")
	config.Keys.RapidAPI = os.Getenv("RAPIDAPI_KEY")
	config.Keys.Qdrant = os.Getenv("QDRANT_API_KEY")
	if url := os.Getenv("QDRANT_URL"); url != "" {
		config.Providers.Qdrant.URL = url
	}

	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
