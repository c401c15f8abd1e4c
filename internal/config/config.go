package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Gemini  GeminiConfig  `mapstructure:"gemini"`
	Window  WindowConfig  `mapstructure:"window"`
	Chat    ChatConfig    `mapstructure:"chat"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
}

type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type WindowConfig struct {
	PrimaryWidth    int `mapstructure:"primary_width"`
	PrimaryMinWidth int `mapstructure:"primary_min_width"`
	OverlayWidth    int `mapstructure:"overlay_width"`
	OverlayHeight   int `mapstructure:"overlay_height"`
	MoveStep        int `mapstructure:"move_step"`
	DefaultOffset   int `mapstructure:"default_offset"`
}

type ChatConfig struct {
	Greeting    string `mapstructure:"greeting"`
	TokenBudget int    `mapstructure:"token_budget"`
	Estimator   string `mapstructure:"estimator"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type StorageConfig struct {
	Type    string `mapstructure:"type"`
	DataDir string `mapstructure:"data_dir"`
}

var cfg *Config

func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("OVERLAY")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	// 配置文件优先，如果配置文件中没有设置，则使用环境变量
	if cfg.Gemini.APIKey == "" {
		if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
			cfg.Gemini.APIKey = apiKey
		}
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8731)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.max_header_bytes", 1<<20)

	viper.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("gemini.timeout", "60s")

	viper.SetDefault("window.primary_width", 600)
	viper.SetDefault("window.primary_min_width", 420)
	viper.SetDefault("window.overlay_width", 600)
	viper.SetDefault("window.overlay_height", 200)
	viper.SetDefault("window.move_step", 50)
	viper.SetDefault("window.default_offset", 100)

	viper.SetDefault("chat.greeting", "Hello! How can I help you?")
	viper.SetDefault("chat.token_budget", 1000)
	viper.SetDefault("chat.estimator", "words")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	viper.SetDefault("storage.type", "disk")
	viper.SetDefault("storage.data_dir", "./data")
}

func Get() *Config {
	return cfg
}
