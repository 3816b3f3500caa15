package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "CHANNEL_FEED_CONFIG"
	logLevelEnv   = "CHANNEL_FEED_LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	HTTP     HTTPConfig     `yaml:"http"`
	YouTube  YouTubeConfig  `yaml:"youtube"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Files    FilesConfig    `yaml:"files"`
}

// LoggingConfig selects the level and an optional rotating log file.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
}

// HTTPConfig tunes the shared outbound client.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
}

// YouTubeConfig carries the upstream address templates; both take a channel id.
type YouTubeConfig struct {
	ChannelPageURL string `yaml:"channelPageUrl"`
	FeedURL        string `yaml:"feedUrl"`
}

// PipelineConfig defines the pacing between feed requests.
type PipelineConfig struct {
	Pacing time.Duration `yaml:"pacing"`
}

// FilesConfig names the channel list and the generated outputs.
type FilesConfig struct {
	ChannelList string         `yaml:"channelList"`
	Outputs     []OutputConfig `yaml:"outputs"`
}

// OutputConfig binds an output format to a file path.
type OutputConfig struct {
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if fileCfg, err := Parse(raw); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Parse decodes a YAML document without applying defaults.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.File != "" {
		base.Logging.File = override.Logging.File
	}
	if override.Logging.MaxSizeMB > 0 {
		base.Logging.MaxSizeMB = override.Logging.MaxSizeMB
	}
	if override.Logging.MaxBackups > 0 {
		base.Logging.MaxBackups = override.Logging.MaxBackups
	}

	if override.HTTP.Timeout > 0 {
		base.HTTP.Timeout = override.HTTP.Timeout
	}
	if override.HTTP.UserAgent != "" {
		base.HTTP.UserAgent = override.HTTP.UserAgent
	}

	if override.YouTube.ChannelPageURL != "" {
		base.YouTube.ChannelPageURL = override.YouTube.ChannelPageURL
	}
	if override.YouTube.FeedURL != "" {
		base.YouTube.FeedURL = override.YouTube.FeedURL
	}

	if override.Pipeline.Pacing > 0 {
		base.Pipeline.Pacing = override.Pipeline.Pacing
	}

	if override.Files.ChannelList != "" {
		base.Files.ChannelList = override.Files.ChannelList
	}
	if len(override.Files.Outputs) > 0 {
		base.Files.Outputs = override.Files.Outputs
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", MaxSizeMB: 16, MaxBackups: 3},
		HTTP:    HTTPConfig{Timeout: 20 * time.Second, UserAgent: "channelfeed/1.0"},
		YouTube: YouTubeConfig{
			ChannelPageURL: "https://www.youtube.com/channel/%s",
			FeedURL:        "https://www.youtube.com/feeds/videos.xml?channel_id=%s",
		},
		Pipeline: PipelineConfig{Pacing: time.Second},
		Files: FilesConfig{
			ChannelList: "channel_list.csv",
			Outputs: []OutputConfig{
				{Format: "csv", Path: "videos.csv"},
				{Format: "json", Path: "videos.json"},
				{Format: "html", Path: "index.html"},
			},
		},
	}
}
