package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	. "parrot/common"
)

const DefaultIPCAddr = "127.0.0.1:18807"

type AssetsConfig struct {
	Dir   string `json:"dir"`
	Watch bool   `json:"watch"`
}

type ChannelsConfig struct {
	// Messages from ignored channels are never scanned.
	Ignored []Snowflake `json:"ignored"`
}

type DataConfig struct {
	Dir         string `json:"dir"`
	ProfilesDir string `json:"profilesDir"`
}

type GatewayConfig struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

type HTTPConfig struct {
	Addr string `json:"addr"`
}

type IPCConfig struct {
	Addr string `json:"addr"`
}

type LogConfig struct {
	Level string `json:"level"`
}

type Config struct {
	Assets   AssetsConfig   `json:"assets"`
	Channels ChannelsConfig `json:"channels"`
	Data     DataConfig     `json:"data"`
	Gateway  GatewayConfig  `json:"gateway"`
	HTTP     HTTPConfig     `json:"http"`
	IPC      IPCConfig      `json:"ipc"`
	Log      LogConfig      `json:"log"`
}

// Load reads the config file. A missing file just means all defaults,
// but unknown keys are an error, a misspelled key silently falling back
// to a default is worse than failing. PARROT_TOKEN overrides the
// gateway token so it can stay out of the file.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyDefaults()

	if token := os.Getenv("PARROT_TOKEN"); token != "" {
		cfg.Gateway.Token = token
	}

	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Assets.Dir == "" {
		cfg.Assets.Dir = "assets"
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "data"
	}
	if cfg.Data.ProfilesDir == "" {
		cfg.Data.ProfilesDir = filepath.Join(cfg.Data.Dir, "profiles")
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8000"
	}
	if cfg.IPC.Addr == "" {
		cfg.IPC.Addr = DefaultIPCAddr
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
