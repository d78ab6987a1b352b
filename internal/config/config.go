package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

var (
	cfgFile = "chessrules/config.json"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

// Duration reads "1s"-style strings from JSON.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

type Config struct {
	ListenAddr          string   `json:"listen_addr"`
	AllowOrigins        string   `json:"allow_origins"`
	DataDir             string   `json:"data_dir"`
	MatchmakingInterval Duration `json:"matchmaking_interval"`
	AccessLog           bool     `json:"access_log"`
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:          ":3000",
		AllowOrigins:        "http://localhost:5173",
		DataDir:             "",
		MatchmakingInterval: Duration{time.Second},
		AccessLog:           true,
	}
}

// InitConfig layers defaults, the XDG config file if one exists, and
// CHESSRULES_* environment variables.
func InitConfig() (*Config, error) {
	config := DefaultConfig()
	if absPath, err := xdg.SearchConfigFile(cfgFile); err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	config.applyEnv(os.LookupEnv)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("CHESSRULES_ADDR"); ok {
		c.ListenAddr = v
	}
	if v, ok := lookup("CHESSRULES_DATA_DIR"); ok {
		c.DataDir = v
	}
	if v, ok := lookup("CHESSRULES_ORIGINS"); ok {
		c.AllowOrigins = v
	}
}

func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return &InvalidConfig{"listen_addr must not be empty"}
	}
	if c.MatchmakingInterval.Duration <= 0 {
		return &InvalidConfig{"matchmaking_interval must be positive"}
	}
	return nil
}

// Origins splits AllowOrigins into the list the websocket upgrader wants.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Save writes the config to the user's XDG config directory and returns
// the file it wrote.
func (c *Config) Save() (string, error) {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return "", err
	}
	return absPath, saveCfgFile(absPath, c)
}

func saveCfgFile(filePath string, c *Config) error {
	jsonData, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, 0664)
}

func readCfgFile(filePath string, c *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, c); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}
