package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kfenech/ferrywatch/api"
	coremetrics "github.com/kfenech/ferrywatch/core/metrics"
	"github.com/kfenech/ferrywatch/infra/mqtt"
	"github.com/kfenech/ferrywatch/infra/push"
	"github.com/kfenech/ferrywatch/infra/schedule"
	"github.com/kfenech/ferrywatch/infra/telegram"
)

type Config struct {
	MQTT     mqtt.Config        `json:"mqtt"`
	API      api.Config         `json:"api"`
	Metrics  coremetrics.Config `json:"metrics"`
	Schedule schedule.Config    `json:"schedule"`
	Push     push.Config        `json:"push"`
	Telegram telegram.Config    `json:"telegram"`
}

// Load reads the config file at path (JSON or YAML by extension) and applies
// FW_-prefixed environment overrides, e.g. FW_MQTT__BROKER.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("FW_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fw_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.MQTT.SetDefaults()
	cfg.API.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Schedule.SetDefaults()
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
