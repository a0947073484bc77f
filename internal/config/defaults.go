package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"database": map[string]interface{}{
			"path": "~/.dayplan/dayplan.db",
		},
		"timezone": "Local",
		"scheduler": map[string]interface{}{
			"enabled":     true,
			"interval":    30, // seconds
			"stale_after": 0,  // seconds; 0 notifies however late a reminder is
		},
		"planner": map[string]interface{}{
			"default_duration": 30, // minutes
		},
		"notify": map[string]interface{}{
			"terminal": true,
			"telegram": false,
		},
		"telegram": map[string]interface{}{
			"bot_token": "",
			"chat_id":   "",
		},
		"log": map[string]interface{}{
			"level":       "info",
			"development": false,
		},
		"metrics": map[string]interface{}{
			"enabled": false,
			"addr":    "127.0.0.1:9464",
		},
		"ui": map[string]interface{}{
			"colored_output": true,
			"markdown":       false,
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.dayplan/config.yaml"
}
