package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nlmphung/gatt/ans"
)

// A duration decodes YAML scalars like "2s" or "150ms".
type duration time.Duration

func (d *duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// Config holds the daemon configuration.
type Config struct {
	// Name is the server name used in log records.
	Name string `yaml:"name"`
	// LogLevel is debug, info, warn, or error.
	LogLevel string `yaml:"log_level"`
	// ButtonPeriod is how often the simulated button is pressed.
	ButtonPeriod duration `yaml:"button_period"`
	// SupportedNewAlerts and SupportedUnreadAlerts list category names
	// the server advertises, e.g. "email" or "simple alert".
	SupportedNewAlerts    []string `yaml:"supported_new_alerts"`
	SupportedUnreadAlerts []string `yaml:"supported_unread_alerts"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Name:                  "mtc-ble",
		LogLevel:              "info",
		ButtonPeriod:          duration(2 * time.Second),
		SupportedNewAlerts:    []string{"simple alert", "email"},
		SupportedUnreadAlerts: []string{"simple alert"},
	}
}

// LoadConfig reads a YAML config file, filling unset fields from the
// defaults. An empty path yields the defaults; a named file must exist.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.ButtonPeriod <= 0 {
		return nil, fmt.Errorf("config %s: button_period must be positive", path)
	}
	return cfg, nil
}

var categoryByName = map[string]ans.CategoryID{
	"simple alert":        ans.SimpleAlert,
	"simple_alert":        ans.SimpleAlert,
	"email":               ans.Email,
	"news":                ans.News,
	"notification call":   ans.NotificationCall,
	"notification_call":   ans.NotificationCall,
	"missed call":         ans.MissedCall,
	"missed_call":         ans.MissedCall,
	"sms/mms":             ans.SMSMMS,
	"sms_mms":             ans.SMSMMS,
	"voice mail":          ans.VoiceMail,
	"voice_mail":          ans.VoiceMail,
	"schedule":            ans.Schedule,
	"high priority alert": ans.HighPriorityAlert,
	"high_priority_alert": ans.HighPriorityAlert,
	"instant message":     ans.InstantMessage,
	"instant_message":     ans.InstantMessage,
	"all":                 ans.AllCategories,
}

// categoryMask folds a list of category names into a bitmask.
func categoryMask(names []string) (ans.CategoryMask, error) {
	var m ans.CategoryMask
	for _, n := range names {
		c, ok := categoryByName[n]
		if !ok {
			return 0, fmt.Errorf("unknown alert category %q", n)
		}
		m |= ans.MaskForCategory(c)
	}
	return m, nil
}
