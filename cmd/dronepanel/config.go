package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/tinytelemetry/dronepanel/internal/model"
)

// panelConfig holds the dronepanel configuration.
type panelConfig struct {
	RefreshVideoTime              time.Duration `mapstructure:"refresh-video-time"`
	RefreshVideoDisabledRetryTime time.Duration `mapstructure:"refresh-video-disabled-retry-time"`
	RefreshPictureTime            time.Duration `mapstructure:"refresh-picture-time"`
	RefreshPictureOnMonitorTime   time.Duration `mapstructure:"refresh-picture-on-monitor-time"`
	PinnedPolicy                  string        `mapstructure:"pinned-policy"`
	LogLevel                      string        `mapstructure:"log-level"`
	BaseURL                       string        `mapstructure:"base-url"`
	RequestTimeout                time.Duration `mapstructure:"request-timeout"`
	PhotoSlots                    int           `mapstructure:"photo-slots"`
	APIEnabled                    bool          `mapstructure:"api-enabled"`
	APIAddr                       string        `mapstructure:"api-addr"`
}

func defaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "dronepanel", "config.yml")
}

func loadPanelConfig(configPath string) (panelConfig, error) {
	var cfg panelConfig

	v := viper.New()
	v.SetEnvPrefix("DRONEPANEL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("refresh-video-time", model.DefaultVideoActiveInterval)
	v.SetDefault("refresh-video-disabled-retry-time", model.DefaultVideoInactiveInterval)
	v.SetDefault("refresh-picture-time", model.DefaultPhotoInterval)
	v.SetDefault("refresh-picture-on-monitor-time", model.DefaultPictureOnMonitorInterval)
	v.SetDefault("pinned-policy", string(model.DefaultPinnedPolicy))
	v.SetDefault("log-level", model.DefaultLogLevel)
	v.SetDefault("base-url", model.DefaultBaseURL)
	v.SetDefault("request-timeout", model.DefaultRequestTimeout)
	v.SetDefault("photo-slots", model.DefaultPhotoSlots)
	v.SetDefault("api-enabled", false)
	v.SetDefault("api-addr", model.DefaultAPIAddr)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(defaultConfigPath())
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		millisecondsHook,
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return cfg, fmt.Errorf("config: decode: %w", err)
	}

	return cfg, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// millisecondsHook reads bare numbers as milliseconds, so the interval keys
// accept both 50 and "50ms".
func millisecondsHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != durationType || from == durationType {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return time.Duration(reflect.ValueOf(data).Int()) * time.Millisecond, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return time.Duration(reflect.ValueOf(data).Uint()) * time.Millisecond, nil
	case reflect.Float32, reflect.Float64:
		return time.Duration(reflect.ValueOf(data).Float() * float64(time.Millisecond)), nil
	case reflect.String:
		if n, err := strconv.ParseInt(strings.TrimSpace(data.(string)), 10, 64); err == nil {
			return time.Duration(n) * time.Millisecond, nil
		}
	}
	return data, nil
}

// polling converts the refresh settings into a validated PollingConfig.
func (c panelConfig) polling() (model.PollingConfig, error) {
	policy, err := model.ParsePinnedPolicy(c.PinnedPolicy)
	if err != nil {
		return model.PollingConfig{}, fmt.Errorf("config: %w", err)
	}
	p := model.PollingConfig{
		VideoActive:      c.RefreshVideoTime,
		VideoInactive:    c.RefreshVideoDisabledRetryTime,
		Photo:            c.RefreshPictureTime,
		PictureOnMonitor: c.RefreshPictureOnMonitorTime,
		PinnedPolicy:     policy,
	}
	if err := p.Validate(); err != nil {
		return model.PollingConfig{}, fmt.Errorf("config: %w", err)
	}
	return p, nil
}

func (c panelConfig) validate() error {
	if _, err := c.polling(); err != nil {
		return err
	}
	if c.PhotoSlots < 1 || c.PhotoSlots > model.MaxPhotoSlots {
		return fmt.Errorf("config: photo-slots must be between 1 and %d, got %d", model.MaxPhotoSlots, c.PhotoSlots)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request-timeout must be positive, got %v", c.RequestTimeout)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: base-url must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
