package providers

import (
	"checkinboard/internal/structures"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("api.timeout", "10s")
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("pinned.cacheSize", 8)

	v.BindEnv("api.baseUrl", "CHECKIN_API_BASE_URL")
	v.BindEnv("logger.level", "CHECKIN_LOG_LEVEL")
	v.BindEnv("storage.filePath", "CHECKIN_STORAGE_PATH")
	v.BindEnv("cache.enabled", "CHECKIN_CACHE_ENABLED")
	v.BindEnv("pinned.refreshInterval", "CHECKIN_PINNED_REFRESH")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "CheckinBoard"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
