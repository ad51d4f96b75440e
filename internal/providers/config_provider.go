package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"mulesync/internal/structures"
)

const AppName = "MuleSync"

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8095)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("api.baseUrl", "https://www.realmofthemadgod.com")
	v.SetDefault("api.clientToken", "0")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("reload.rateLimitInterval", time.Second)
	v.SetDefault("reload.rateLimitBackoff", 5*time.Second)
	v.SetDefault("reload.lockoutCooldown", 5*time.Minute)
	v.SetDefault("reload.onStart", true)
	v.SetDefault("cache.ttl", 10*time.Minute)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setConfigDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.BindEnv("logger.level", "MULESYNC_LOG_LEVEL")
	v.BindEnv("logger.dir", "MULESYNC_LOG_DIR")
	v.BindEnv("api.baseUrl", "MULESYNC_API_BASE_URL")
	v.BindEnv("reload.autoInterval", "MULESYNC_AUTO_INTERVAL")
	v.BindEnv("storage.dir", "MULESYNC_STORAGE_DIR")
	v.BindEnv("cache.enabled", "MULESYNC_CACHE_ENABLED")
	v.BindEnv("cache.size", "MULESYNC_CACHE_SIZE")
	v.BindEnv("metrics.enabled", "MULESYNC_METRICS_ENABLED")

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

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
