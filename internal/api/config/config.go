package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg，环境变量 SCRIBE_* 可覆盖同名配置
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	viper.SetEnvPrefix("scribe")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("notify.queue_size", 256)
	viper.SetDefault("notify.workers", 4)
	viper.SetDefault("notify.max_attempts", 3)
	viper.SetDefault("jwt.expiration_hours", 24)
	viper.SetDefault("captcha.ttl_minutes", 60)
	viper.SetDefault("captcha.length", 5)
	viper.SetDefault("captcha.width", 100)
	viper.SetDefault("captcha.height", 35)
	viper.SetDefault("minio.max_image_size", 5<<20)
	viper.SetDefault("messages.path", "./configs/messages.yaml")
	viper.SetDefault("cron.moderation_digest", "0 0 8 * * *")
	viper.SetDefault("cron.statistics_refresh", "0 */10 * * * *")
	viper.SetDefault("cron.sysbox_clean", "0 30 3 * * *")
	viper.SetDefault("cron.sysbox_retention_days", 30)
}
