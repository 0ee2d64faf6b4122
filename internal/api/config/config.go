package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 AUTOPOST_DATABASE_DSN
const EnvPrefix = "AUTOPOST"

// LoadConfig 从 path 目录读取 config.yaml，环境变量优先
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt.secret is required")
	}

	return &cfg, nil
}

// envOnlyKeys 没有默认值的键也需要注册，否则 AutomaticEnv 在 Unmarshal 时不会生效
var envOnlyKeys = []string{
	"database.dsn",
	"redis.addr",
	"redis.password",
	"log.logstash_address",
	"jwt.secret",
	"llm.url",
	"llm.text_model",
	"llm.api_key",
	"twitter.api_key",
	"twitter.api_secret",
	"mongo.url",
	"elastic.address",
	"elastic.username",
	"elastic.password",
}

func setDefaults(v *viper.Viper) {
	for _, key := range envOnlyKeys {
		v.SetDefault(key, "")
	}
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 100)
	v.SetDefault("database.max_lifetime", 3600)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.index", "logstash-autopost")
	v.SetDefault("jwt.issuer", "autopost")
	v.SetDefault("jwt.expire_hours", 168)
	v.SetDefault("llm.max_concurrency", 5)
	v.SetDefault("llm.prompts_path.system", "./prompts/system.txt")
	v.SetDefault("llm.prompts_path.post", "./prompts/generate-post.txt")
	v.SetDefault("llm.prompts_path.summarize", "./prompts/summarize.txt")
	v.SetDefault("llm.prompts_path.summarize_system", "./prompts/summarize-system.txt")
	v.SetDefault("feed.timeout", 15)
	v.SetDefault("feed.user_agent", "Autopost/1.0 (+feed crawler)")
	v.SetDefault("twitter.base_url", "https://api.twitter.com")
	v.SetDefault("twitter.timeout", 15)
	v.SetDefault("mongo.database", "autopost")
	v.SetDefault("elastic.indices.content_index", "discovered_content")
	v.SetDefault("kafka.consumer.session_timeout", 30)
	v.SetDefault("kafka.consumer.heartbeat_interval", 3)
	v.SetDefault("kafka.consumer.rebalance_timeout", 60)
	v.SetDefault("kafka_event_producer.topic", "autopost.post.events")
	v.SetDefault("kafka_analytics_consumer.topic", "autopost.post.analytics")
	v.SetDefault("kafka_analytics_consumer.group_id", "autopost-analytics")
	v.SetDefault("cron.crawl_spec", "0 0 * * * *")
	v.SetDefault("cron.retention_spec", "0 0 2 * * *")
	v.SetDefault("cron.retention_days", 3)
}
