package config

// Config 配置主体
type Config struct {
	Server                 ServerConfig                 `mapstructure:"server"`
	DB                     DBConfig                     `mapstructure:"database"`
	Redis                  RedisConfig                  `mapstructure:"redis"`
	Log                    LogConfig                    `mapstructure:"log"`
	JWT                    JWTConfig                    `mapstructure:"jwt"`
	LLM                    LLMConfig                    `mapstructure:"llm"`
	Feed                   FeedConfig                   `mapstructure:"feed"`
	Twitter                TwitterConfig                `mapstructure:"twitter"`
	Mongo                  MongoConfig                  `mapstructure:"mongo"`
	Elastic                ElasticConfig                `mapstructure:"elastic"`
	Kafka                  KafkaConfig                  `mapstructure:"kafka"`
	KafkaEventProducer     KafkaEventProducer           `mapstructure:"kafka_event_producer"`
	KafkaAnalyticsConsumer KafkaAnalyticsConsumerConfig `mapstructure:"kafka_analytics_consumer"`
	Cron                   CronConfig                   `mapstructure:"cron"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LogConfig 日志配置，LogstashAddress 为空时只输出到 stdout
type LogConfig struct {
	Level           string `mapstructure:"level"`
	LogstashAddress string `mapstructure:"logstash_address"`
	Index           string `mapstructure:"index"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type LLMConfig struct {
	URL            string           `mapstructure:"url"`
	TextModel      string           `mapstructure:"text_model"`
	ApiKey         string           `mapstructure:"api_key"`
	MaxConcurrency int64            `mapstructure:"max_concurrency"`
	PromptsPath    PromptPathConfig `mapstructure:"prompts_path"`
}

type PromptPathConfig struct {
	System          string `mapstructure:"system"`
	Post            string `mapstructure:"post"`
	Summarize       string `mapstructure:"summarize"`
	SummarizeSystem string `mapstructure:"summarize_system"`
}

// FeedConfig RSS 抓取配置
type FeedConfig struct {
	Timeout   int    `mapstructure:"timeout"`
	UserAgent string `mapstructure:"user_agent"`
}

// TwitterConfig 应用级凭据，用户级 token 保存在 social_accounts 中
type TwitterConfig struct {
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	BaseURL   string `mapstructure:"base_url"`
	Timeout   int    `mapstructure:"timeout"`
}

// MongoConfig URL 为空时关闭生成日志
type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// ElasticConfig Elastic配置，Address 为空时搜索回退到数据库
type ElasticConfig struct {
	Address  string         `mapstructure:"address"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Indices  ElasticIndices `mapstructure:"indices"`
}

// ElasticIndices Elastic索引
type ElasticIndices struct {
	ContentIndex string `mapstructure:"content_index"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
}

type KafkaEventProducer struct {
	Topic string `mapstructure:"topic"`
}

type KafkaAnalyticsConsumerConfig struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// CronConfig 定时任务配置，表达式带秒
type CronConfig struct {
	CrawlSpec     string `mapstructure:"crawl_spec"`
	RetentionSpec string `mapstructure:"retention_spec"`
	RetentionDays int    `mapstructure:"retention_days"`
}
