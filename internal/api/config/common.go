package config

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Mail     MailConfig     `mapstructure:"mail"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Captcha  CaptchaConfig  `mapstructure:"captcha"`
	Blog     BlogConfig     `mapstructure:"blog"`
	Cron     CronConfig     `mapstructure:"cron"`
	Logstash LogstashConfig `mapstructure:"logstash"`
	Messages MessagesConfig `mapstructure:"messages"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	SiteURL     string   `mapstructure:"site_url"`     // 邮件链接前缀，为空时按请求推断
	CORSOrigins []string `mapstructure:"cors_origins"` // 为空时允许任意来源
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

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
	MaxImageSize     int64  `mapstructure:"max_image_size"`
}

type KafkaConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Producer ProducerConfig `mapstructure:"producer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ProducerConfig struct {
	PostTopic    string `mapstructure:"post_topic"`
	FlushSeconds int    `mapstructure:"flush_seconds"`
}

// MailConfig SMTP 配置
type MailConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// NotifyConfig 通知分发器配置
type NotifyConfig struct {
	QueueSize   int `mapstructure:"queue_size"`
	Workers     int `mapstructure:"workers"`
	MaxAttempts int `mapstructure:"max_attempts"`
}

type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
}

type CaptchaConfig struct {
	TTLMinutes int `mapstructure:"ttl_minutes"`
	Length     int `mapstructure:"length"`
	Width      int `mapstructure:"width"`
	Height     int `mapstructure:"height"`
}

// BlogConfig 站点信息，/api/init 原样返回
type BlogConfig struct {
	Title         string `mapstructure:"title"`
	Subtitle      string `mapstructure:"subtitle"`
	Phone         string `mapstructure:"phone"`
	Email         string `mapstructure:"email"`
	Copyright     string `mapstructure:"copyright"`
	CopyrightFrom string `mapstructure:"copyright_from"`
}

// CronConfig 定时任务，表达式带秒
type CronConfig struct {
	ModerationDigest    string `mapstructure:"moderation_digest"`
	StatisticsRefresh   string `mapstructure:"statistics_refresh"`
	SysBoxClean         string `mapstructure:"sysbox_clean"`
	SysBoxRetentionDays int    `mapstructure:"sysbox_retention_days"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type MessagesConfig struct {
	Path string `mapstructure:"path"`
}
