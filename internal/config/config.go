package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the merchant firewall
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Datasets  DatasetsConfig  `mapstructure:"datasets"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Security  SecurityConfig  `mapstructure:"security"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxRequestSize  int64         `mapstructure:"max_request_size"`
}

// DatabaseConfig holds PostgreSQL configuration for the ledger store
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig holds Redis configuration for the policy cache
type RedisConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Password       string        `mapstructure:"password"`
	DB             int           `mapstructure:"db"`
	PoolSize       int           `mapstructure:"pool_size"`
	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	PolicyCacheTTL time.Duration `mapstructure:"policy_cache_ttl"`
}

// KafkaConfig holds Kafka configuration for score events
type KafkaConfig struct {
	Brokers     []string `mapstructure:"brokers"`
	ScoresTopic string   `mapstructure:"scores_topic"`
	ClientID    string   `mapstructure:"client_id"`
}

// ScoringConfig holds decision thresholds
type ScoringConfig struct {
	BlockSimilarity      int           `mapstructure:"block_similarity"`      // fuzzy score >= this -> BLOCK
	ReviewSimilarity     int           `mapstructure:"review_similarity"`     // fuzzy score >= this -> rebrand pattern
	BlockTrustScore      float64       `mapstructure:"block_trust_score"`     // trust assigned at BLOCK tier
	ReviewTrustScore     float64       `mapstructure:"review_trust_score"`    // trust assigned at high-similarity REVIEW tier
	DefaultTrustScore    float64       `mapstructure:"default_trust_score"`   // trust assigned to unknown merchants
	LowTrustThreshold    float64       `mapstructure:"low_trust_threshold"`   // below this a low-trust reason is emitted
	MicrochargeThreshold float64       `mapstructure:"microcharge_threshold"` // known-profile path only
	SpikeThreshold       float64       `mapstructure:"spike_threshold"`       // known-profile path only
	AnomalyThreshold     float64       `mapstructure:"anomaly_threshold"`     // known-profile path only
	MaxReasons           int           `mapstructure:"max_reasons"`
	MaxScoringLatency    time.Duration `mapstructure:"max_scoring_latency"`
}

// DatasetsConfig holds reference dataset locations
type DatasetsConfig struct {
	MasterCSVPath  string `mapstructure:"master_csv_path"`
	CompanyCSVPath string `mapstructure:"company_csv_path"`
}

// LLMConfig holds reasoning service configuration
type LLMConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	Endpoint       string        `mapstructure:"endpoint"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	BreakerMaxFail uint32        `mapstructure:"breaker_max_failures"`
	BreakerTimeout time.Duration `mapstructure:"breaker_timeout"`
}

// TelemetryConfig holds observability configuration
type TelemetryConfig struct {
	ServiceName   string  `mapstructure:"service_name"`
	Environment   string  `mapstructure:"environment"`
	OTLPEndpoint  string  `mapstructure:"otlp_endpoint"`
	SamplingRatio float64 `mapstructure:"sampling_ratio"`
	Debug         bool    `mapstructure:"debug"`
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	JWTSecret      string   `mapstructure:"jwt_secret"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load loads configuration from environment and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("MERCHANT_FIREWALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/merchant-firewall")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found, use defaults + env
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.max_request_size", 1048576) // 1MB

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.database", "merchant_firewall")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.conn_max_lifetime", "30m")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 50)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "1s")
	v.SetDefault("redis.write_timeout", "1s")
	v.SetDefault("redis.policy_cache_ttl", "1h")

	// Kafka defaults
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.scores_topic", "firewall.transaction.scores")
	v.SetDefault("kafka.client_id", "merchant-firewall")

	// Scoring defaults
	v.SetDefault("scoring.block_similarity", 90)
	v.SetDefault("scoring.review_similarity", 80)
	v.SetDefault("scoring.block_trust_score", 25.0)
	v.SetDefault("scoring.review_trust_score", 40.0)
	v.SetDefault("scoring.default_trust_score", 50.0)
	v.SetDefault("scoring.low_trust_threshold", 55.0)
	v.SetDefault("scoring.microcharge_threshold", 0.5)
	v.SetDefault("scoring.spike_threshold", 5.0)
	v.SetDefault("scoring.anomaly_threshold", 0.75)
	v.SetDefault("scoring.max_reasons", 5)
	v.SetDefault("scoring.max_scoring_latency", "200ms")

	// Dataset defaults
	v.SetDefault("datasets.master_csv_path", "./data/merged_master_firewall_output.csv")
	v.SetDefault("datasets.company_csv_path", "./data/company_names.csv")

	// LLM defaults
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.endpoint", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("llm.request_timeout", "30s")
	v.SetDefault("llm.breaker_max_failures", 5)
	v.SetDefault("llm.breaker_timeout", "60s")

	// Telemetry defaults
	v.SetDefault("telemetry.service_name", "merchant-firewall")
	v.SetDefault("telemetry.environment", "development")
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.sampling_ratio", 0.1)
	v.SetDefault("telemetry.debug", false)

	// Security defaults
	v.SetDefault("security.jwt_secret", "")
	v.SetDefault("security.allowed_origins", []string{"*"})
}
