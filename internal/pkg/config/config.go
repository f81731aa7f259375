package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Upstream UpstreamConfig
	Access   AccessConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=clinic_admin"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	PoolSize int           `env:"REDIS_POOL_SIZE, default=10"`
	CacheTTL time.Duration `env:"REPORT_CACHE_TTL, default=2m"`
}

// UpstreamConfig points at the clinic backend that serves the raw report
// collections.
type UpstreamConfig struct {
	BaseURL string        `env:"UPSTREAM_BASE_URL, default=http://localhost:3000/api"`
	Token   string        `env:"UPSTREAM_TOKEN"`
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT,  default=15s"`
}

// AccessConfig carries the tier step-up passwords and fee policy knobs.
// The doctor tier never needs a password.
type AccessConfig struct {
	StaffPassword     string        `env:"ACCESS_STAFF_PASSWORD,     default=staff123"`
	OwnerPassword     string        `env:"ACCESS_OWNER_PASSWORD,     default=owner456"`
	SuperUserPassword string        `env:"ACCESS_SUPERUSER_PASSWORD, default=super789"`
	LockoutCooldown   time.Duration `env:"ACCESS_LOCKOUT_COOLDOWN,   default=30s"`
	DefaultSittingFee float64       `env:"DEFAULT_SITTING_FEE,       default=100000"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
