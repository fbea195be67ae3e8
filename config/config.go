package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env             string        `mapstructure:"APP_ENV"`
	ServerPort      string        `mapstructure:"SERVER_PORT"`
	ApiURL          string        `mapstructure:"API_URL"`
	DBDriver        string        `mapstructure:"DB_DRIVER"`
	DBDSN           string        `mapstructure:"DB_DSN"`
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	BasketTTL       time.Duration `mapstructure:"BASKET_TTL"`
	CorsOrigin      string        `mapstructure:"CORS_ORIGIN"`
	TokenKey        string        `mapstructure:"TOKEN_KEY"`
	TokenIssuer     string        `mapstructure:"TOKEN_ISSUER"`
	TokenTTL        time.Duration `mapstructure:"TOKEN_TTL"`
	KafkaBrokers    string        `mapstructure:"KAFKA_BROKERS"`
	KafkaOrderTopic string        `mapstructure:"KAFKA_ORDER_TOPIC"`
	StaticDir       string        `mapstructure:"STATIC_DIR"`
	SeedOnStart     bool          `mapstructure:"SEED_ON_START"`
}

var defaults = map[string]any{
	"APP_ENV":           EnvDevelopment,
	"SERVER_PORT":       "5000",
	"API_URL":           "http://localhost:5000/",
	"DB_DRIVER":         "sqlite",
	"DB_DSN":            "data/store.db",
	"REDIS_ADDR":        "localhost:6379",
	"REDIS_PASSWORD":    "",
	"REDIS_DB":          0,
	"BASKET_TTL":        30 * 24 * time.Hour,
	"CORS_ORIGIN":       "https://localhost:4200",
	"TOKEN_KEY":         "",
	"TOKEN_ISSUER":      "https://localhost:5001",
	"TOKEN_TTL":         7 * 24 * time.Hour,
	"KAFKA_BROKERS":     "",
	"KAFKA_ORDER_TOPIC": "store.orders",
	"STATIC_DIR":        "wwwroot",
	"SEED_ON_START":     true,
}

// Load reads an optional .env file, then lets real environment variables
// override it. Missing keys fall back to the defaults above.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, err
	}
	if err := cf.Validate(); err != nil {
		return nil, err
	}
	return cf, nil
}

func (c *Config) Validate() error {
	if c.IsProduction() && len(c.TokenKey) < 32 {
		return errors.New("TOKEN_KEY must be at least 32 characters in production")
	}
	if c.TokenKey == "" {
		c.TokenKey = "super secret key for local development only"
	}
	if c.BasketTTL <= 0 {
		return errors.New("BASKET_TTL must be positive")
	}
	if !strings.HasSuffix(c.ApiURL, "/") {
		c.ApiURL += "/"
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// Brokers returns the comma separated KAFKA_BROKERS list; empty when order
// events are disabled.
func (c *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
