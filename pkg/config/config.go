package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Pricing       PricingConfig
	Square        SquareConfig
	Events        EventsConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env                string   `envconfig:"FOODCOURT_APP_ENV" required:"true"`
	Port               string   `envconfig:"FOODCOURT_APP_PORT" default:"8080"`
	LogLevel           string   `envconfig:"FOODCOURT_LOG_LEVEL" default:"info"`
	LogWarnStack       bool     `envconfig:"FOODCOURT_LOG_WARN_STACK" default:"false"`
	CORSAllowedOrigins []string `envconfig:"FOODCOURT_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FOODCOURT_DB_DSN"`
	Driver string `envconfig:"FOODCOURT_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"FOODCOURT_DB_HOST"`
	Port     int    `envconfig:"FOODCOURT_DB_PORT" default:"5432"`
	User     string `envconfig:"FOODCOURT_DB_USER"`
	Password string `envconfig:"FOODCOURT_DB_PASSWORD"`
	Name     string `envconfig:"FOODCOURT_DB_NAME"`
	SSLMode  string `envconfig:"FOODCOURT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FOODCOURT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOODCOURT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOODCOURT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOODCOURT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database DSN or host/user/name must be provided")
	}
	userInfo := url.User(d.User)
	if d.Password != "" {
		userInfo = url.UserPassword(d.User, d.Password)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"FOODCOURT_REDIS_URL"`
	Address      string        `envconfig:"FOODCOURT_REDIS_ADDR"`
	Password     string        `envconfig:"FOODCOURT_REDIS_PASSWORD"`
	DB           int           `envconfig:"FOODCOURT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FOODCOURT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FOODCOURT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FOODCOURT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOODCOURT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOODCOURT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FOODCOURT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FOODCOURT_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FOODCOURT_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"FOODCOURT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FOODCOURT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FOODCOURT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FOODCOURT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FOODCOURT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FOODCOURT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FOODCOURT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FOODCOURT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FOODCOURT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FOODCOURT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FOODCOURT_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FOODCOURT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// PricingConfig holds the checkout pricing knobs. Amounts are VND.
type PricingConfig struct {
	DeliveryFee int64   `envconfig:"FOODCOURT_PRICING_DELIVERY_FEE" default:"30000"`
	TaxRate     float64 `envconfig:"FOODCOURT_PRICING_TAX_RATE" default:"0.10"`
	// FloorTotal clamps the order total at zero when a discount exceeds
	// subtotal plus fee. Off by default to match the legacy storefront.
	FloorTotal bool `envconfig:"FOODCOURT_PRICING_FLOOR_TOTAL" default:"false"`
}

type SquareConfig struct {
	AccessToken string `envconfig:"FOODCOURT_SQUARE_ACCESS_TOKEN"`
	Env         string `envconfig:"FOODCOURT_SQUARE_ENV" default:"sandbox"`
	LocationID  string `envconfig:"FOODCOURT_SQUARE_LOCATION_ID"`
	RedirectURL string `envconfig:"FOODCOURT_SQUARE_REDIRECT_URL"`
}

// Environment returns the normalized Square environment string.
func (s SquareConfig) Environment() string {
	return strings.ToLower(strings.TrimSpace(s.Env))
}

type EventsConfig struct {
	ChannelPrefix string `envconfig:"FOODCOURT_EVENTS_CHANNEL_PREFIX" default:"fc:events"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FOODCOURT_AUTO_MIGRATE" default:"false"`
}
