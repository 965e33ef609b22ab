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
	Session       SessionConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Founder       FounderConfig
	FeatureFlags  FeatureFlagsConfig
	Stripe        StripeConfig
	Namecheap     NamecheapConfig
	Cloudflare    CloudflareConfig
	DigitalOcean  DigitalOceanConfig
	Printful      PrintfulConfig
	OpenAI        OpenAIConfig
	Platform      PlatformConfig
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
	Env          string `envconfig:"TRADEVISTA_APP_ENV" required:"true"`
	Port         string `envconfig:"TRADEVISTA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TRADEVISTA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRADEVISTA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TRADEVISTA_DB_DSN"`
	Driver string `envconfig:"TRADEVISTA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TRADEVISTA_DB_HOST"`
	LegacyPort     int    `envconfig:"TRADEVISTA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TRADEVISTA_DB_USER"`
	LegacyPassword string `envconfig:"TRADEVISTA_DB_PASSWORD"`
	LegacyName     string `envconfig:"TRADEVISTA_DB_NAME"`
	LegacySSLMode  string `envconfig:"TRADEVISTA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TRADEVISTA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TRADEVISTA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TRADEVISTA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TRADEVISTA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TRADEVISTA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TRADEVISTA_REDIS_ADDR"`
	Password     string        `envconfig:"TRADEVISTA_REDIS_PASSWORD"`
	DB           int           `envconfig:"TRADEVISTA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TRADEVISTA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRADEVISTA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRADEVISTA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRADEVISTA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRADEVISTA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	UserTTL      time.Duration `envconfig:"TRADEVISTA_SESSION_USER_TTL" default:"168h"`
	AdminTTL     time.Duration `envconfig:"TRADEVISTA_SESSION_ADMIN_TTL" default:"24h"`
	CookieDomain string        `envconfig:"TRADEVISTA_SESSION_COOKIE_DOMAIN"`
	SecureCookie bool          `envconfig:"TRADEVISTA_SESSION_SECURE_COOKIE" default:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TRADEVISTA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TRADEVISTA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TRADEVISTA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TRADEVISTA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TRADEVISTA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"TRADEVISTA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"TRADEVISTA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"TRADEVISTA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"TRADEVISTA_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"TRADEVISTA_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"TRADEVISTA_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FounderConfig struct {
	Capacity int `envconfig:"TRADEVISTA_FOUNDER_CAPACITY" default:"100"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TRADEVISTA_AUTO_MIGRATE" default:"false"`
}

type StripeConfig struct {
	APIKey          string        `envconfig:"TRADEVISTA_STRIPE_API_KEY"`
	Secret          string        `envconfig:"TRADEVISTA_STRIPE_SECRET"`
	Env             string        `envconfig:"TRADEVISTA_STRIPE_ENV" default:"test"`
	MonthlyPriceID  string        `envconfig:"TRADEVISTA_STRIPE_MONTHLY_PRICE_ID"`
	CheckoutSuccess string        `envconfig:"TRADEVISTA_STRIPE_CHECKOUT_SUCCESS_URL"`
	CheckoutCancel  string        `envconfig:"TRADEVISTA_STRIPE_CHECKOUT_CANCEL_URL"`
	PortalReturnURL string        `envconfig:"TRADEVISTA_STRIPE_PORTAL_RETURN_URL"`
	EventGuardTTL   time.Duration `envconfig:"TRADEVISTA_STRIPE_EVENT_GUARD_TTL" default:"720h"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type NamecheapConfig struct {
	APIUser  string        `envconfig:"TRADEVISTA_NAMECHEAP_API_USER"`
	APIKey   string        `envconfig:"TRADEVISTA_NAMECHEAP_API_KEY"`
	Username string        `envconfig:"TRADEVISTA_NAMECHEAP_USERNAME"`
	ClientIP string        `envconfig:"TRADEVISTA_NAMECHEAP_CLIENT_IP"`
	Sandbox  bool          `envconfig:"TRADEVISTA_NAMECHEAP_SANDBOX" default:"true"`
	Timeout  time.Duration `envconfig:"TRADEVISTA_NAMECHEAP_TIMEOUT" default:"30s"`
}

type CloudflareConfig struct {
	APIToken string `envconfig:"TRADEVISTA_CLOUDFLARE_API_TOKEN"`
	ZoneID   string `envconfig:"TRADEVISTA_CLOUDFLARE_ZONE_ID"`
}

type DigitalOceanConfig struct {
	APIToken string `envconfig:"TRADEVISTA_DIGITALOCEAN_API_TOKEN"`
	Domain   string `envconfig:"TRADEVISTA_DIGITALOCEAN_DOMAIN"`
	AppIP    string `envconfig:"TRADEVISTA_DIGITALOCEAN_APP_IP"`
}

type PrintfulConfig struct {
	APIKey  string        `envconfig:"TRADEVISTA_PRINTFUL_API_KEY"`
	Timeout time.Duration `envconfig:"TRADEVISTA_PRINTFUL_TIMEOUT" default:"30s"`
}

type OpenAIConfig struct {
	APIKey string `envconfig:"TRADEVISTA_OPENAI_API_KEY"`
	Model  string `envconfig:"TRADEVISTA_OPENAI_MODEL" default:"gpt-4o-mini"`
}

type PlatformConfig struct {
	BaseDomain  string   `envconfig:"TRADEVISTA_PLATFORM_BASE_DOMAIN" default:"websights.app"`
	Nameservers []string `envconfig:"TRADEVISTA_PLATFORM_NAMESERVERS" default:"ns1.digitalocean.com,ns2.digitalocean.com,ns3.digitalocean.com"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
