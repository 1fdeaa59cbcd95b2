package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "fieldbook"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "FIELDBOOK_DB_DSN"
	EnvDBHost = "FIELDBOOK_DB_HOST"
	EnvDBUser = "FIELDBOOK_DB_USER"
	EnvDBName = "FIELDBOOK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Seed          SeedConfig
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
	Env          string   `envconfig:"FIELDBOOK_APP_ENV" required:"true"`
	Port         string   `envconfig:"FIELDBOOK_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"FIELDBOOK_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"FIELDBOOK_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"FIELDBOOK_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FIELDBOOK_DB_DSN"`
	Driver string `envconfig:"FIELDBOOK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FIELDBOOK_DB_HOST"`
	LegacyPort     int    `envconfig:"FIELDBOOK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FIELDBOOK_DB_USER"`
	LegacyPassword string `envconfig:"FIELDBOOK_DB_PASSWORD"`
	LegacyName     string `envconfig:"FIELDBOOK_DB_NAME"`
	LegacySSLMode  string `envconfig:"FIELDBOOK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FIELDBOOK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FIELDBOOK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FIELDBOOK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FIELDBOOK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FIELDBOOK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FIELDBOOK_REDIS_ADDR"`
	Password     string        `envconfig:"FIELDBOOK_REDIS_PASSWORD"`
	DB           int           `envconfig:"FIELDBOOK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FIELDBOOK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FIELDBOOK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FIELDBOOK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FIELDBOOK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FIELDBOOK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FIELDBOOK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FIELDBOOK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FIELDBOOK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FIELDBOOK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FIELDBOOK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FIELDBOOK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FIELDBOOK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FIELDBOOK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FIELDBOOK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FIELDBOOK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"FIELDBOOK_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FIELDBOOK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FIELDBOOK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FIELDBOOK_AUTO_MIGRATE" default:"false"`
}

// SeedConfig drives first-boot seeding of the initial admin and agent
// accounts. Seeding is skipped when the usernames already exist.
type SeedConfig struct {
	AdminUsername string `envconfig:"FIELDBOOK_SEED_ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"FIELDBOOK_SEED_ADMIN_PASSWORD"`
	AgentUsername string `envconfig:"FIELDBOOK_SEED_AGENT_USERNAME" default:"agent"`
	AgentPassword string `envconfig:"FIELDBOOK_SEED_AGENT_PASSWORD"`
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
