package config

import (
	"errors"
	"fmt"
	"math"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Загрузка конфигурации: сначала yaml-файл (если задан), затем переменные окружения через cleanenv

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Security  SecurityConfig  `yaml:"security"`
	Postgres  PostgresConfig  `yaml:"db"`
	Redis     RedisConfig     `yaml:"redis"`
	Task      TaskConfig      `yaml:"task"`
	Explorer  ExplorerConfig  `yaml:"explorer"`
	Superuser SuperuserConfig `yaml:"superuser"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Logger    LoggerConfig    `yaml:"logger"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"5s"`
	CORSOrigins     []string      `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

type SecurityConfig struct {
	JWTSecret          string `yaml:"jwt_secret" env:"SECURITY_JWT_SECRET"`
	JWTAlgorithm       string `yaml:"jwt_algorithm" env:"SECURITY_JWT_ALGORITHM" env-default:"HS256"`
	TokenExpireMinutes int    `yaml:"token_expire_minutes" env:"SECURITY_TOKEN_EXPIRE_MINUTES" env-default:"60"`
}

// TokenTTL - время жизни access-токена
func (c SecurityConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenExpireMinutes) * time.Minute
}

type PostgresConfig struct {
	Host            string        `yaml:"host" env:"DB_HOST" env-default:"db"`
	Port            int           `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string        `yaml:"username" env:"DB_USERNAME" env-default:"postgres"`
	Password        string        `yaml:"password" env:"DB_PASSWORD" env-default:"postgres"`
	DBName          string        `yaml:"name" env:"DB_NAME" env-default:"postgres"`
	SSLMode         string        `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	Timeout         time.Duration `yaml:"timeout" env:"DB_TIMEOUT" env-default:"5s"`
	MaxConns        int32         `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"10"`
	MinConns        int32         `yaml:"min_conns" env:"DB_MIN_CONNS" env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"DB_MAX_CONN_LIFETIME" env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DB_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// URL - DSN с экранированными логином и паролем; scheme "postgres" для pgxpool, "pgx5" для golang-migrate
func (c PostgresConfig) URL(scheme string) string {
	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Enabled bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string        `yaml:"host" env:"REDIS_HOST" env-default:"redis"`
	Port    int           `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	LockKey string        `yaml:"lock_key" env:"REDIS_LOCK_KEY" env-default:"block-aggregator:ingest"`
	LockTTL time.Duration `yaml:"lock_ttl" env:"REDIS_LOCK_TTL" env-default:"5m"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type TaskConfig struct {
	Enabled bool    `yaml:"enabled" env:"TASK_ENABLED" env-default:"true"`
	Every   Seconds `yaml:"every" env:"TASK_EVERY" env-default:"60"`
}

// Seconds - интервал в секундах ("60", "2.5"); длительность Go ("60s", "2m") тоже принимается
type Seconds time.Duration

func (s Seconds) Duration() time.Duration { return time.Duration(s) }

// SetValue - разбор значения из окружения для cleanenv
func (s *Seconds) SetValue(v string) error {
	v = strings.TrimSpace(v)
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("invalid interval %q", v)
		}
		*s = Seconds(f * float64(time.Second))
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid interval %q: want seconds or a duration", v)
	}
	*s = Seconds(d)
	return nil
}

// UnmarshalText - то же для yaml
func (s *Seconds) UnmarshalText(text []byte) error {
	return s.SetValue(string(text))
}

type ExplorerConfig struct {
	Timeout   time.Duration `yaml:"timeout" env:"EXPLORER_TIMEOUT" env-default:"0s"` // 0 - без таймаута
	UserAgent string        `yaml:"user_agent" env:"EXPLORER_USER_AGENT" env-default:"block-aggregator/1.0"`
}

type SuperuserConfig struct {
	Username string `yaml:"username" env:"SUPERUSER_USERNAME" env-default:"admin"`
	Password string `yaml:"password" env:"SUPERUSER_PASSWORD" env-default:"admin"`
	Email    string `yaml:"email" env:"SUPERUSER_EMAIL" env-default:"admin@example.com"`
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled" env:"TELEGRAM_ENABLED" env-default:"false"`
	Token   string `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
}

type LoggerConfig struct {
	Level  string `yaml:"level" env:"LOGLEVEL" env-default:"info"`    // debug|info|warn|error
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"` // text|json
}

var supportedAlgorithms = []string{"HS256", "HS384", "HS512"}

// LoadConfig читает конфиг из файла path (может быть пустым) и из окружения.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate - проверки, которые нельзя выразить тегами cleanenv
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Security.JWTSecret) == "" {
		return errors.New("SECURITY_JWT_SECRET is empty")
	}
	alg := strings.ToUpper(c.Security.JWTAlgorithm)
	ok := false
	for _, a := range supportedAlgorithms {
		if a == alg {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("unsupported jwt algorithm %q", c.Security.JWTAlgorithm)
	}
	c.Security.JWTAlgorithm = alg

	if c.Security.TokenExpireMinutes <= 0 {
		return errors.New("token expire minutes must be > 0")
	}
	if c.Task.Every.Duration() < time.Second {
		return errors.New("task interval must be at least 1s")
	}
	if c.Telegram.Enabled && strings.TrimSpace(c.Telegram.Token) == "" {
		return errors.New("telegram enabled but TELEGRAM_BOT_TOKEN is empty")
	}
	return nil
}
