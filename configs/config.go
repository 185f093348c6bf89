package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		Env      string `koanf:"env"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
		MigrationsPath  string        `koanf:"migrations_path"`
	} `koanf:"mysql"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Cache struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"cache"`

	Checkout struct {
		TaxRate     string `koanf:"tax_rate"` // decimal string, e.g. "0" or "0.08"
		OrderPrefix string `koanf:"order_prefix"`
	} `koanf:"checkout"`

	Broker struct {
		// Driver selects the publisher: rabbitmq | kafka | disabled.
		// disabled makes every enqueue a successful no-op delivery.
		Driver string            `koanf:"driver"`
		Topics map[string]string `koanf:"topics"` // event type -> topic override

		Rabbit struct {
			URL      string `koanf:"url"`
			Exchange string `koanf:"exchange"`
		} `koanf:"rabbitmq"`

		Kafka struct {
			Brokers []string `koanf:"brokers"`
		} `koanf:"kafka"`
	} `koanf:"broker"`

	Outbox struct {
		Tick         time.Duration `koanf:"tick"`
		BatchSize    int           `koanf:"batch_size"`
		MaxAttempts  int           `koanf:"max_attempts"`
		RetryBackoff time.Duration `koanf:"retry_backoff"`
	} `koanf:"outbox"`

	ML struct {
		BaseURL   string        `koanf:"base_url"`
		AuthToken string        `koanf:"auth_token"`
		Timeout   time.Duration `koanf:"timeout"`
	} `koanf:"ml"`

	Security struct {
		JWTSecret string        `koanf:"jwt_secret"`
		Issuer    string        `koanf:"issuer"`
		Audience  string        `koanf:"audience"`
		TTL       time.Duration `koanf:"ttl"`
	} `koanf:"security"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env overlay (dev/staging/prod). Optional for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix SHOPCORE_, nested with __)
	// e.g. SHOPCORE_MYSQL__DSN, SHOPCORE_BROKER__DRIVER
	if err := k.Load(env.Provider("SHOPCORE_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "SHOPCORE_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn required")
	}
	switch c.Broker.Driver {
	case "rabbitmq":
		if c.Broker.Rabbit.URL == "" {
			return fmt.Errorf("broker.rabbitmq.url required")
		}
	case "kafka":
		if len(c.Broker.Kafka.Brokers) == 0 {
			return fmt.Errorf("broker.kafka.brokers required")
		}
	case "disabled":
	default:
		return fmt.Errorf("broker.driver must be rabbitmq, kafka or disabled")
	}
	if c.Outbox.MaxAttempts <= 0 {
		return fmt.Errorf("outbox.max_attempts must be positive")
	}
	return nil
}
