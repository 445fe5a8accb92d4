package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration обертка для парсинга длительностей из TOML ("30s", "5m")
type Duration struct {
	time.Duration
}

// UnmarshalText реализует toml-декодирование длительности
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("config: parse duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// Config конфигурация сервиса, загружается из TOML файла
type Config struct {
	Server         Server       `toml:"server"`
	Database       Database     `toml:"database"`
	Logs           Logs         `toml:"logs"`
	Metrics        Metrics      `toml:"metrics"`
	Rabbit         Rabbit       `toml:"rabbit"`
	UserService    ExternalAPI  `toml:"user_service"`
	CatalogService ExternalAPI  `toml:"catalog_service"`
	Booking        BookingRules `toml:"booking"`
}

// Server настройки HTTP сервера
type Server struct {
	HTTPPort        int      `toml:"http_port"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	IdleTimeout     Duration `toml:"idle_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Database настройки подключения к PostgreSQL
type Database struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	User            string   `toml:"user"`
	Password        string   `toml:"password"`
	DBName          string   `toml:"dbname"`
	SSLMode         string   `toml:"sslmode"`
	MaxOpenConns    int      `toml:"max_open_conns"`
	MaxIdleConns    int      `toml:"max_idle_conns"`
	ConnMaxLifetime Duration `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения для lib/pq
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Logs настройки логирования
type Logs struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Metrics настройки prometheus метрик
type Metrics struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// Rabbit настройки подключения к RabbitMQ и outbox relay
type Rabbit struct {
	URL          string   `toml:"url"`
	Exchange     string   `toml:"exchange"`
	PollInterval Duration `toml:"poll_interval"`
	BatchSize    uint64   `toml:"batch_size"`
}

// ExternalAPI настройки HTTP клиента внешнего сервиса
type ExternalAPI struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
}

// BookingRules бизнес-правила бронирования
type BookingRules struct {
	MinNoticeMinutes int `toml:"min_notice_minutes"`
}

// Load читает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("config: database.host and database.dbname are required")
	}
	if c.Rabbit.URL == "" {
		return fmt.Errorf("config: rabbit.url is required")
	}
	if c.UserService.URL == "" || c.CatalogService.URL == "" {
		return fmt.Errorf("config: user_service.url and catalog_service.url are required")
	}
	return nil
}
