package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Razorpay RazorpayConfig `toml:"razorpay"`
	SMTP     SMTPConfig     `toml:"smtp"`
	Booking  BookingConfig  `toml:"booking"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RazorpayConfig настройки платежного шлюза.
// Если ключи не заданы, шлюз считается выключенным и платные
// бронирования отклоняются.
type RazorpayConfig struct {
	BaseURL   string `toml:"base_url"`
	KeyID     string `toml:"key_id"`
	KeySecret string `toml:"key_secret"`
	Timeout   int    `toml:"timeout"` // секунды
}

// SMTPConfig настройки отправки почты.
// Если Email/Password не заданы, письма не отправляются (best-effort).
type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Email    string `toml:"email"`
	Password string `toml:"password"`
	Timeout  int    `toml:"timeout"` // секунды
}

// BookingConfig бизнес-настройки бронирования
type BookingConfig struct {
	// OperatingTimezone рабочая таймзона сервиса (IANA), в ней выполняется
	// вся арифметика слотов, проверка занятости и авто-истечение
	OperatingTimezone string `toml:"operating_timezone"`

	// ExpirySweepIntervalMinutes интервал фонового авто-истечения
	ExpirySweepIntervalMinutes int `toml:"expiry_sweep_interval_minutes"`

	// Дефолтное рабочее окно на случай, когда у астролога нет
	// настроенного расписания на день недели
	DefaultWindowStart         string `toml:"default_window_start"`
	DefaultWindowEnd           string `toml:"default_window_end"`
	DefaultSlotDurationMinutes int    `toml:"default_slot_duration_minutes"`
}

// Load загружает и валидирует конфигурацию из toml файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = "info"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "booking-service"
	}
	if cfg.Razorpay.BaseURL == "" {
		cfg.Razorpay.BaseURL = "https://api.razorpay.com"
	}
	if cfg.Razorpay.Timeout == 0 {
		cfg.Razorpay.Timeout = 10
	}
	if cfg.SMTP.Host == "" {
		cfg.SMTP.Host = "smtp.gmail.com"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.SMTP.Timeout == 0 {
		cfg.SMTP.Timeout = 10
	}
	if cfg.Booking.OperatingTimezone == "" {
		cfg.Booking.OperatingTimezone = "Asia/Kolkata"
	}
	if cfg.Booking.ExpirySweepIntervalMinutes == 0 {
		cfg.Booking.ExpirySweepIntervalMinutes = 60
	}
	if cfg.Booking.DefaultWindowStart == "" {
		cfg.Booking.DefaultWindowStart = "09:00"
	}
	if cfg.Booking.DefaultWindowEnd == "" {
		cfg.Booking.DefaultWindowEnd = "18:00"
	}
	if cfg.Booking.DefaultSlotDurationMinutes == 0 {
		cfg.Booking.DefaultSlotDurationMinutes = 30
	}
}

func validate(cfg *Config) error {
	if cfg.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if cfg.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if cfg.Booking.DefaultWindowStart >= cfg.Booking.DefaultWindowEnd {
		return fmt.Errorf("config: booking.default_window_start must be before default_window_end")
	}
	return nil
}
