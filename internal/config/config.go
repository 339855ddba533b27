package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"development"` // environment
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Database   DatabaseConfig   `yaml:"database"`
	Admin      AdminConfig      `yaml:"admin"`
	Notify     NotifyConfig     `yaml:"notify"`
	Migrations MigrationsConfig `yaml:"migrations"`
	Storefront StorefrontConfig `yaml:"storefront"`
}

// HTTPServerConfig структура http сервера
type HTTPServerConfig struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// DatabaseConfig структура по работе с БД.
// URL не обязателен: без него приложение стартует, но каждый запрос к /api/orders отвечает 500
type DatabaseConfig struct {
	URL          string `yaml:"-" env:"DATABASE_URL,NEON_DATABASE_URL"`
	MaxOpenConns int    `yaml:"max_open_conns" env-default:"10"`
	MaxIdleConns int    `yaml:"max_idle_conns" env-default:"5"`
}

// Configured сообщает, задана ли строка подключения
func (d DatabaseConfig) Configured() bool {
	return d.URL != ""
}

// AdminConfig - общий секрет для чтения списка заказов. Пустой токен открывает эндпоинт.
type AdminConfig struct {
	Token string `yaml:"-" env:"ADMIN_TOKEN"`
}

// NotifyConfig настройка SMTP для писем о новых заказах
type NotifyConfig struct {
	SMTPHost     string        `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort     int           `yaml:"smtp_port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser     string        `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPassword string        `yaml:"-" env:"SMTP_PASSWORD"`
	From         string        `yaml:"from" env:"ORDER_EMAIL_FROM"`
	To           string        `yaml:"to" env:"ORDER_EMAIL_TO"`
	Timeout      time.Duration `yaml:"timeout" env-default:"10s"`
}

// Enabled - без хоста, отправителя или получателя уведомления выключены
func (n NotifyConfig) Enabled() bool {
	return n.SMTPHost != "" && n.From != "" && n.To != ""
}

type MigrationsConfig struct {
	Path string `yaml:"path" env-default:"./migrations"`
}

// StorefrontConfig настройка CLI-витрины
type StorefrontConfig struct {
	APIURL        string        `yaml:"api_url" env:"STOREFRONT_API_URL" env-default:"http://localhost:8080"`
	RedisAddr     string        `yaml:"redis_addr" env:"REDIS_ADDR"`
	CartTTL       time.Duration `yaml:"cart_ttl" env-default:"72h"`
	WhatsAppPhone string        `yaml:"whatsapp_phone" env-default:"8801881445154"`
}

// MustLoad - если не загружаем - паникуем.
// Без файла конфигурации настройки читаются только из окружения.
func MustLoad() *Config {
	// локальный .env не обязателен
	_ = godotenv.Load()

	configPath := fetchConfigPath()
	if configPath == "" {
		return MustLoadFromEnv()
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	if f := flag.Lookup("config"); f != nil {
		path = f.Value.String()
	} else {
		flag.StringVar(&path, "config", "", "path to config file")
		flag.Parse()
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can't read config file %s: %v", configPath, err)
	}

	return &cfg
}

// MustLoadFromEnv собирает конфигурацию только из переменных окружения
func MustLoadFromEnv() *Config {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("can't read config from environment: %v", err)
	}
	return &cfg
}
