package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Cfg struct {
	Database   Database
	Logger     Logger
	Autofill   Autofill
	Browser    Browser
	Server     Server
	Migrations Migrations
}

// Database описывает хранилище учёта использования записей.
// Если Host пустой, используется локальный SQLite файл SQLitePath.
type Database struct {
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SQLitePath string
}

type Migrations struct {
	Path string
}

type Logger struct {
	Env        string
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// Autofill содержит параметры оркестрации автозаполнения.
// Ядро (классификация полей и генерация скрипта) от них не зависит.
type Autofill struct {
	LastLaunchedWindow    time.Duration
	RepromptDebounce      time.Duration
	DelayBetweenOperation int
	DefaultURIMatch       string
	EquivalentDomains     [][]string
	AutoCopyTotp          bool
	Premium               bool
}

type Browser struct {
	Display      string
	Headless     bool
	UserDataDir  string
	BrowsersPath string
}

type Server struct {
	Host string
	Port string
}

func Load() (*Cfg, error) {
	_ = godotenv.Load()

	cfg := &Cfg{
		Database: Database{
			Host:       os.Getenv("DB_HOST"),
			Port:       env("DB_PORT", "5432"),
			Name:       os.Getenv("DB_NAME"),
			User:       os.Getenv("DB_USER"),
			Password:   os.Getenv("DB_PASS"),
			SQLitePath: env("SQLITE_PATH", "autofill.db"),
		},
		Logger: Logger{
			Env:        env("ENV", "dev"),
			Level:      env("LOG_LEVEL", "info"),
			File:       env("LOG_FILE", "logs/autofill.log"),
			MaxSizeMB:  envInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: envInt("LOG_MAX_BACKUPS", 3),
		},
		Autofill: Autofill{
			LastLaunchedWindow:    envDuration("AUTOFILL_LAST_LAUNCHED_WINDOW", 30*time.Second),
			RepromptDebounce:      envDuration("AUTOFILL_REPROMPT_DEBOUNCE", 100*time.Millisecond),
			DelayBetweenOperation: envInt("AUTOFILL_DELAY_MS", 20),
			DefaultURIMatch:       env("AUTOFILL_DEFAULT_URI_MATCH", "domain"),
			EquivalentDomains:     envGroups("AUTOFILL_EQUIVALENT_DOMAINS"),
			AutoCopyTotp:          envBoolDefault("AUTOFILL_AUTO_COPY_TOTP", true),
			Premium:               envBool("AUTOFILL_PREMIUM"),
		},
		Browser: Browser{
			Display:      env("DISPLAY", ":0"),
			Headless:     envBool("PW_HEADLESS"),
			UserDataDir:  env("PW_USER_DATA_DIR", ""),
			BrowsersPath: env("PLAYWRIGHT_BROWSERS_PATH", ""),
		},
		Server: Server{
			Host: env("APP_HOST", "127.0.0.1"),
			Port: env("APP_PORT", "8085"),
		},
		Migrations: Migrations{
			Path: env("MIGRATIONS_PATH", ""),
		},
	}

	return cfg, nil
}

// UsePostgres сообщает, настроено ли подключение к PostgreSQL.
func (d Database) UsePostgres() bool {
	return d.Host != ""
}

func (d Database) DSN() string {
	return "host=" + d.Host +
		" port=" + d.Port +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" sslmode=disable"
}

func (d Database) URL() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=disable"
}

func env(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "true" || v == "1" || v == "yes"
}

func envBoolDefault(key string, defaultValue bool) bool {
	if os.Getenv(key) == "" {
		return defaultValue
	}
	return envBool(key)
}

func envDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

// envGroups разбирает группы эквивалентных доменов вида
// "google.com,youtube.com;apple.com,icloud.com".
func envGroups(key string) [][]string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	var groups [][]string
	for _, group := range strings.Split(v, ";") {
		var domains []string
		for _, d := range strings.Split(group, ",") {
			if d = strings.TrimSpace(strings.ToLower(d)); d != "" {
				domains = append(domains, d)
			}
		}
		if len(domains) > 1 {
			groups = append(groups, domains)
		}
	}
	return groups
}
