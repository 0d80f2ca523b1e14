package config

import (
	"errors"
	"flag"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"os"
	"sessionstore/internal/lib/api/response"
	"sessionstore/internal/storage/sql"
	"strconv"
	"time"
)

type Config struct {
	Env        string  `yaml:"env" env-default:"local"`
	Storage    Storage `yaml:"storage"`
	Secret     string  `yaml:"secret"`
	HTTPServer `yaml:"http_server"`
}

type Storage struct {
	Driver string `yaml:"driver" env-default:"postgres" validate:"oneof=postgres sqlite3"`
	// ConnString wins over the DB_SESSIONS_* variables when set.
	ConnString string `yaml:"conn_string" env:"SESSIONS_CONN_STRING"`
	TableName  string `yaml:"table_name" env-default:"shopify_sessions" validate:"required,max=63,excludesall=?"`
	Port       int    `yaml:"port" env-default:"5432" validate:"min=1,max=65535"`
	SSLMode    string `yaml:"ssl_mode" env-default:"disable"`
}

type DBInitData struct {
	DB_NAME     string `validate:"required,min=1,max=64"`
	DB_USERNAME string `validate:"required,min=1,max=63"`
	DB_PASSWORD string `validate:"required"`
	DB_HOST     string `validate:"required,hostname_port|hostname|ip"`
	DB_PORT     string `validate:"omitempty,number"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("config path is not set")
	}

	return MustLoadByPath(configPath)
}

func MustLoadByPath(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}

// Load reads the YAML file, applies environment overrides and resolves the
// sessions database connection string.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if cfg.Storage.ConnString == "" {
		connString, port, err := connStringFromEnv(cfg.Storage.SSLMode)
		if err != nil {
			return nil, err
		}

		cfg.Storage.ConnString = connString
		if port != 0 {
			cfg.Storage.Port = port
		}
	}

	if err := validator.New().Struct(cfg.Storage); err != nil {
		var validateErr validator.ValidationErrors
		if !errors.As(err, &validateErr) {
			return nil, errors.New("cannot to validate storage config")
		}

		return nil, errors.New(response.ValidationError(validateErr))
	}

	secretKey := os.Getenv("SECRET_KEY")
	if secretKey == "" {
		return nil, errors.New("env SECRET_KEY is required")
	}

	cfg.Secret = secretKey

	return &cfg, nil
}

func connStringFromEnv(sslMode string) (string, int, error) {
	sessionsDB := DBInitData{
		DB_NAME:     os.Getenv("DB_SESSIONS_NAME"),
		DB_USERNAME: os.Getenv("DB_SESSIONS_USERNAME"),
		DB_PASSWORD: os.Getenv("DB_SESSIONS_PASSWORD"),
		DB_HOST:     os.Getenv("DB_SESSIONS_HOST"),
		DB_PORT:     os.Getenv("DB_SESSIONS_PORT"),
	}

	if err := validator.New().Struct(sessionsDB); err != nil {
		var validateErr validator.ValidationErrors
		if !errors.As(err, &validateErr) {
			return "", 0, errors.New("cannot to validate sessions_db init data")
		}

		return "", 0, errors.New(response.ValidateEnvVar(validateErr))
	}

	var port int
	if sessionsDB.DB_PORT != "" {
		port, _ = strconv.Atoi(sessionsDB.DB_PORT)
	}

	connString := sql.ConnString(sql.Credentials{
		Host:     sessionsDB.DB_HOST,
		Database: sessionsDB.DB_NAME,
		Username: sessionsDB.DB_USERNAME,
		Password: sessionsDB.DB_PASSWORD,
		SSLMode:  sslMode,
	})

	return connString, port, nil
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
