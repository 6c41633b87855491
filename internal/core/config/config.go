package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// SecretKeyEnv names the environment variable holding the cookie signing key.
// It is mandatory: there is no fallback value.
const SecretKeyEnv = "STORE_SECRET_KEY"

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Log struct {
	Level string
	JSON  bool
}

type Session struct {
	Issuer   string
	TTLHours int
}

type DB struct {
	Driver             string
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Web struct {
	Templates string // glob for the HTML templates
}

type Config struct {
	App     App
	Log     Log
	Session Session
	DB      DB
	Web     Web

	// SecretKey signs the session cookies. Sourced from the environment,
	// never from the config file.
	SecretKey string `mapstructure:"-"`
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}

	c.SecretKey = os.Getenv(SecretKeyEnv)
	if c.SecretKey == "" {
		log.Fatalf("環境変数 %s が設定されていません。", SecretKeyEnv)
	}
	if c.Session.TTLHours <= 0 {
		c.Session.TTLHours = 24
	}
	return &c
}
