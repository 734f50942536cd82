package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	SessionTTL string `yaml:"session_ttl"`
}

type OTPConfig struct {
	ExpiryMinutes int    `yaml:"expiry_minutes"`
	PendingTTL    string `yaml:"pending_ttl"`
}

type MailConfig struct {
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	UseTLS   bool   `yaml:"use_tls"`
	UseSSL   bool   `yaml:"use_ssl"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	FromName string `yaml:"from_name"`
	Sender   string `yaml:"sender"`
}

type UsersConfig struct {
	CodeColumn string `yaml:"code_column"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	OTP      OTPConfig      `yaml:"otp"`
	Mail     MailConfig     `yaml:"mail"`
	Users    UsersConfig    `yaml:"users"`
	Casbin   CasbinConfig   `yaml:"casbin"`
}

type Config struct {
	Port            string
	GinMode         string
	DSN             string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	JWTSecret       string
	JWTIssuer       string
	SessionTTL      time.Duration
	OTPExpiry       time.Duration
	PendingTTL      time.Duration
	MailServer      string
	MailPort        int
	MailUseTLS      bool
	MailUseSSL      bool
	MailUsername    string
	MailPassword    string
	MailFromName    string
	MailSender      string
	UserCodeColumn  string
	CasbinModelPath string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

// Load builds the configuration from config/config.yml when present,
// then applies environment overrides. The config file is optional so a
// bare environment (the deployment style of the hosted store) works.
func Load() (*Config, error) {
	cf := &ConfigFile{
		App:    AppConfig{Port: 8080, GinMode: "release"},
		JWT:    JWTConfig{Issuer: "medsync", SessionTTL: "24h"},
		OTP:    OTPConfig{ExpiryMinutes: 10, PendingTTL: "24h"},
		Mail:   MailConfig{Server: "smtp.gmail.com", Port: 465, UseSSL: true, FromName: "MedSync"},
		Users:  UsersConfig{CodeColumn: "user_code"},
		Casbin: CasbinConfig{ModelPath: "config/rbac_model.conf"},
	}

	path := env("CONFIG_PATH", "config/config.yml")
	if bytes, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(bytes, cf); err != nil {
			return nil, fmt.Errorf("could not parse config yaml at %s: %w", path, err)
		}
	}

	sessionTTL, err := time.ParseDuration(env("SESSION_TTL", cf.JWT.SessionTTL))
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}
	pendingTTL, err := time.ParseDuration(env("PENDING_TTL", cf.OTP.PendingTTL))
	if err != nil {
		return nil, fmt.Errorf("invalid pending retention TTL: %w", err)
	}

	cfg := &Config{
		Port:            env("PORT", fmt.Sprintf("%d", cf.App.Port)),
		GinMode:         env("GIN_MODE", cf.App.GinMode),
		DSN:             env("DATABASE_DSN", cf.Database.DSN),
		RedisAddr:       env("REDIS_ADDR", cf.Redis.Addr),
		RedisPassword:   env("REDIS_PASSWORD", cf.Redis.Password),
		RedisDB:         envInt("REDIS_DB", cf.Redis.DB),
		JWTSecret:       env("JWT_SECRET", cf.JWT.Secret),
		JWTIssuer:       env("JWT_ISSUER", cf.JWT.Issuer),
		SessionTTL:      sessionTTL,
		OTPExpiry:       time.Duration(envInt("OTP_EXP_MINUTES", cf.OTP.ExpiryMinutes)) * time.Minute,
		PendingTTL:      pendingTTL,
		MailServer:      env("MAIL_SERVER", cf.Mail.Server),
		MailPort:        envInt("MAIL_PORT", cf.Mail.Port),
		MailUseTLS:      envBool("MAIL_USE_TLS", cf.Mail.UseTLS),
		MailUseSSL:      envBool("MAIL_USE_SSL", cf.Mail.UseSSL),
		MailUsername:    env("MAIL_USERNAME", cf.Mail.Username),
		MailPassword:    env("MAIL_PASSWORD", cf.Mail.Password),
		MailFromName:    env("MAIL_FROM_NAME", cf.Mail.FromName),
		MailSender:      env("MAIL_DEFAULT_SENDER", cf.Mail.Sender),
		UserCodeColumn:  env("USER_CODE_FIELD", cf.Users.CodeColumn),
		CasbinModelPath: env("CASBIN_MODEL_PATH", cf.Casbin.ModelPath),
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "changeme"
	}
	if cfg.MailSender == "" {
		cfg.MailSender = cfg.MailUsername
	}
	return cfg, nil
}
