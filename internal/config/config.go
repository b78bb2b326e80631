package config

import (
	"os"
	"path"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

// Public holds tunables safe to commit alongside the code.
type Public struct {
	Port                int      `yaml:"port"`
	AllowedOrigins      []string `yaml:"allowed_origins"`
	RateLimitMax        int      `yaml:"rate_limit_max"`
	RateLimitWindowMin  int      `yaml:"rate_limit_window_minutes"`
	MaxBodyBytes        int64    `yaml:"max_body_bytes"`
	SubjectPrefix       string   `yaml:"subject_prefix"`
	SenderName          string   `yaml:"sender_name"`
	StoreTimeoutSeconds int      `yaml:"store_timeout_seconds"`
	SMTPTimeoutSeconds  int      `yaml:"smtp_timeout_seconds"`
	SecureTransport     bool     `yaml:"secure_transport"` // behind HTTPS; enables HSTS
	LogLevel            string   `yaml:"log_level"`
	LogFormat           string   `yaml:"log_format"`
}

// Private holds secrets and deployment values; they come from the
// environment, never from a committed file.
type Private struct {
	Env           string
	MongoURI      string
	MongoDatabase string
	SMTPServer    string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	Recipient     string
	RedisAddr     string
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

// MustLoad reads public.yaml from configFolder and the private section
// from the environment. Panics on anything unusable so misconfiguration
// fails at startup, not on the first request.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)
	public.ApplyDefaults()

	private := privateFromEnv()
	if private.MongoURI == "" {
		panic("MONGO_URI must be set")
	}
	if private.SMTPServer == "" || private.SMTPUsername == "" || private.SMTPPassword == "" {
		panic("SMTP_HOST, SMTP_USERNAME and SMTP_PASSWORD must be set")
	}
	if private.Recipient == "" {
		panic("NOTIFY_RECIPIENT must be set")
	}

	return &Config{Public: public, Private: private}
}

func (p *Public) ApplyDefaults() {
	if p.Port == 0 {
		p.Port = 8080
	}
	if p.RateLimitMax == 0 {
		p.RateLimitMax = 5
	}
	if p.RateLimitWindowMin == 0 {
		p.RateLimitWindowMin = 15
	}
	if p.MaxBodyBytes == 0 {
		p.MaxBodyBytes = 10 << 20
	}
	if p.SubjectPrefix == "" {
		p.SubjectPrefix = "New Contact Form Message: "
	}
	if p.SenderName == "" {
		p.SenderName = "Contact Form"
	}
	if p.StoreTimeoutSeconds == 0 {
		p.StoreTimeoutSeconds = 10
	}
	if p.SMTPTimeoutSeconds == 0 {
		p.SMTPTimeoutSeconds = 10
	}
}

func privateFromEnv() Private {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	smtpPort := 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			smtpPort = port
		}
	}

	database := os.Getenv("MONGO_DB")
	if database == "" {
		database = "contactform"
	}

	return Private{
		Env:           env,
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: database,
		SMTPServer:    os.Getenv("SMTP_HOST"),
		SMTPPort:      smtpPort,
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		Recipient:     os.Getenv("NOTIFY_RECIPIENT"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
	}
}

// ListenAddr honors a PORT override from the environment, which most
// process hosts inject.
func (c *Config) ListenAddr() string {
	port := strconv.Itoa(c.Public.Port)
	if v := os.Getenv("PORT"); v != "" {
		port = v
	}
	return ":" + port
}
