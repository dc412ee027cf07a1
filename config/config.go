package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Backend    BackendConfig    `yaml:"backend"`
	Poll       PollConfig       `yaml:"poll"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the console API server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// BackendConfig describes the game backend the console talks to. The base
// URL is explicit configuration; the console never derives it from its own
// listen address.
type BackendConfig struct {
	BaseURL        string        `yaml:"base_url"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"` // Ignored by YAML parser
	// DuplicateMarker is the substring of the backend's failure message
	// that identifies a duplicate group name. The backend has no
	// structured error code for this, so the substring match is part of
	// the wire contract.
	DuplicateMarker string `yaml:"duplicate_marker"`
}

// PollConfig holds the per-feed polling cadences. The error channel is
// deliberately aggressive: an operator has to be interrupted quickly.
type PollConfig struct {
	ErrorsSeconds   int `yaml:"errors_seconds"`
	QueueSeconds    int `yaml:"queue_seconds"`
	RoomsSeconds    int `yaml:"rooms_seconds"`
	GroupsSeconds   int `yaml:"groups_seconds"`
	RankingsSeconds int `yaml:"rankings_seconds"`

	Errors   time.Duration `yaml:"-"`
	Queue    time.Duration `yaml:"-"`
	Rooms    time.Duration `yaml:"-"`
	Groups   time.Duration `yaml:"-"`
	Rankings time.Duration `yaml:"-"`
}

// PushConfig holds the VAPID keys for staff web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// DatabaseConfig holds the journal database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Backend.TimeoutSeconds <= 0 {
		cfg.Backend.TimeoutSeconds = 30
	}
	cfg.Backend.Timeout = time.Duration(cfg.Backend.TimeoutSeconds) * time.Second

	if cfg.Backend.DuplicateMarker == "" {
		cfg.Backend.DuplicateMarker = "duplicate"
	}

	cfg.Poll.Errors = secondsOrDefault(cfg.Poll.ErrorsSeconds, 1)
	cfg.Poll.Queue = secondsOrDefault(cfg.Poll.QueueSeconds, 5)
	cfg.Poll.Rooms = secondsOrDefault(cfg.Poll.RoomsSeconds, 5)
	cfg.Poll.Groups = secondsOrDefault(cfg.Poll.GroupsSeconds, 5)
	cfg.Poll.Rankings = secondsOrDefault(cfg.Poll.RankingsSeconds, 20)

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "console.db"
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}

func secondsOrDefault(s, def int) time.Duration {
	if s <= 0 {
		s = def
	}
	return time.Duration(s) * time.Second
}
