package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	BaseURL      string

	SessionSecret string
	IPHashSalt    string
	SessionTTL    time.Duration

	RedisURL                 string
	RequestTimeout           time.Duration
	RequireEmailConfirmation bool
	OrphanSweepInterval      time.Duration
}

// Defaults
const (
	DefaultPort                = 3318
	DefaultDatabaseType        = "sqlite"
	DefaultSessionTTL          = 7 * 24 * time.Hour
	DefaultRequestTimeout      = 10 * time.Second
	DefaultOrphanSweepInterval = 10 * time.Minute
)

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var confirm string

	fs := flag.NewFlagSet("alx-polling-app", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Public base URL used in share links")
	fs.StringVar(&cfg.RedisURL, "redis", "", "Redis URL for shared session revocation (optional)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session signing secret (prefer env)")
	fs.StringVar(&cfg.IPHashSalt, "ip-salt", "", "IP hash salt (prefer env)")

	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Session lifetime")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", 0, "Per-request deadline")
	fs.DurationVar(&cfg.OrphanSweepInterval, "orphan-sweep", 0, "Interval between orphaned poll sweeps")
	fs.StringVar(&confirm, "confirm-email", "", "Require email confirmation before sign-in (true/false)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DefaultDatabaseType
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("invalid database type %q (sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("BASE_URL")
		if cfg.BaseURL == "" {
			cfg.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
		}
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}

	var err error
	if cfg.SessionTTL, err = durationFallback(cfg.SessionTTL, "SESSION_TTL", DefaultSessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = durationFallback(cfg.RequestTimeout, "REQUEST_TIMEOUT", DefaultRequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.OrphanSweepInterval, err = durationFallback(cfg.OrphanSweepInterval, "ORPHAN_SWEEP_INTERVAL", DefaultOrphanSweepInterval); err != nil {
		return Config{}, err
	}

	if confirm == "" {
		confirm = os.Getenv("REQUIRE_EMAIL_CONFIRMATION")
	}
	if confirm != "" {
		v, err := strconv.ParseBool(confirm)
		if err != nil {
			return Config{}, errors.New("invalid REQUIRE_EMAIL_CONFIRMATION value")
		}
		cfg.RequireEmailConfirmation = v
	}

	// Secrets - MUST be provided
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	if cfg.IPHashSalt == "" {
		cfg.IPHashSalt = os.Getenv("IP_HASH_SALT")
	}
	if cfg.IPHashSalt == "" {
		return Config{}, errors.New("IP_HASH_SALT required")
	}

	return cfg, nil
}

func durationFallback(v time.Duration, env string, def time.Duration) (time.Duration, error) {
	if v != 0 {
		return v, nil
	}
	s := os.Getenv(env)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s env variable", env)
	}
	return d, nil
}
