package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ApplicationName tags level session connections in pg_stat_activity.
const ApplicationName = "sanctum-sweeper"

// Database holds the POSTGRES_* settings used when DATABASE_URL is unset.
type Database struct {
	User     string
	Password string
	Host     string
	Port     uint16
	Name     string
	SSLMode  string
}

func requireEnv(keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	var errs []error
	for _, key := range keys {
		v, ok := os.LookupEnv(key)
		if !ok {
			errs = append(errs, fmt.Errorf("no %s env variable set", key))
			continue
		}
		values[key] = v
	}
	return values, errors.Join(errs...)
}

func NewDatabase() (*Database, error) {
	env, err := requireEnv(
		"POSTGRES_USER", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_DB", "POSTGRES_SSLMODE",
	)
	if err != nil {
		return nil, err
	}

	password, err := lookupSecret("POSTGRES_PASSWORD")
	if err != nil {
		return nil, fmt.Errorf("unable to load password: %w", err)
	}

	port, err := strconv.ParseUint(env["POSTGRES_PORT"], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid POSTGRES_PORT: %w", err)
	}

	return &Database{
		User:     env["POSTGRES_USER"],
		Password: password,
		Host:     env["POSTGRES_HOST"],
		Port:     uint16(port),
		Name:     env["POSTGRES_DB"],
		SSLMode:  env["POSTGRES_SSLMODE"],
	}, nil
}

func (c Database) URL() string {
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port))),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}, "application_name": {ApplicationName}}.Encode(),
	}
	return u.String()
}

// DbURL prefers DATABASE_URL and falls back to the POSTGRES_* variables.
func DbURL() (string, error) {
	if dbURL, ok := os.LookupEnv("DATABASE_URL"); ok {
		return dbURL, nil
	}
	cfg, err := NewDatabase()
	if err != nil {
		return "", fmt.Errorf("no DATABASE_URL set; %w", err)
	}
	return cfg.URL(), nil
}

// NewPgxpoolConfig parses DbURL. POSTGRES_MAX_CONNS caps the pool; level
// sessions hold a connection only for one fetch or update.
func NewPgxpoolConfig() (*pgxpool.Config, error) {
	dbURL, err := DbURL()
	if err != nil {
		return nil, err
	}
	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, err
	}
	if s, ok := os.LookupEnv("POSTGRES_MAX_CONNS"); ok {
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid POSTGRES_MAX_CONNS %q", s)
		}
		cfg.MaxConns = int32(n)
	}
	return cfg, nil
}
