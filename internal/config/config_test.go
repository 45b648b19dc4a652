package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevelopment(t *testing.T) {
	t.Setenv("DEVELOPMENT", "1")
	assert.True(t, Development())
	t.Setenv("DEVELOPMENT", "0")
	assert.False(t, Development())
}

func TestLookupSecretFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte("hunter2\n"), 0o600))
	t.Setenv("TEST_SECRET_FILE", path)

	secret, err := lookupSecret("TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", secret)

	t.Setenv("TEST_SECRET", "direct")
	secret, err = lookupSecret("TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "direct", secret)

	_, err = lookupSecret("TEST_MISSING_SECRET")
	assert.Error(t, err)
}

func TestDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")
	t.Setenv("POSTGRES_USER", "sweeper")
	t.Setenv("POSTGRES_PASSWORD", "p@ss word")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "5432")
	t.Setenv("POSTGRES_DB", "sanctum")
	t.Setenv("POSTGRES_SSLMODE", "disable")

	cfg, err := NewDatabase()
	require.NoError(t, err)
	assert.Equal(t,
		"postgresql://sweeper:p%40ss%20word@db:5432/sanctum?application_name=sanctum-sweeper&sslmode=disable",
		cfg.URL(),
	)

	t.Setenv("POSTGRES_MAX_CONNS", "3")
	pool, err := NewPgxpoolConfig()
	require.NoError(t, err)
	assert.Equal(t, int32(3), pool.MaxConns)
	assert.Equal(t, "sanctum", pool.ConnConfig.Database)
	assert.Equal(t, "p@ss word", pool.ConnConfig.Password)
	assert.Equal(t, ApplicationName, pool.ConnConfig.RuntimeParams["application_name"])

	t.Setenv("POSTGRES_MAX_CONNS", "zero")
	_, err = NewPgxpoolConfig()
	assert.Error(t, err)
}

func TestDatabaseMissingEnv(t *testing.T) {
	t.Setenv("POSTGRES_USER", "sweeper")
	for _, key := range []string{"DATABASE_URL", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_DB", "POSTGRES_SSLMODE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	_, err := NewDatabase()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_HOST")
	assert.Contains(t, err.Error(), "POSTGRES_SSLMODE")

	t.Setenv("DATABASE_URL", "postgresql://u@h/db")
	dbURL, err := DbURL()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://u@h/db", dbURL)
}

func TestSessionTokens(t *testing.T) {
	tokens := NewSessionTokensWithSecret([]byte("secret"), time.Hour)

	token, err := tokens.Issue(7)
	require.NoError(t, err)
	assert.NoError(t, tokens.Verify(token, 7))
	assert.ErrorIs(t, tokens.Verify(token, 8), ErrTokenMismatch)

	other := NewSessionTokensWithSecret([]byte("other"), time.Hour)
	assert.Error(t, other.Verify(token, 7))

	tokens.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.Error(t, tokens.Verify(token, 7))
}

func TestSessionTokensFromEnv(t *testing.T) {
	t.Setenv("SESSION_TOKEN_SECRET", "secret")
	t.Setenv("SESSION_TOKEN_LIFETIME", "90m")
	tokens, err := NewSessionTokens()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, tokens.tokenLifetime)

	t.Setenv("SESSION_TOKEN_LIFETIME", "soon")
	_, err = NewSessionTokens()
	assert.Error(t, err)
}

func TestAllowedOrigins(t *testing.T) {
	t.Setenv("WS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, AllowedOrigins())
}
