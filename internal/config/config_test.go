package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "auth-token", cfg.JWT.CookieName)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL())
	assert.False(t, cfg.SecureCookies())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestValidateRejectsDefaultSecretInProduction(t *testing.T) {
	cfg := &Config{
		Environment: "production",
		JWT:         JWTConfig{SecretKey: defaultJWTSecret, SessionTTL: 24},
		Database:    DatabaseConfig{Driver: "postgres", Password: "secret"},
	}
	assert.Error(t, cfg.Validate())

	cfg.JWT.SecretKey = "a-production-secret-that-is-long-enough"
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.SecureCookies())

	cfg.Database.Password = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{
		Environment: "development",
		JWT:         JWTConfig{SecretKey: defaultJWTSecret, SessionTTL: 24},
		Database:    DatabaseConfig{Driver: "mysql"},
	}
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = "sqlite"
	assert.NoError(t, cfg.Validate())
}

func TestSecureCookiesOutsideDevelopment(t *testing.T) {
	cfg := &Config{Environment: "staging"}
	assert.True(t, cfg.SecureCookies())
}

func TestDatabaseDSN(t *testing.T) {
	sqlite := DatabaseConfig{Driver: DriverSQLite}
	assert.Equal(t, ":memory:?_pragma=foreign_keys(1)", sqlite.DSN())

	sqlite.Database = "file:imob.db?cache=shared"
	assert.Equal(t, "file:imob.db?cache=shared&_pragma=foreign_keys(1)", sqlite.DSN())

	pg := DatabaseConfig{Driver: DriverPostgres, Host: "db", Port: "5432", User: "imob", Password: "pw", Database: "imob", SSLMode: "disable"}
	assert.Contains(t, pg.DSN(), "host=db port=5432")
	assert.Contains(t, pg.DSN(), "TimeZone=UTC")
}

func TestServerAddr(t *testing.T) {
	assert.Equal(t, ":8080", ServerConfig{Port: "8080"}.Addr())
	assert.Equal(t, "127.0.0.1:9000", ServerConfig{Host: "127.0.0.1", Port: "9000"}.Addr())

	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("SERVER_PORT", "8181")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8181", cfg.Server.Addr())
}
