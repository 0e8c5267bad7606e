// internal/config/database.go
package config

import (
	"fmt"
	"strings"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// IsSQLite reports whether the pure-Go SQLite driver is selected. An empty
// driver means Postgres.
func (d *DatabaseConfig) IsSQLite() bool {
	return d.Driver == DriverSQLite
}

// DSN renders the connection string for the selected driver. Postgres
// sessions are pinned to UTC; SQLite always gets foreign keys switched on.
func (d *DatabaseConfig) DSN() string {
	if d.IsSQLite() {
		name := d.Database
		if name == "" {
			name = ":memory:"
		}
		sep := "?"
		if strings.Contains(name, "?") {
			sep = "&"
		}
		return name + sep + "_pragma=foreign_keys(1)"
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}
